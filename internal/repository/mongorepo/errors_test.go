package mongorepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConvertErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "no documents", err: mongo.ErrNoDocuments, want: domain.ErrRecordNotFound},
		{
			name: "duplicate key",
			err:  mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000"}}},
			want: domain.ErrDuplicateKey,
		},
		{name: "generated value taken", err: fmt.Errorf("upsert: %w", errValueTaken), want: domain.ErrDuplicateKey},
		{name: "bad document", err: errBadDocument, want: errBadDocument},
		{name: "other", err: errors.New("server selection timeout"), want: domain.ErrUnknown},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, convertErr(tt.err, "op %d", 1), tt.want)
		})
	}

	assert.NoError(t, convertErr(nil, "nothing"))
}
