package mongorepo

import (
	"testing"
	"time"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecimal128(t *testing.T) {
	cases := []string{"0", "150.25", "-42.5", "8884.883333333333"}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			d := decimal.RequireFromString(in)
			v, err := toDecimal128(d)
			require.NoError(t, err)

			back, err := fromDecimal128(v)
			require.NoError(t, err)
			assert.True(t, d.Equal(back), "want %s, got %s", d, back)
		})
	}

	t.Run("rounds to scale", func(t *testing.T) {
		d := decimal.RequireFromString("1").Div(decimal.NewFromInt(3))
		v, err := toDecimal128(d)
		require.NoError(t, err)
		assert.Equal(t, "0.3333333333333333", v.String())
	})
}

func TestConverter_KeepsFirstError(t *testing.T) {
	var c converter
	id := c.id("not-uuid")
	assert.Equal(t, uuid.Nil, id)
	require.ErrorIs(t, c.err, errBadDocument)

	// после первой ошибки значения не разбираются.
	assert.True(t, c.dec(decimalZero).IsZero())
	assert.Equal(t, uuid.Nil, c.id(uuid.NewString()))
}

func TestTransactionDoc_RoundTrip(t *testing.T) {
	receiver := uuid.New()
	completed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tx := domain.Transaction{
		ID:                uuid.New(),
		SenderAccountID:   uuid.New(),
		ReceiverAccountID: &receiver,
		Amount:            decimal.RequireFromString("250.75"),
		Type:              domain.TransactionTransfer,
		Status:            domain.TransactionCompleted,
		Reference:         "TXN01HX",
		Description:       "rent",
		CreatedAt:         completed,
		CompletedAt:       &completed,
	}

	doc, err := newTransactionDoc(tx)
	require.NoError(t, err)
	require.NotNil(t, doc.ReceiverAccountID)
	assert.Equal(t, receiver.String(), *doc.ReceiverAccountID)

	back, err := doc.toDomain()
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(back.Amount))
	back.Amount = tx.Amount
	assert.Equal(t, tx, *back)
}

func TestTransactionDoc_NoReceiver(t *testing.T) {
	doc, err := newTransactionDoc(domain.Transaction{
		ID:              uuid.New(),
		SenderAccountID: uuid.New(),
		Amount:          decimal.NewFromInt(10),
		Type:            domain.TransactionDeposit,
	})
	require.NoError(t, err)
	assert.Nil(t, doc.ReceiverAccountID)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	_, lookupErr := bson.Raw(raw).LookupErr("receiverAccountId")
	assert.Error(t, lookupErr)

	back, err := doc.toDomain()
	require.NoError(t, err)
	assert.Nil(t, back.ReceiverAccountID)
}

func TestAccountDoc_MalformedID(t *testing.T) {
	doc := accountDoc{ID: "broken", UserID: uuid.NewString(), Balance: decimalZero}
	acc, err := doc.toDomain()
	assert.Nil(t, acc)
	assert.ErrorIs(t, err, errBadDocument)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t,
		[]string{"pending", "approved", "active"},
		enumStrings(domain.OpenLoanStatuses),
	)
}

func TestSummaryPipeline(t *testing.T) {
	id := uuid.New()
	pipeline := summaryPipeline(id)
	require.Len(t, pipeline, 4)

	stages := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		stages = append(stages, stage[0].Key)
	}
	assert.Equal(t, []string{"$match", "$project", "$group", "$sort"}, stages)

	match, ok := pipeline[0][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.E{Key: "status", Value: "completed"}, match[len(match)-1])

	raw, err := bson.Marshal(bson.D{{Key: "pipeline", Value: pipeline}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), id.String())
}

func TestSummaryDoc_Decode(t *testing.T) {
	total, err := primitive.ParseDecimal128("300.50")
	require.NoError(t, err)
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: "transfer"},
		{Key: "incomingCount", Value: int64(2)},
		{Key: "incomingTotal", Value: total},
		{Key: "outgoingCount", Value: int64(0)},
		{Key: "outgoingTotal", Value: decimalZero},
	})
	require.NoError(t, err)

	var doc summaryDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "transfer", doc.Type)
	assert.EqualValues(t, 2, doc.IncomingCount)
	assert.Equal(t, "300.50", doc.IncomingTotal.String())
}
