package expiry

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/groph-bank/internal/logger"
	"github.com/fsdevblog/groph-bank/internal/worker/expiry/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor(t *testing.T) (*Processor, *mocks.MockServicer, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svs := mocks.NewMockServicer(ctrl)

	var logs bytes.Buffer
	fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	p := New(svs, logger.New(&logs)).SetBatch(2).SetInterval(time.Hour)
	p.now = func() time.Time { return fixed }
	return p, svs, &logs
}

func TestProcess_DrainsFullBatches(t *testing.T) {
	p, svs, _ := newProcessor(t)

	gomock.InOrder(
		svs.EXPECT().ExpireDue(gomock.Any(), p.now(), uint(2)).Return(2, nil),
		svs.EXPECT().ExpireDue(gomock.Any(), p.now(), uint(2)).Return(2, nil),
		svs.EXPECT().ExpireDue(gomock.Any(), p.now(), uint(2)).Return(1, nil),
	)

	total, err := p.process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestProcess_Error(t *testing.T) {
	p, svs, _ := newProcessor(t)
	boom := errors.New("storage down")

	gomock.InOrder(
		svs.EXPECT().ExpireDue(gomock.Any(), gomock.Any(), uint(2)).Return(2, nil),
		svs.EXPECT().ExpireDue(gomock.Any(), gomock.Any(), uint(2)).Return(0, boom),
	)

	total, err := p.process(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, total)
}

func TestRun_StopsOnCancel(t *testing.T) {
	p, svs, logs := newProcessor(t)
	ctx, cancel := context.WithCancel(context.Background())

	svs.EXPECT().ExpireDue(gomock.Any(), gomock.Any(), uint(2)).
		DoAndReturn(func(context.Context, time.Time, uint) (int, error) {
			cancel()
			return 1, nil
		})

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop")
	}
	assert.Contains(t, logs.String(), "cards expired")
}
