// Package expiry периодически переводит просроченные карты в статус expired.
package expiry

//go:generate mockgen -source=expiry.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout      = 10 * time.Second
	defaultBatch          uint = 100
	defaultInterval            = time.Hour
)

// Servicer интерфейс исключительно для моков.
type Servicer interface {
	ExpireDue(ctx context.Context, now time.Time, limit uint) (int, error)
}

// Processor раз в interval просит сервис карт закрыть просроченные карты пачками по batch штук.
type Processor struct {
	svs      Servicer
	l        *logrus.Entry
	interval time.Duration
	batch    uint
	now      func() time.Time
}

func New(svs Servicer, l *logrus.Logger) *Processor {
	return &Processor{
		svs: svs,
		l: l.WithFields(logrus.Fields{
			"component": "worker",
			"module":    "card-expiry",
		}),
		interval: defaultInterval,
		batch:    defaultBatch,
		now:      time.Now,
	}
}

func (p *Processor) SetInterval(interval time.Duration) *Processor {
	p.interval = interval
	return p
}

func (p *Processor) SetBatch(batch uint) *Processor {
	p.batch = batch
	return p
}

// Run обрабатывает карты сразу при старте, затем по таймеру, до отмены контекста.
func (p *Processor) Run(ctx context.Context) {
	p.l.WithFields(logrus.Fields{
		"interval": p.interval.String(),
		"batch":    p.batch,
	}).Info("Starting")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if total, err := p.process(ctx); err != nil {
			p.l.WithError(err).Error("process error")
		} else if total > 0 {
			p.l.WithField("expired", total).Info("cards expired")
		}

		select {
		case <-ctx.Done():
			p.l.Info("Got stop signal, exiting...")
			return
		case <-ticker.C:
		}
	}
}

// process закрывает пачки, пока сервис возвращает полную пачку. Возвращает общее число закрытых карт.
func (p *Processor) process(ctx context.Context) (int, error) {
	var total int
	for {
		if ctx.Err() != nil {
			return total, nil
		}

		reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
		n, err := p.svs.ExpireDue(reqCtx, p.now(), p.batch)
		cancel()
		if err != nil {
			return total, err //nolint:wrapcheck
		}

		total += n
		if n > 0 {
			p.l.WithField("batch", n).Debug("batch expired")
		}
		if n < int(p.batch) { //nolint:gosec
			return total, nil
		}
	}
}
