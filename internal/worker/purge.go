package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const purgeBatchSize = 100

// Purger is the slice of the task store the pool needs.
type Purger interface {
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time, batch int) (int64, error)
}

// PurgePool hard-deletes tasks that have been soft-deleted longer than
// the retention window. API paths only ever soft-delete; this is the
// administrative path that keeps the table bounded.
type PurgePool struct {
	store     Purger
	logger    *zap.Logger
	count     int
	retention time.Duration
	interval  time.Duration
	wg        sync.WaitGroup
	stop      chan struct{}
}

func NewPurgePool(store Purger, logger *zap.Logger, count int, retention, interval time.Duration) *PurgePool {
	return &PurgePool{
		store:     store,
		logger:    logger,
		count:     count,
		retention: retention,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

func (p *PurgePool) Start(ctx context.Context) {
	p.logger.Info("Starting purge pool",
		zap.Int("workers", p.count),
		zap.Duration("retention", p.retention),
	)

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *PurgePool) Stop() {
	p.logger.Info("Stopping purge pool...")
	close(p.stop)
	p.wg.Wait()
	p.logger.Info("Purge pool stopped")
}

func (p *PurgePool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.purge(ctx, id); err != nil {
				p.logger.Error("purge error", zap.Int("worker", id), zap.Error(err))
			}
		}
	}
}

// purge drains expired rows batch by batch so a large backlog never
// turns into one long-running delete.
func (p *PurgePool) purge(ctx context.Context, workerID int) error {
	cutoff := time.Now().Add(-p.retention)

	var total int64
	for {
		n, err := p.store.PurgeDeletedBefore(ctx, cutoff, purgeBatchSize)
		if err != nil {
			return err
		}
		total += n
		if n < purgeBatchSize {
			break
		}
	}

	if total > 0 {
		p.logger.Info("Purged deleted tasks",
			zap.Int("worker", workerID),
			zap.Int64("purged", total),
		)
	}
	return nil
}
