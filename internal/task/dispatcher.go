package task

import (
	"context"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/hibiken/asynq"
)

type Dispatcher struct {
	client *asynq.Client
}

// compile-time check
var _ port.AssetCleanupDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}

func (d *Dispatcher) EnqueueAssetCleanup(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	t, err := NewAssetCleanupTask(paths)
	if err != nil {
		return err
	}
	info, err := d.client.EnqueueContext(ctx, t)
	if err != nil {
		return err
	}
	logger.Infof(ctx, "queued cleanup of %d asset(s) as task %s", len(paths), info.ID)
	return nil
}
