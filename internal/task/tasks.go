package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeAssetCleanup = "asset:cleanup"

// Cleanup is best-effort: a few retries, then the task is archived.
const (
	assetCleanupMaxRetry = 3
	assetCleanupTimeout  = 2 * time.Minute
)

type AssetCleanupPayload struct {
	Paths []string `json:"paths"`
}

// NewAssetCleanupTask creates an Asynq task deleting the given stored paths.
func NewAssetCleanupTask(paths []string) (*asynq.Task, error) {
	if len(paths) == 0 {
		return nil, errors.New("asset-cleanup task needs at least one path")
	}
	data, err := json.Marshal(AssetCleanupPayload{Paths: paths})
	if err != nil {
		return nil, fmt.Errorf("could not marshal asset-cleanup payload: %w", err)
	}
	return asynq.NewTask(TypeAssetCleanup, data,
		asynq.MaxRetry(assetCleanupMaxRetry),
		asynq.Timeout(assetCleanupTimeout),
	), nil
}

// ParseAssetCleanupPayload parses the task payload to AssetCleanupPayload.
func ParseAssetCleanupPayload(t *asynq.Task) (AssetCleanupPayload, error) {
	var p AssetCleanupPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return AssetCleanupPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
