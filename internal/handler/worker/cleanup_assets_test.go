package worker

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fhuszti/movies-ms-go/internal/mock"
	"github.com/fhuszti/movies-ms-go/internal/task"
	"github.com/hibiken/asynq"
)

func TestAssetCleanupHandler_EmptyPayload(t *testing.T) {
	svc := &mock.AssetCleaner{}
	err := AssetCleanupHandler(context.Background(), task.AssetCleanupPayload{}, svc)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if svc.Called {
		t.Error("service should not be called without paths")
	}
}

func TestAssetCleanupHandler_ServiceError(t *testing.T) {
	svcErr := errors.New("svc fail")
	svc := &mock.AssetCleaner{Err: svcErr}

	err := AssetCleanupHandler(context.Background(), task.AssetCleanupPayload{Paths: []string{"A/a.png"}}, svc)
	if !errors.Is(err, svcErr) {
		t.Fatalf("got error %v; want %v", err, svcErr)
	}
	if !svc.Called {
		t.Error("service not called")
	}
}

func TestAssetCleanupHandler_Success(t *testing.T) {
	svc := &mock.AssetCleaner{}
	paths := []string{"A/a.png", "A/b.mp4"}

	if err := AssetCleanupHandler(context.Background(), task.AssetCleanupPayload{Paths: paths}, svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(svc.GotPaths, paths) {
		t.Errorf("service got %v; want %v", svc.GotPaths, paths)
	}
}
