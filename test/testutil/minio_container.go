package testutil

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/storage"
	"github.com/minio/minio-go/v7"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

type MinIOContainerInfo struct {
	Endpoint string
	Client   *minio.Client
	Cleanup  func()
}

const (
	minioRootUser     = "minioadmin"
	minioRootPassword = "minioadmin"
)

func StartMinIOContainer() (*MinIOContainerInfo, error) {
	const internalPort = "9000/tcp"

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Env: []string{
			fmt.Sprintf("MINIO_ROOT_USER=%s", minioRootUser),
			fmt.Sprintf("MINIO_ROOT_PASSWORD=%s", minioRootPassword),
		},
		Cmd: []string{"server", "/data"},
	}, func(hostConfig *docker.HostConfig) {
		hostConfig.AutoRemove = true
		hostConfig.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start minio container: %w", err)
	}

	var endpoint string
	var client *minio.Client
	if err := pool.Retry(func() error {
		endpoint = fmt.Sprintf("localhost:%s", resource.GetPort(internalPort))
		c, err := storage.NewMinioClient(endpoint, minioRootUser, minioRootPassword, false)
		if err != nil {
			return err
		}
		// ListBuckets is a light operation to check health
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := c.ListBuckets(ctx); err != nil {
			return err
		}
		client = c
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("minio did not become ready: %w", err)
	}

	return &MinIOContainerInfo{
		Endpoint: endpoint,
		Client:   client,
		Cleanup: func() {
			if err := pool.Purge(resource); err != nil {
				log.Printf("could not purge minio container: %s", err)
			}
		},
	}, nil
}
