//go:build integration

package repository_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/St1cky1/task-registry/internal/infrastructure/client"
	"github.com/St1cky1/task-registry/internal/repository"
	"github.com/St1cky1/task-registry/internal/repository/repositorytest"
	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMongoTaskRepository(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	defer func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Fatalf("failed to terminate container: %+v", errors.WithStack(err))
		}
	}()
	if err != nil {
		t.Fatalf("failed to start container: %+v", errors.WithStack(err))
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("could not retrieve host: %+v", errors.WithStack(err))
	}

	mapped, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		t.Fatalf("could not retrieve port: %+v", errors.WithStack(err))
	}

	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		t.Fatalf("unexpected port %q: %+v", mapped.Port(), errors.WithStack(err))
	}

	mongoClient, err := client.NewMongoClient(ctx, client.MongoConfig{Host: host, Port: port, Name: "tasks_test"})
	if err != nil {
		t.Fatalf("could not connect: %+v", err)
	}
	defer mongoClient.Close(ctx)

	repositorytest.Run(t, repository.NewMongoTaskRepository(mongoClient.Database))
}
