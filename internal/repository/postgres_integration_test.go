//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/St1cky1/task-registry/internal/infrastructure/client"
	"github.com/St1cky1/task-registry/internal/repository"
	"github.com/St1cky1/task-registry/internal/repository/repositorytest"
	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresTaskRepository(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "tasks",
				"POSTGRES_PASSWORD": "tasks",
				"POSTGRES_DB":       "tasks",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
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

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("could not retrieve port: %+v", errors.WithStack(err))
	}

	cfg := client.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "tasks",
		Password: "tasks",
		DBName:   "tasks",
		SSLMode:  "disable",
	}

	if err := client.RunMigrations(cfg.URL()); err != nil {
		t.Fatalf("could not run migrations: %+v", err)
	}

	pg, err := client.NewPostgresClient(ctx, cfg)
	if err != nil {
		t.Fatalf("could not connect: %+v", err)
	}
	defer pg.Close()

	repositorytest.Run(t, repository.NewTaskRepository(pg.Pool))
}
