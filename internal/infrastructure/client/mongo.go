package client

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConfig struct {
	Host string
	Port int
	Name string
}

func (cfg MongoConfig) URL() string {
	return fmt.Sprintf("mongodb://%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
}

type MongoClient struct {
	client   *mongo.Client
	Database *mongo.Database
}

func NewMongoClient(ctx context.Context, cfg MongoConfig) (*MongoClient, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "failed to ping mongo")
	}

	return &MongoClient{
		client:   client,
		Database: client.Database(cfg.Name),
	}, nil
}

func (c *MongoClient) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return errors.WithStack(c.client.Disconnect(ctx))
}
