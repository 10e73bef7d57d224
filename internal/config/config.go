package config

import (
	"github.com/St1cky1/task-registry/internal/infrastructure/client"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	HTTP     HTTP     `envPrefix:"HTTP_"`
	GRPC     GRPC     `envPrefix:"GRPC_"`
	Store    Store    `envPrefix:"STORE_"`
	Mongo    Mongo    `envPrefix:"MONGO_"`
	Postgres Postgres `envPrefix:"POSTGRES_"`
	RabbitMQ RabbitMQ `envPrefix:"RABBITMQ_"`
}

type HTTP struct {
	Address            string   `env:"ADDRESS,expand" envDefault:":8080" validate:"required"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

type GRPC struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Address string `env:"ADDRESS,expand" envDefault:":9090" validate:"required"`
}

type Store struct {
	Driver string `env:"DRIVER" envDefault:"mongo" validate:"oneof=mongo postgres memory"`
}

type Mongo struct {
	Host string `env:"HOST,expand" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"27017" validate:"gt=0,lt=65536"`
	Name string `env:"NAME" envDefault:"tasks"`
}

type Postgres struct {
	Host        string `env:"HOST,expand" envDefault:"localhost"`
	Port        string `env:"PORT" envDefault:"5432"`
	User        string `env:"USER" envDefault:"postgres"`
	Password    string `env:"PASSWORD"`
	DBName      string `env:"DBNAME" envDefault:"tasks"`
	SSLMode     string `env:"SSLMODE" envDefault:"disable"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

// RabbitMQ - пустой URL отключает публикацию событий
type RabbitMQ struct {
	URL     string `env:"URL,expand"`
	Queue   string `env:"QUEUE" envDefault:"task_events" validate:"required"`
	Consume bool   `env:"CONSUME" envDefault:"false"`
}

func Parse() (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix: "TASKS_",
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validator.New().Struct(conf); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	if conf.Store.Driver == DriverMongo && conf.Mongo.Name == "" {
		return nil, errors.New("mongo database name required")
	}

	return &conf, nil
}

func (p Postgres) ClientConfig() client.Config {
	return client.Config{
		Host:     p.Host,
		Port:     p.Port,
		User:     p.User,
		Password: p.Password,
		DBName:   p.DBName,
		SSLMode:  p.SSLMode,
	}
}

func (m Mongo) ClientConfig() client.MongoConfig {
	return client.MongoConfig{
		Host: m.Host,
		Port: m.Port,
		Name: m.Name,
	}
}
