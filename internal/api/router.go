package api

import (
	"log/slog"
	"net/http"

	"github.com/St1cky1/task-registry/internal/api/handlers"
	"github.com/St1cky1/task-registry/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(taskService *usecase.TaskService, conf RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.RequestID)
	r.Use(sloghttp.New(logger.WithGroup("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: conf.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}).Handler)

	taskHandler := handlers.NewTaskHandler(taskService)

	r.Get("/health", taskHandler.Health)
	r.Post("/create", taskHandler.CreateTask)
	r.Get("/get", taskHandler.GetTasks)
	r.Patch("/update", taskHandler.UpdateTask)
	r.Delete("/delete", taskHandler.DeleteTask)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
