package metrics

import (
	"errors"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "tasks"

	LabelOperation = "operation"
	LabelOutcome   = "outcome"
)

const (
	OutcomeOK             = "ok"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeNotFound       = "not_found"
	OutcomeInternal       = "internal"
)

var Operations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "operations_total",
		Help:      "Task registry operations by outcome",
		Namespace: Namespace,
	},
	[]string{LabelOperation, LabelOutcome},
)

// Outcome классифицирует ошибку операции для метки outcome
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, entity.ErrInvalidRequest):
		return OutcomeInvalidRequest
	case errors.Is(err, entity.ErrTaskNotFound):
		return OutcomeNotFound
	default:
		return OutcomeInternal
	}
}

func ObserveOperation(operation string, err error) {
	Operations.With(prometheus.Labels{
		LabelOperation: operation,
		LabelOutcome:   Outcome(err),
	}).Inc()
}
