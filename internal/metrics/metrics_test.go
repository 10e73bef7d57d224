package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeInvalidRequest, Outcome(entity.ErrNoFilter))
	assert.Equal(t, OutcomeNotFound, Outcome(fmt.Errorf("lookup: %w", entity.ErrTaskNotFound)))
	assert.Equal(t, OutcomeInternal, Outcome(errors.New("connection reset")))
}

func TestObserveOperation(t *testing.T) {
	counter := Operations.WithLabelValues("test_op", OutcomeNotFound)
	before := testutil.ToFloat64(counter)

	ObserveOperation("test_op", entity.ErrTaskNotFound)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
