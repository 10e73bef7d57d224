package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"created": StatusCreated,
		"on_work": StatusOnWork,
		"done":    StatusDone,
	}
	for tag, want := range cases {
		got, err := ParseTaskStatus(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, want, got)
		assert.Equal(t, tag, got.String())
	}

	for _, tag := range []string{"", "Created", "DONE", "in_progress"} {
		_, err := ParseTaskStatus(tag)
		assert.True(t, errors.Is(err, ErrInvalidRequest), "tag %q must be rejected", tag)
	}
}

func TestTaskJSONUsesStatusTags(t *testing.T) {
	task := Task{Title: "A", Description: "B", Status: StatusOnWork}

	raw, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"on_work"`)

	var decoded Task
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, task, decoded)
}

func TestZeroStatusDoesNotMarshal(t *testing.T) {
	_, err := json.Marshal(Task{Title: "A"})
	assert.Error(t, err)
}
