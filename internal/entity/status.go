package entity

import "fmt"

// TaskStatus - закрытое перечисление статусов задачи.
// На границе (JSON, документы хранилища) сериализуется строковым тегом.
type TaskStatus uint8

const (
	StatusCreated TaskStatus = iota + 1
	StatusOnWork
	StatusDone
)

var statusTags = map[TaskStatus]string{
	StatusCreated: "created",
	StatusOnWork:  "on_work",
	StatusDone:    "done",
}

// ParseTaskStatus принимает только точный строковый тег
func ParseTaskStatus(tag string) (TaskStatus, error) {
	for status, t := range statusTags {
		if t == tag {
			return status, nil
		}
	}
	return 0, NewValidationError(fmt.Sprintf("unknown task status %q", tag))
}

func (s TaskStatus) String() string {
	if tag, ok := statusTags[s]; ok {
		return tag
	}
	return fmt.Sprintf("TaskStatus(%d)", uint8(s))
}

func (s TaskStatus) Valid() bool {
	_, ok := statusTags[s]
	return ok
}

func (s TaskStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid task status %d", uint8(s))
	}
	return []byte(statusTags[s]), nil
}

func (s *TaskStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
