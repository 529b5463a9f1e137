package task

import "time"

const NavigationTaskType = "NavigationTask"

// NavigationTask records one resolved navigation for route analytics.
type NavigationTask struct {
	Session        string    `json:"session"`
	Path           string    `json:"path"`
	PreviousPath   string    `json:"previous_path,omitempty"`
	View           string    `json:"view"`            // Kind of view the path dispatched to
	CollectionName string    `json:"collection_name"` // Empty for non-collection views
	Embedded       bool      `json:"embedded"`
	VisitedAt      time.Time `json:"visited_at"`
}

func (t *NavigationTask) TaskType() string {
	return NavigationTaskType
}

func (t *NavigationTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
