package model

// Task status values reported by the web API. completed, failed and
// cancelled are terminal.
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
	TaskStatusCancelled = "cancelled"
)

// TaskStatus represents one task as reported by the web API
type TaskStatus struct {
	TaskID    string                 `json:"task_id"`
	Status    string                 `json:"status"`
	Progress  float64                `json:"progress"`
	Message   string                 `json:"message"`
	Config    map[string]interface{} `json:"config,omitempty"`
	Result    map[string]interface{} `json:"result,omitempty"`
	CreatedAt string                 `json:"created_at,omitempty"`
	UpdatedAt string                 `json:"updated_at,omitempty"`
}

// IsTerminal reports whether the task can no longer change state.
func (t *TaskStatus) IsTerminal() bool {
	switch t.Status {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskListResponse represents the GET /tasks response
type TaskListResponse struct {
	Tasks []TaskStatus `json:"tasks"`
}

// UserTaskUpdate represents a PUT /tasks/:id request body
type UserTaskUpdate struct {
	Updates map[string]interface{} `json:"updates"`
}

// EvaluateResponse represents the POST /evaluate response
type EvaluateResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
