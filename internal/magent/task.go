package magent

import "time"

// TaskState represents the lifecycle state of a delegated task.
type TaskState string

const (
	TaskStateSubmitted TaskState = "submitted"
	TaskStateWorking   TaskState = "working"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateCancelled TaskState = "cancelled"
)

// IsTerminal returns true if the task state is a final state.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCancelled:
		return true
	}
	return false
}

// TaskStatus tracks the current state of a task and a human-readable
// detail describing the latest transition or outcome.
type TaskStatus struct {
	State  TaskState `json:"state"`
	Detail string    `json:"detail,omitempty"`
}

// Task is the unit of delegated work tracked by the coordinator.
type Task struct {
	ID        string     `json:"id"`
	AgentName string     `json:"agent_name"`
	ContextID string     `json:"context_id,omitempty"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
