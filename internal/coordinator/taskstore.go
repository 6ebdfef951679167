package coordinator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dusk-indust/magent/internal/magent"
)

// ErrTaskNotFound is returned when no task with the given id exists.
var ErrTaskNotFound = errors.New("coordinator: task not found")

// ErrTaskTerminal is returned when a status update targets a task that has
// already reached a terminal state. Terminal states are write-once, so a
// delegation result arriving after a cancellation is refused rather than
// overwriting it.
var ErrTaskTerminal = errors.New("coordinator: task already in a terminal state")

// TaskStore is a concurrency-safe in-memory store for coordinator task
// tracking. Tasks are kept in a map keyed by id with a separate slice
// maintaining creation order for deterministic listing.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*magent.Task
	order []string
}

// NewTaskStore returns an initialized TaskStore ready for use.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*magent.Task),
	}
}

// Create stores a new task. It returns an error if a task with the same id
// already exists.
func (s *TaskStore) Create(task magent.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("coordinator: task %q already exists", task.ID)
	}
	s.tasks[task.ID] = &task
	s.order = append(s.order, task.ID)
	return nil
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id string) (magent.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return magent.Task{}, false
	}
	return *t, true
}

// List returns copies of all tasks in creation order.
func (s *TaskStore) List() []magent.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]magent.Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, *s.tasks[id])
	}
	return tasks
}

// UpdateStatus transitions the task to the given state with the given
// detail. It returns ErrTaskNotFound if the id is unknown and
// ErrTaskTerminal, mutating nothing, if the task is already terminal.
func (s *TaskStore) UpdateStatus(id string, state magent.TaskState, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if t.Status.State.IsTerminal() {
		return ErrTaskTerminal
	}
	t.Status = magent.TaskStatus{State: state, Detail: detail}
	return nil
}
