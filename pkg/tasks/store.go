package tasks

import "sync"

// Priority levels accepted for a task.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Filter names accepted by List.
const (
	FilterAll     = "all"
	FilterToday   = "today"
	FilterPending = "pending"
	FilterDone    = "done"
)

// Task is one todo item. Tasks are created by Add, completed by Complete,
// and never deleted; IDs are unique and strictly increasing from 1.
type Task struct {
	ID          int    `json:"id"`
	Description string `json:"task"`
	Priority    string `json:"priority"` // high, medium, low
	Due         string `json:"due"`      // free-form label, e.g. "today"
	Done        bool   `json:"done"`
}

// Store owns the shared task list. It is the only mutable state shared
// between concurrent chat requests; one mutex covers id allocation and
// list mutation so IDs stay unique and monotonic under concurrency.
type Store struct {
	mu     sync.Mutex
	tasks  []Task
	nextID int
}

// NewStore returns a store seeded with the three starter tasks (ids 1-3);
// the next assigned id is 4.
func NewStore() *Store {
	return &Store{
		tasks: []Task{
			{ID: 1, Description: "Review quarterly report", Priority: PriorityHigh, Due: "today"},
			{ID: 2, Description: "Team standup meeting", Priority: PriorityMedium, Due: "today"},
			{ID: 3, Description: "Update project documentation", Priority: PriorityLow, Due: "tomorrow"},
		},
		nextID: 4,
	}
}

// Add appends a new pending task and returns its assigned id.
func (s *Store) Add(description, priority, due string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.tasks = append(s.tasks, Task{
		ID:          id,
		Description: description,
		Priority:    priority,
		Due:         due,
	})
	return id
}

// Complete marks the task with the given id as done. It reports false when
// no task has that id; that is a normal outcome, not an error. Completing
// an already-done task is a no-op.
func (s *Store) Complete(id int) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Done = true
			return s.tasks[i], true
		}
	}
	return Task{}, false
}

// List returns a snapshot of the tasks matching the filter, in insertion
// order. Unknown filters behave like "all", mirroring the assistant's
// permissive argument handling.
func (s *Store) List(filter string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if matches(t, filter) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t Task, filter string) bool {
	switch filter {
	case FilterToday:
		return t.Due == "today"
	case FilterPending:
		return !t.Done
	case FilterDone:
		return t.Done
	case PriorityHigh, PriorityMedium, PriorityLow:
		return t.Priority == filter
	default:
		return true
	}
}
