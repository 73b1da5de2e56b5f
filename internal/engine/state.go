package engine

import "sync"

type TaskState int

const (
	StatePending TaskState = iota
	StateRunning
	StateCompleted
	StateFailed
	StateSkipped
)

func (s TaskState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// State tracks the progress of one run
type State struct {
	mu    sync.RWMutex
	tasks map[string]TaskState
	order []string
	Total int
	Error error
}

func NewState(taskIDs []string) *State {
	s := &State{
		tasks: make(map[string]TaskState, len(taskIDs)),
		order: append([]string(nil), taskIDs...),
		Total: len(taskIDs),
	}
	for _, id := range taskIDs {
		s.tasks[id] = StatePending
	}
	return s
}

func (s *State) Start(id string) {
	s.set(id, StateRunning)
}

func (s *State) Complete(id string) {
	s.set(id, StateCompleted)
}

func (s *State) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = StateFailed
	if s.Error == nil {
		s.Error = err
	}
}

// SkipPending marks every task that never started as skipped
func (s *State) SkipPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range s.tasks {
		if st == StatePending {
			s.tasks[id] = StateSkipped
		}
	}
}

func (s *State) Get(id string) TaskState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks[id]
}

// Completed returns how many tasks have finished successfully
func (s *State) Completed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, st := range s.tasks {
		if st == StateCompleted {
			n++
		}
	}
	return n
}

type TaskStatus struct {
	ID    string
	State TaskState
}

// Snapshot returns the state of every task in execution order
func (s *State) Snapshot() []TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TaskStatus, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, TaskStatus{ID: id, State: s.tasks[id]})
	}
	return out
}

func (s *State) set(id string, st TaskState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = st
}
