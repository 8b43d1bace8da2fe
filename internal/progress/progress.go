package progress

import "sync"

// State is a snapshot of a pipeline run, polled by the status endpoint of
// the surrounding web application.
type State struct {
	InProgress bool   `json:"in_progress"`
	Message    string `json:"message"`
	Percent    int    `json:"percent"`
	Completed  bool   `json:"completed"`
}

// Register is a single-writer/multi-reader progress register. The running
// pipeline publishes coarse milestones; any number of readers may take
// snapshots concurrently.
type Register struct {
	mu    sync.Mutex
	state State
}

// NewRegister builds an idle register.
func NewRegister() *Register {
	return &Register{}
}

// TryStart flips the register to in-progress. It returns false when a run
// is already active, which callers use to refuse concurrent launches.
func (r *Register) TryStart(message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.InProgress {
		return false
	}
	r.state = State{InProgress: true, Message: message}
	return true
}

// Progress publishes a milestone. Implements the pipeline's progress sink.
func (r *Register) Progress(message string, percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Message = message
	r.state.Percent = percent
}

// Complete marks the run finished successfully.
func (r *Register) Complete(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{Message: message, Percent: 100, Completed: true}
}

// Fail marks the run finished with an error message.
func (r *Register) Fail(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{Message: message, Percent: r.state.Percent}
}

// Snapshot returns a copy of the current state.
func (r *Register) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
