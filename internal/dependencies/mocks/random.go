package mocks

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mcoot/scoreboard/internal/dependencies/random"
)

// MockRandom returns queued tokens, then falls back to a counter so that
// unqueued tokens are still unique within a test
type MockRandom struct {
	mu      sync.Mutex
	tokens  []string
	counter int
	fail    bool
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Token returns the next queued token, or "token-N"
func (r *MockRandom) Token() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail {
		return "", errors.New("mock random failure")
	}
	if len(r.tokens) > 0 {
		t := r.tokens[0]
		r.tokens = r.tokens[1:]
		return t, nil
	}
	r.counter++
	return fmt.Sprintf("token-%d", r.counter), nil
}

// QueueToken adds values to the token queue
func (r *MockRandom) QueueToken(values ...string) {
	r.mu.Lock()
	r.tokens = append(r.tokens, values...)
	r.mu.Unlock()
}

// SetFailing makes Token return an error while fail is true
func (r *MockRandom) SetFailing(fail bool) {
	r.mu.Lock()
	r.fail = fail
	r.mu.Unlock()
}

// Reset clears queued tokens and failure mode
func (r *MockRandom) Reset() {
	r.mu.Lock()
	r.tokens = nil
	r.counter = 0
	r.fail = false
	r.mu.Unlock()
}
