package mocks

import (
	"github.com/mcoot/musikspil/internal/dependencies/random"
)

// MockRandom is a scripted Random for tests. Queued values are returned in
// order; once a queue is exhausted Intn returns 0 and String returns a string
// of the requested length made of the alphabet's first character.
type MockRandom struct {
	ints    []int
	strings []string

	// IntnCalls and StringCalls count invocations
	IntnCalls   int
	StringCalls int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued int, reduced modulo n
func (r *MockRandom) Intn(n int) int {
	r.IntnCalls++
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

// String returns the next queued string
func (r *MockRandom) String(length int, alphabet string) string {
	r.StringCalls++
	if len(r.strings) > 0 {
		v := r.strings[0]
		r.strings = r.strings[1:]
		return v
	}
	if length <= 0 || alphabet == "" {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[0]
	}
	return string(out)
}

// QueueIntn adds values to the Intn queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.ints = append(r.ints, values...)
}

// QueueString adds values to the String queue
func (r *MockRandom) QueueString(values ...string) {
	r.strings = append(r.strings, values...)
}
