package shell

import (
	"context"
	"strings"
	"sync"
)

// Fake answers scripts from a table instead of spawning osascript.
// A script matches a response when it contains the response key.
type Fake struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     []string
}

type fakeResponse struct {
	match  string
	output string
	err    error
}

func NewFake() *Fake {
	return &Fake{}
}

// On registers the answer for scripts containing match. Later registrations
// take precedence.
func (f *Fake) On(match, output string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{match: match, output: output, err: err})
}

// Fail makes scripts containing match fail with the given stderr text.
func (f *Fake) Fail(match, stderr string) {
	f.On(match, "", &Error{Script: match, Stderr: stderr})
}

func (f *Fake) Run(_ context.Context, script string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, script)
	for i := len(f.responses) - 1; i >= 0; i-- {
		r := f.responses[i]
		if strings.Contains(script, r.match) {
			return r.output, r.err
		}
	}
	return "", nil
}

// Calls returns every script run so far.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Count returns how many scripts containing match were run.
func (f *Fake) Count(match string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, match) {
			n++
		}
	}
	return n
}
