// Package credential holds the login password used to answer the blocking
// tool's authorization prompt, both in memory while an activation runs and
// in the OS keyring between runs.
package credential

import "sync"

// State is the in-memory credential shared by the activation loop and the
// prompt watcher. The zero value is empty and disarmed.
type State struct {
	secret string
	mu     sync.Mutex
	armed  bool
}

// Arm stores secret and requests injection on the next prompt.
func (s *State) Arm(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.secret = secret
	s.armed = secret != ""
}

// Rearm requests injection on the next prompt using the stored secret. It
// reports whether a secret is available.
func (s *State) Rearm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.armed = s.secret != ""

	return s.armed
}

// Pending returns the secret if injection has been requested.
func (s *State) Pending() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed {
		return "", false
	}

	return s.secret, true
}

// Disarm keeps the secret but cancels the injection request.
func (s *State) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.armed = false
}

// Clear forgets the secret.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.secret = ""
	s.armed = false
}
