// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import "sync"

// state is the ordered, ID-unique set of handles a fleet believes are
// running. It never talks to the platform.
type state struct {
	mu      sync.RWMutex
	handles []ProcessHandle
	index   map[string]int // ID -> position in handles
}

func newState() *state {
	return &state{index: make(map[string]int)}
}

// add appends handle unless its ID is already tracked. Reports
// whether the handle was added.
func (s *state) add(handle ProcessHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[handle.ID]; exists {
		return false
	}
	s.index[handle.ID] = len(s.handles)
	s.handles = append(s.handles, handle)
	return true
}

// refresh replaces the stored metadata for an already-tracked ID.
// Unknown IDs are ignored.
func (s *state) refresh(handle ProcessHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position, exists := s.index[handle.ID]; exists {
		s.handles[position] = handle
	}
}

// remove drops the handle with the given ID and returns it. Reports
// false if the ID was not tracked.
func (s *state) remove(id string) (ProcessHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, exists := s.index[id]
	if !exists {
		return ProcessHandle{}, false
	}
	removed := s.handles[position]

	s.handles = append(s.handles[:position], s.handles[position+1:]...)
	delete(s.index, id)
	for i := position; i < len(s.handles); i++ {
		s.index[s.handles[i].ID] = i
	}
	return removed, true
}

func (s *state) contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.index[id]
	return exists
}

func (s *state) get(id string) (ProcessHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	position, exists := s.index[id]
	if !exists {
		return ProcessHandle{}, false
	}
	return s.handles[position], true
}

// snapshot returns a copy of the tracked handles in insertion order.
func (s *state) snapshot() []ProcessHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ProcessHandle(nil), s.handles...)
}

func (s *state) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handles)
}
