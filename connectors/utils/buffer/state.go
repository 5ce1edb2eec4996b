package buffer

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// State is a checkpoint from the source. A nil Stream marks a global state.
type State struct {
	Stream *StreamID      `json:"stream,omitempty"`
	Data   map[string]any `json:"data"`
}

type stateKey struct {
	stream StreamID
	global bool
}

func (s *State) key() stateKey {
	if s.Stream == nil {
		return stateKey{global: true}
	}
	return stateKey{stream: *s.Stream}
}

// stateManager keeps the latest state per stream (or the latest global one), first in
// pending and then in committed once the records before it are durable.
type stateManager struct {
	pending   *orderedmap.OrderedMap[stateKey, *State]
	committed *orderedmap.OrderedMap[stateKey, *State]
}

func newStateManager() *stateManager {
	return &stateManager{
		pending:   orderedmap.New[stateKey, *State](),
		committed: orderedmap.New[stateKey, *State](),
	}
}

func (m *stateManager) addState(state *State) {
	m.pending.Set(state.key(), state)
}

func (m *stateManager) markPendingAsCommitted() {
	for pair := m.pending.Oldest(); pair != nil; pair = pair.Next() {
		m.committed.Set(pair.Key, pair.Value)
	}
	m.pending = orderedmap.New[stateKey, *State]()
}

func (m *stateManager) listCommitted() []*State {
	states := make([]*State, 0, m.committed.Len())
	for pair := m.committed.Oldest(); pair != nil; pair = pair.Next() {
		states = append(states, pair.Value)
	}
	return states
}

func (m *stateManager) clearCommitted() {
	m.committed = orderedmap.New[stateKey, *State]()
}
