package content

import (
	"sync"

	"github.com/modpilot/modpilot/pkg/errors"
)

// ItemState is the per-item busy state. An operation request on an item
// that is not Idle is rejected, not queued.
type ItemState string

const (
	ItemIdle     ItemState = "idle"
	ItemToggling ItemState = "toggling"
	ItemDeleting ItemState = "deleting"
	ItemUpdating ItemState = "updating"
)

// busyTracker holds the per-item busy map and the cross-cutting flags
// that feed the "any task running" guard.
type busyTracker struct {
	mu          sync.Mutex
	states      map[string]ItemState
	batchActive bool
	checking    bool
	updatingAll bool
}

func newBusyTracker() *busyTracker {
	return &busyTracker{states: make(map[string]ItemState)}
}

// begin transitions an item from Idle into state. Items already busy are
// rejected with ErrItemBusy.
func (b *busyTracker) begin(filename string, state ItemState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if current, ok := b.states[filename]; ok && current != ItemIdle {
		return errors.Newf(errors.ErrItemBusy, "%s is already %s", filename, current)
	}
	b.states[filename] = state
	return nil
}

// end returns an item to Idle.
func (b *busyTracker) end(filename string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.states, filename)
}

// state returns an item's current busy state.
func (b *busyTracker) state(filename string) ItemState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if state, ok := b.states[filename]; ok {
		return state
	}
	return ItemIdle
}

func (b *busyTracker) setBatchActive(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batchActive = v
}

func (b *busyTracker) setChecking(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checking = v
}

func (b *busyTracker) setUpdatingAll(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updatingAll = v
}

// anyTaskRunning is the union of single-item busy states, batch activity,
// the bulk update check and "update all". Callers use it to disable
// cross-cutting actions while a mutation is in flight; it does not block
// unrelated single-item actions.
func (b *busyTracker) anyTaskRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.batchActive || b.checking || b.updatingAll {
		return true
	}
	for _, state := range b.states {
		if state != ItemIdle {
			return true
		}
	}
	return false
}
