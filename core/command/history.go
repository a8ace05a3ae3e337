package command

import (
	"sync"
	"time"

	"github.com/dmitrymomot/cmdkit/core/fault"
)

// DefaultHistoryCapacity bounds the undo stack when no explicit capacity is
// configured.
const DefaultHistoryCapacity = 100

// historyEntry holds everything needed to undo or redo one successful
// execution. Entries are owned exclusively by the history stack.
type historyEntry struct {
	cmd        Undoable
	input      any
	meta       Metadata
	recordedAt time.Time
}

// HistorySummary is a diagnostic view of one history entry.
type HistorySummary struct {
	Command       string    `json:"command"`
	CommandID     string    `json:"command_id"`
	ActorID       string    `json:"actor_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// history is a bounded LIFO undo stack with a redo counterpart. All
// mutations are serialized under the mutex to prevent lost pushes and pops
// under concurrent undo/redo calls.
type history struct {
	mu       sync.Mutex
	capacity int
	undo     []*historyEntry
	redo     []*historyEntry
	evicted  int
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &history{capacity: capacity}
}

// record pushes a new entry and clears the redo stack. When capacity is
// exceeded the oldest entry is evicted and becomes permanently non-undoable.
func (h *history) record(e *historyEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undo = append(h.undo, e)
	if len(h.undo) > h.capacity {
		h.undo = h.undo[1:]
		h.evicted++
	}
	h.redo = nil
}

// clearRedo drops all pending redo entries. Every successful execution
// supersedes previously undone state, so the bus calls this even for
// commands that never enter the undo stack.
func (h *history) clearRedo() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.redo = nil
}

// popUndo removes and returns the most recent entry. An empty stack fails
// with history_exhausted when entries were evicted by capacity, and
// not_undoable when nothing undo-capable was ever recorded.
func (h *history) popUndo() (*historyEntry, *fault.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		if h.evicted > 0 {
			return nil, fault.BusinessRule(fault.CodeHistoryExhausted,
				"undo history exhausted: older entries were evicted")
		}
		return nil, fault.BusinessRule(fault.CodeNotUndoable, "nothing to undo")
	}

	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return e, nil
}

// pushUndo returns an entry to the undo stack (after a redo, or when an undo
// attempt failed and the state is unchanged).
func (h *history) pushUndo(e *historyEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = append(h.undo, e)
}

// popRedo removes and returns the most recently undone entry.
func (h *history) popRedo() (*historyEntry, *fault.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return nil, fault.BusinessRule(fault.CodeNotAvailable, "nothing to redo")
	}

	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return e, nil
}

// pushRedo stores an undone entry for later redo.
func (h *history) pushRedo(e *historyEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.redo = append(h.redo, e)
}

// snapshot returns summaries of the undo stack ordered oldest first.
func (h *history) snapshot() []HistorySummary {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistorySummary, len(h.undo))
	for i, e := range h.undo {
		out[i] = HistorySummary{
			Command:       e.cmd.Name(),
			CommandID:     e.meta.CommandID,
			ActorID:       e.meta.ActorID,
			CorrelationID: e.meta.CorrelationID,
			RecordedAt:    e.recordedAt,
		}
	}
	return out
}

func (h *history) lengths() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo)
}
