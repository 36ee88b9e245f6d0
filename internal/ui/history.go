package ui

import "github.com/piwi3910/BoxStack/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the editable project state at a point in time.
type Snapshot struct {
	Parts     []model.Part
	Container model.Container
	Settings  model.PackSettings
	Label     string // Human-readable description (e.g. "Add Part")
}

// History manages undo/redo stacks of project snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo returns the most recent snapshot and parks current on the redo stack.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// UndoLabel names the action Undo would revert, or "" when there is none.
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

func copyParts(parts []model.Part) []model.Part {
	if parts == nil {
		return nil
	}
	cp := make([]model.Part, len(parts))
	copy(cp, parts)
	return cp
}

// MakeSnapshot creates a snapshot from the current project state with a label.
func MakeSnapshot(proj model.Project, label string) Snapshot {
	return Snapshot{
		Parts:     copyParts(proj.Parts),
		Container: proj.Container,
		Settings:  proj.Settings,
		Label:     label,
	}
}

// Restore writes the snapshot back into proj. Packing results no longer
// match the restored state, so they are dropped.
func (s Snapshot) Restore(proj *model.Project) {
	proj.Parts = copyParts(s.Parts)
	if proj.Parts == nil {
		proj.Parts = []model.Part{}
	}
	proj.Container = s.Container
	proj.Settings = s.Settings
	proj.Result = nil
}
