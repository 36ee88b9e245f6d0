package ui

import (
	"testing"

	"github.com/piwi3910/BoxStack/internal/model"
)

func projectWith(parts ...model.Part) model.Project {
	proj := model.NewProject()
	proj.Parts = parts
	return proj
}

func part(id string) model.Part {
	return model.Part{ID: id, Label: "Part " + id, Dims: model.Dimensions{Width: 1, Height: 2, Depth: 3}, Quantity: 1}
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
	if h.UndoLabel() != "" {
		t.Errorf("expected empty undo label, got %q", h.UndoLabel())
	}
}

func TestPushAndUndo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(projectWith(), "initial"))

	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}
	if h.UndoLabel() != "initial" {
		t.Errorf("expected undo label 'initial', got %q", h.UndoLabel())
	}

	current := MakeSnapshot(projectWith(part("p1")), "current")
	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Parts) != 0 {
		t.Errorf("expected 0 parts after undo, got %d", len(restored.Parts))
	}
	if restored.Label != "initial" {
		t.Errorf("expected label 'initial', got %q", restored.Label)
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(projectWith(), "empty"))
	h.Push(MakeSnapshot(projectWith(part("p1")), "one part"))

	current := MakeSnapshot(projectWith(part("p1"), part("p2")), "two parts")

	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("first undo should succeed")
	}
	if len(restored.Parts) != 1 {
		t.Errorf("expected 1 part, got %d", len(restored.Parts))
	}

	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Parts) != 2 {
		t.Errorf("expected 2 parts after redo, got %d", len(redone.Parts))
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(projectWith(), "empty"))

	if _, ok := h.Undo(MakeSnapshot(projectWith(part("p1")), "one part")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(projectWith(), "new action"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}
	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(projectWith(), ""))
	}
	if len(h.undoStack) != 3 {
		t.Errorf("expected undo stack length 3, got %d", len(h.undoStack))
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(projectWith(), "current")
	if _, ok := h.Undo(current); ok {
		t.Error("undo on empty history should return false")
	}
	if _, ok := h.Redo(current); ok {
		t.Error("redo on empty history should return false")
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(projectWith(), "a"))
	h.Push(MakeSnapshot(projectWith(), "b"))
	h.Undo(MakeSnapshot(projectWith(), "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	proj := projectWith(part("p1"))
	snap := MakeSnapshot(proj, "test")

	proj.Parts[0].Label = "Modified"
	proj.Container.Dims.Width = 99

	if snap.Parts[0].Label != "Part p1" {
		t.Error("snapshot parts should be independent of the project")
	}
	if snap.Container.Dims.Width == 99 {
		t.Error("snapshot container should be independent of the project")
	}
}

func TestSnapshotRestore(t *testing.T) {
	before := projectWith(part("p1"))
	before.Container = model.NewContainer("Crate", 4, 5, 6)
	before.Settings.GridStep = 0.25
	snap := MakeSnapshot(before, "edit")

	target := projectWith(part("p1"), part("p2"))
	target.Result = &model.PackResult{}
	snap.Restore(&target)

	if len(target.Parts) != 1 || target.Parts[0].ID != "p1" {
		t.Errorf("expected parts [p1], got %v", target.Parts)
	}
	if target.Container.Label != "Crate" {
		t.Errorf("expected container Crate, got %q", target.Container.Label)
	}
	if target.Settings.GridStep != 0.25 {
		t.Errorf("expected grid step 0.25, got %g", target.Settings.GridStep)
	}
	if target.Result != nil {
		t.Error("restore should drop stale results")
	}

	MakeSnapshot(model.Project{}, "nil").Restore(&target)
	if target.Parts == nil {
		t.Error("restore should never leave a nil parts slice")
	}
}
