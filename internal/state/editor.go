package state

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownField is returned when an edit operation names a field the
// entity does not have.
var ErrUnknownField = errors.New("unknown field")

// ErrSaveInProgress is returned when SaveAll is invoked while a save is
// already running.
var ErrSaveInProgress = errors.New("save already in progress")

// StagedImage is an image file staged on a draft field. It is uploaded
// first, in its own multipart request, when the draft is saved.
type StagedImage struct {
	Field    string
	FileName string
	Data     []byte
}

// SaveFunc persists a whole draft: the staged image (may be nil) followed by
// the text fields. It returns the authoritative field values after the save.
type SaveFunc func(ctx context.Context, fields map[string]string, image *StagedImage) (map[string]string, error)

// DraftEditor implements the inline edit/revert/save pattern shared by the
// profile and event-detail pages: a confirmed copy (last known server
// value), a draft copy, and at most one field in edit mode at a time.
type DraftEditor struct {
	mu         sync.Mutex
	confirmed  map[string]string
	draft      map[string]string
	editing    string // "" = no field in edit mode
	hasChanges bool
	staged     *StagedImage
	saving     bool
}

// NewDraftEditor seeds both copies from the confirmed entity. The key set
// fixes which fields are editable.
func NewDraftEditor(confirmed map[string]string) *DraftEditor {
	return &DraftEditor{
		confirmed: copyFields(confirmed),
		draft:     copyFields(confirmed),
	}
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// StartEdit switches one field into edit mode, displacing whichever field
// was in edit mode before.
func (e *DraftEditor) StartEdit(field string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.draft[field]; !ok {
		return ErrUnknownField
	}
	e.editing = field
	return nil
}

// ChangeField updates the draft value of a field and marks the draft dirty.
func (e *DraftEditor) ChangeField(field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.draft[field]; !ok {
		return ErrUnknownField
	}
	e.draft[field] = value
	e.hasChanges = true
	return nil
}

// RevertField copies the confirmed value back into the draft for one field
// and leaves edit mode. A staged image on that field is dropped.
func (e *DraftEditor) RevertField(field string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.confirmed[field]; !ok {
		return ErrUnknownField
	}
	e.draft[field] = e.confirmed[field]
	if e.staged != nil && e.staged.Field == field {
		e.staged = nil
	}
	e.editing = ""
	return nil
}

// StageImage stages an image file on a field; the draft shows the preview
// value until the save uploads the real file.
func (e *DraftEditor) StageImage(img StagedImage, preview string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.draft[img.Field]; !ok {
		return ErrUnknownField
	}
	e.draft[img.Field] = preview
	e.staged = &img
	e.editing = img.Field
	e.hasChanges = true
	return nil
}

// DiscardAll resets the whole draft to the confirmed snapshot.
func (e *DraftEditor) DiscardAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = copyFields(e.confirmed)
	e.staged = nil
	e.editing = ""
	e.hasChanges = false
}

// SaveAll persists the whole draft through save. On success both copies
// become the server's authoritative response and the editor is clean; on
// failure nothing changes and the draft stays editable.
func (e *DraftEditor) SaveAll(ctx context.Context, save SaveFunc) error {
	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		return ErrSaveInProgress
	}
	e.saving = true
	fields := copyFields(e.draft)
	var staged *StagedImage
	if e.staged != nil {
		img := *e.staged
		staged = &img
	}
	e.mu.Unlock()

	result, err := save(ctx, fields, staged)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	if err != nil {
		return err
	}
	e.confirmed = copyFields(result)
	e.draft = copyFields(result)
	e.staged = nil
	e.editing = ""
	e.hasChanges = false
	return nil
}

// EditorView is a consistent snapshot for rendering.
type EditorView struct {
	Confirmed  map[string]string `json:"confirmed"`
	Draft      map[string]string `json:"draft"`
	Editing    string            `json:"editing"`
	HasChanges bool              `json:"has_changes"`
	HasStaged  bool              `json:"has_staged_image"`
}

// View snapshots the editor state.
func (e *DraftEditor) View() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EditorView{
		Confirmed:  copyFields(e.confirmed),
		Draft:      copyFields(e.draft),
		Editing:    e.editing,
		HasChanges: e.hasChanges,
		HasStaged:  e.staged != nil,
	}
}
