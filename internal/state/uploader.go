package state

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"sync"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/gateway"
)

// ErrUnknownDraft is returned when an operation targets a draft that is no
// longer in the batch.
var ErrUnknownDraft = errors.New("unknown draft")

// ErrUploadInProgress is returned when Submit is called while a previous
// submit is still running.
var ErrUploadInProgress = errors.New("upload already in progress")

// ErrEmptyBatch is returned when Submit is called with no drafts staged.
var ErrEmptyBatch = errors.New("no files staged for upload")

const previewSize = 300

// Tagger produces tags for an image. Tagging is best effort: a failure
// leaves the draft untagged, it never blocks the upload.
type Tagger interface {
	Tags(ctx context.Context, filename string, data []byte) ([]string, error)
}

// UploadAPI is the slice of the backend client the batch needs.
type UploadAPI interface {
	BulkCreatePhotos(ctx context.Context, eventID int, uploads []gateway.PhotoUpload) error
}

// Draft is one staged file awaiting submission. The caption and tags are
// editable until Submit; IsTagging reports whether the auto-tagger is still
// working on this file.
type Draft struct {
	ID            string   `json:"id"`
	FileName      string   `json:"fileName"`
	PhotoDesc     string   `json:"photoDesc"`
	ExtractedTags []string `json:"extractedTags"`
	IsTagging     bool     `json:"isTagging"`

	data    []byte
	preview []byte
}

// UploadBatch holds the drafts staged for one event's bulk upload. Files
// are added with AddFiles, which kicks off auto-tagging per file in the
// background; Submit sends the whole batch in a single request.
type UploadBatch struct {
	api     UploadAPI
	tagger  Tagger
	eventID int

	mu        sync.Mutex
	drafts    []*Draft
	uploading bool
	submitted bool

	tagWG sync.WaitGroup
}

// NewUploadBatch creates an empty batch for the given event.
func NewUploadBatch(api UploadAPI, tagger Tagger, eventID int) *UploadBatch {
	return &UploadBatch{api: api, tagger: tagger, eventID: eventID}
}

// EventID returns the event the batch uploads into.
func (b *UploadBatch) EventID() int { return b.eventID }

// FileUpload is one incoming file. The slice form keeps the order the files
// were picked in and lets duplicate names stage separate drafts.
type FileUpload struct {
	Name string
	Data []byte
}

// AddFiles stages the given files and starts auto-tagging each one. A draft
// starts with an empty caption and no tags; when its tagging call finishes
// the tags are filled in, or left empty if the call failed.
func (b *UploadBatch) AddFiles(files []FileUpload) []Draft {
	b.mu.Lock()
	added := make([]*Draft, 0, len(files))
	for _, f := range files {
		d := &Draft{
			ID:            uuid.New().String(),
			FileName:      f.Name,
			ExtractedTags: []string{},
			IsTagging:     b.tagger != nil,
			data:          f.Data,
		}
		b.drafts = append(b.drafts, d)
		added = append(added, d)
	}
	b.mu.Unlock()

	if b.tagger != nil {
		for _, d := range added {
			b.tagWG.Add(1)
			go b.tag(d.ID, d.FileName, d.data)
		}
	}

	out := make([]Draft, len(added))
	b.mu.Lock()
	for i, d := range added {
		out[i] = d.view()
	}
	b.mu.Unlock()
	return out
}

// tag runs one auto-tagging call and writes the result back into the draft,
// if it is still in the batch.
func (b *UploadBatch) tag(id, filename string, data []byte) {
	defer b.tagWG.Done()

	tags, err := b.tagger.Tags(context.Background(), filename, data)

	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.find(id)
	if d == nil {
		return
	}
	d.IsTagging = false
	if err != nil {
		return
	}
	d.ExtractedTags = tags
}

// WaitTagging blocks until every in-flight tagging call has finished.
func (b *UploadBatch) WaitTagging() { b.tagWG.Wait() }

// UpdateDraft edits a draft's caption and/or tags. Nil desc leaves the
// caption alone; nil tags leave the tags alone.
func (b *UploadBatch) UpdateDraft(id string, desc *string, tags []string) (Draft, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := b.find(id)
	if d == nil {
		return Draft{}, ErrUnknownDraft
	}
	if desc != nil {
		d.PhotoDesc = *desc
	}
	if tags != nil {
		d.ExtractedTags = tags
	}
	return d.view(), nil
}

// RemoveDraft drops a staged file from the batch.
func (b *UploadBatch) RemoveDraft(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, d := range b.drafts {
		if d.ID == id {
			b.drafts = append(b.drafts[:i], b.drafts[i+1:]...)
			return nil
		}
	}
	return ErrUnknownDraft
}

// Drafts returns a snapshot of the staged files.
func (b *UploadBatch) Drafts() []Draft {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Draft, len(b.drafts))
	for i, d := range b.drafts {
		out[i] = d.view()
	}
	return out
}

// Submitted reports whether the batch has been sent.
func (b *UploadBatch) Submitted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitted
}

// Preview returns a 300px JPEG thumbnail of the draft's image, generating
// and caching it on first use.
func (b *UploadBatch) Preview(id string) ([]byte, error) {
	b.mu.Lock()
	d := b.find(id)
	if d == nil {
		b.mu.Unlock()
		return nil, ErrUnknownDraft
	}
	if d.preview != nil {
		p := d.preview
		b.mu.Unlock()
		return p, nil
	}
	data := d.data
	b.mu.Unlock()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := resize.Thumbnail(previewSize, previewSize, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, nil); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if d := b.find(id); d != nil {
		d.preview = buf.Bytes()
	}
	return buf.Bytes(), nil
}

// Submit sends the whole batch as one request. Drafts whose tagging is
// still running go up with whatever tags they have so far. On success the
// batch is cleared; on failure the drafts stay staged so the user can
// retry.
func (b *UploadBatch) Submit(ctx context.Context) error {
	b.mu.Lock()
	if b.uploading {
		b.mu.Unlock()
		return ErrUploadInProgress
	}
	if len(b.drafts) == 0 {
		b.mu.Unlock()
		return ErrEmptyBatch
	}
	b.uploading = true
	uploads := make([]gateway.PhotoUpload, len(b.drafts))
	for i, d := range b.drafts {
		uploads[i] = gateway.PhotoUpload{
			FileName:      d.FileName,
			Data:          d.data,
			PhotoDesc:     d.PhotoDesc,
			ExtractedTags: copyTags(d.ExtractedTags),
		}
	}
	b.mu.Unlock()

	err := b.api.BulkCreatePhotos(ctx, b.eventID, uploads)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploading = false
	if err != nil {
		return err
	}
	b.drafts = nil
	b.submitted = true
	return nil
}

func (b *UploadBatch) find(id string) *Draft {
	for _, d := range b.drafts {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (d *Draft) view() Draft {
	return Draft{
		ID:            d.ID,
		FileName:      d.FileName,
		PhotoDesc:     d.PhotoDesc,
		ExtractedTags: copyTags(d.ExtractedTags),
		IsTagging:     d.IsTagging,
	}
}

// copyTags always returns a non-nil slice so JSON renders [] for untagged
// drafts.
func copyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
