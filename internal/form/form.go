// Package form drives the create/update workflow of one entity kind
//
// A Form starts in StateNew (no id) or StateEditing (entity fetched), moves
// to StateSubmitting on Submit and ends in StateSucceeded, at which point the
// navigate callback receives the list route. Validation and remote failures
// leave the form where it was
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fileupload/internal/blob"
	"fileupload/internal/draft"
	"fileupload/internal/entity"
	"fileupload/internal/logging"
	"fileupload/internal/store"
)

type State int

const (
	StateNew State = iota
	StateEditing
	StateSubmitting
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrNotEditable is returned by Submit before a successful Open and
	// outside StateNew and StateEditing
	ErrNotEditable = errors.New("form is not editable")
	// ErrDiscarded is delivered by AttachFile when the form was reopened or
	// closed before the file was read
	ErrDiscarded = errors.New("attachment discarded")
)

// Form binds a draft to a store slice
type Form struct {
	slice    *store.Slice
	navigate func(route string)
	log      logging.Logger
	readFile func(ctx context.Context, path, declaredType string) <-chan blob.Result

	mu      sync.Mutex
	state   State
	session uint64
	// draft is nil until Open succeeds
	draft       *draft.Builder
	fieldErrors draft.FieldErrors
	err         error
}

// New creates a form over slice. navigate is called once a save succeeds
func New(slice *store.Slice, navigate func(route string), log logging.Logger) *Form {
	if navigate == nil {
		navigate = func(string) {}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Form{
		slice:    slice,
		navigate: navigate,
		log:      log.With("kind", slice.Kind().Name, "component", "form"),
		readFile: blob.ReadFileAsync,
	}
}

// Open prepares the form: an empty id starts a new draft, any other id loads
// that entity for editing. After a failed Open the form rejects Submit
func (f *Form) Open(ctx context.Context, id string) error {
	f.mu.Lock()
	f.session++
	session := f.session
	f.fieldErrors = nil
	f.err = nil
	f.draft = nil
	f.state = StateNew
	f.mu.Unlock()

	f.slice.Reset()
	kind := f.slice.Kind()

	if id == "" {
		f.mu.Lock()
		defer f.mu.Unlock()
		if session != f.session {
			return store.ErrStale
		}
		f.draft = draft.New(kind)
		return nil
	}

	err := f.slice.Fetch(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if session != f.session {
		return store.ErrStale
	}
	if err != nil {
		f.err = err
		return err
	}
	f.draft = draft.From(kind, f.slice.State().Entity)
	f.state = StateEditing
	return nil
}

// Close discards pending attachments
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session++
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// IsNew reports whether Submit will create rather than update
func (f *Form) IsNew() bool {
	return f.Draft().IsNew()
}

func (f *Form) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return
	}
	f.draft.SetName(name)
	delete(f.fieldErrors, draft.FieldName)
}

// FieldErrors returns the errors of the last rejected Submit
func (f *Form) FieldErrors() draft.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(draft.FieldErrors, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// Err returns the last non-validation failure, if any
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Draft returns the entity as it would be submitted
func (f *Form) Draft() entity.Entity {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return entity.Entity{}
	}
	return f.draft.Peek()
}

// AttachFile reads path in the background and stores it as the draft's blob
// once the read completes. The returned channel receives the outcome and is
// closed. A failed read leaves the current blob untouched
func (f *Form) AttachFile(ctx context.Context, path, declaredType string) <-chan error {
	f.mu.Lock()
	session := f.session
	f.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)

		res := <-f.readFile(ctx, path, declaredType)

		f.mu.Lock()
		defer f.mu.Unlock()
		if session != f.session {
			done <- ErrDiscarded
			return
		}
		if f.draft == nil {
			done <- ErrNotEditable
			return
		}
		if res.Err != nil {
			f.err = res.Err
			f.log.Warn(ctx, "file read failed", "path", path, "error", res.Err)
			done <- res.Err
			return
		}
		if err := f.draft.SetBlob(res.Attachment); err != nil {
			f.err = err
			done <- err
			return
		}
		e := f.draft.Peek()
		if err := f.slice.SetBlob(e.Content, e.ContentContentType); err != nil {
			f.err = err
			done <- err
			return
		}
		f.err = nil
		delete(f.fieldErrors, draft.FieldContent)
		done <- nil
	}()
	return done
}

// ClearBlob removes the draft's blob
func (f *Form) ClearBlob() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return
	}
	f.draft.ClearBlob()
	f.slice.ClearBlob()
}

// Submit validates the draft and creates or updates it
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.draft == nil || (f.state != StateNew && f.state != StateEditing) {
		f.mu.Unlock()
		return ErrNotEditable
	}
	session := f.session
	prev := f.state
	e, err := f.draft.Build()
	if err != nil {
		f.fieldErrors, _ = draft.AsFieldErrors(err)
		f.mu.Unlock()
		return err
	}
	f.state = StateSubmitting
	f.fieldErrors = nil
	f.err = nil
	f.mu.Unlock()

	_, err = f.slice.Save(ctx, e)

	f.mu.Lock()
	if session != f.session {
		f.mu.Unlock()
		return store.ErrStale
	}
	if err != nil {
		f.state = prev
		f.err = err
		f.mu.Unlock()
		return err
	}
	success := f.slice.State().UpdateSuccess
	if success {
		f.state = StateSucceeded
	} else {
		f.state = prev
	}
	f.mu.Unlock()

	if success {
		f.navigate(f.slice.Kind().Route())
	}
	return nil
}
