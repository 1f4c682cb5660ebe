// Package store keeps the client-side state of one entity kind
//
// A Slice is the only place that state changes. Every remote call is tagged
// with a generation number; a response that arrives after a newer call of the
// same kind, or after Reset, is dropped and reported as ErrStale
package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"fileupload/internal/blob"
	"fileupload/internal/entity"
	"fileupload/internal/logging"
)

// ErrStale is returned when a response was superseded before it arrived
var ErrStale = errors.New("response superseded")

// API is the remote collection backing a Slice
type API interface {
	List(ctx context.Context) ([]entity.Entity, error)
	Get(ctx context.Context, id string) (entity.Entity, error)
	Create(ctx context.Context, e entity.Entity) (entity.Entity, error)
	Update(ctx context.Context, e entity.Entity) (entity.Entity, error)
	Delete(ctx context.Context, id string) error
}

// State is a snapshot of a Slice
type State struct {
	Entities      []entity.Entity
	Entity        entity.Entity
	Loading       bool
	Updating      bool
	UpdateSuccess bool
	ErrorMessage  string
}

type generation uint64

// Slice holds the state of one entity kind
type Slice struct {
	kind entity.Kind
	api  API
	log  logging.Logger

	mu        sync.Mutex
	state     State
	listGen   generation
	entityGen generation
	updateGen generation
	subs      map[int]chan State
	nextSub   int
}

// New creates an empty slice backed by api
func New(kind entity.Kind, api API, log logging.Logger) *Slice {
	if log == nil {
		log = logging.Discard()
	}
	return &Slice{
		kind:  kind,
		api:   api,
		log:   log.With("kind", kind.Name),
		state: State{Entities: []entity.Entity{}},
		subs:  make(map[int]chan State),
	}
}

// Kind returns the entity kind held by s
func (s *Slice) Kind() entity.Kind {
	return s.kind
}

// State returns a copy of the current state
func (s *Slice) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe returns a channel that receives the latest state after every
// change. Slow readers only see the most recent snapshot. The returned func
// cancels the subscription and closes the channel
func (s *Slice) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// FetchAll loads every entity of the kind
func (s *Slice) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.listGen++
	gen := s.listGen
	s.state.Loading = true
	s.state.ErrorMessage = ""
	s.publish()
	s.mu.Unlock()

	items, err := s.api.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen {
		s.log.Debug(ctx, "dropping stale list response", "generation", gen)
		return ErrStale
	}
	s.state.Loading = false
	if err != nil {
		s.fail(ctx, "fetch list", err)
		return err
	}
	if items == nil {
		items = []entity.Entity{}
	}
	s.state.Entities = items
	s.publish()
	return nil
}

// Fetch loads a single entity into State.Entity
func (s *Slice) Fetch(ctx context.Context, id string) error {
	s.mu.Lock()
	s.entityGen++
	gen := s.entityGen
	s.state.Loading = true
	s.state.ErrorMessage = ""
	s.publish()
	s.mu.Unlock()

	e, err := s.api.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.entityGen {
		s.log.Debug(ctx, "dropping stale entity response", "id", id, "generation", gen)
		return ErrStale
	}
	s.state.Loading = false
	if err != nil {
		s.fail(ctx, "fetch entity", err)
		return err
	}
	s.state.Entity = e
	s.publish()
	return nil
}

// Save creates e when it has no id and updates it otherwise
func (s *Slice) Save(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	if e.IsNew() {
		return s.Create(ctx, e)
	}
	return s.Update(ctx, e)
}

// Create persists a new entity
func (s *Slice) Create(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	return s.write(ctx, "create", e, s.api.Create)
}

// Update persists changes to an existing entity
func (s *Slice) Update(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	return s.write(ctx, "update", e, s.api.Update)
}

func (s *Slice) write(ctx context.Context, op string, e entity.Entity, call func(context.Context, entity.Entity) (entity.Entity, error)) (entity.Entity, error) {
	s.mu.Lock()
	s.updateGen++
	gen := s.updateGen
	s.state.Updating = true
	s.state.UpdateSuccess = false
	s.state.ErrorMessage = ""
	s.publish()
	s.mu.Unlock()

	saved, err := call(ctx, e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.updateGen {
		s.log.Debug(ctx, "dropping stale "+op+" response", "generation", gen)
		return saved, ErrStale
	}
	s.state.Updating = false
	if err != nil {
		s.fail(ctx, op, err)
		return entity.Entity{}, err
	}

	s.state.Entity = saved
	s.state.UpdateSuccess = true
	s.upsert(saved)
	s.publish()
	s.log.Info(ctx, "entity saved", "op", op, "id", saved.ID)
	return saved, nil
}

// Delete removes an entity remotely and from the list
func (s *Slice) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.updateGen++
	gen := s.updateGen
	s.state.Updating = true
	s.state.UpdateSuccess = false
	s.state.ErrorMessage = ""
	s.publish()
	s.mu.Unlock()

	err := s.api.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.updateGen {
		return ErrStale
	}
	s.state.Updating = false
	if err != nil {
		s.fail(ctx, "delete", err)
		return err
	}

	s.state.Entities = slices.DeleteFunc(s.state.Entities, func(e entity.Entity) bool { return e.ID == id })
	if s.state.Entity.ID == id {
		s.state.Entity = entity.Entity{}
	}
	s.state.UpdateSuccess = true
	s.publish()
	s.log.Info(ctx, "entity deleted", "id", id)
	return nil
}

// SetBlob replaces the blob of State.Entity. Empty content and type clear it
func (s *Slice) SetBlob(content, contentType string) error {
	if err := blob.CheckPair(content, contentType); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Entity.Content = content
	s.state.Entity.ContentContentType = contentType
	s.publish()
	return nil
}

// ClearBlob removes the blob of State.Entity
func (s *Slice) ClearBlob() {
	_ = s.SetBlob("", "")
}

// Reset empties State.Entity and invalidates every request in flight
func (s *Slice) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listGen++
	s.entityGen++
	s.updateGen++
	entities := s.state.Entities
	s.state = State{Entities: entities}
	s.publish()
}

func (s *Slice) fail(ctx context.Context, op string, err error) {
	s.state.ErrorMessage = err.Error()
	s.log.Warn(ctx, op+" failed", "error", err)
	s.publish()
}

func (s *Slice) upsert(e entity.Entity) {
	for i := range s.state.Entities {
		if s.state.Entities[i].ID == e.ID {
			s.state.Entities[i] = e
			return
		}
	}
	s.state.Entities = append(s.state.Entities, e)
}

// snapshot must be called with mu held
func (s *Slice) snapshot() State {
	st := s.state
	st.Entities = slices.Clone(s.state.Entities)
	if st.Entities == nil {
		st.Entities = []entity.Entity{}
	}
	return st
}

// publish must be called with mu held
func (s *Slice) publish() {
	if len(s.subs) == 0 {
		return
	}
	st := s.snapshot()
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}
