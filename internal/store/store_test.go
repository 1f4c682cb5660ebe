package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fileupload/internal/blob"
	"fileupload/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records calls and lets tests hold responses back
type fakeAPI struct {
	mu       sync.Mutex
	items    []entity.Entity
	created  []entity.Entity
	updated  []entity.Entity
	deleted  []string
	nextID   int
	gate     *gate
	err      error
}

type gate struct {
	entered chan struct{}
	release chan struct{}
}

// holdNext makes the next List or Get block until release is called. The
// entered channel is closed once that call is waiting
func (f *fakeAPI) holdNext() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	f.gate = g
	return g.entered, func() { close(g.release) }
}

func (f *fakeAPI) wait() {
	f.mu.Lock()
	g := f.gate
	f.gate = nil
	f.mu.Unlock()
	if g != nil {
		close(g.entered)
		<-g.release
	}
}

func (f *fakeAPI) List(ctx context.Context) ([]entity.Entity, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.Entity(nil), f.items...), nil
}

func (f *fakeAPI) Get(ctx context.Context, id string) (entity.Entity, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.items {
		if e.ID == id {
			return e, nil
		}
	}
	return entity.Entity{}, errors.New("not found")
}

func (f *fakeAPI) Create(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return entity.Entity{}, f.err
	}
	f.nextID++
	f.created = append(f.created, e)
	e.ID = string(rune('0' + f.nextID))
	f.items = append(f.items, e)
	return e, nil
}

func (f *fakeAPI) Update(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, e)
	return e, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func TestFetchAll_Empty(t *testing.T) {
	s := New(entity.File, &fakeAPI{}, nil)

	require.NoError(t, s.FetchAll(context.Background()))
	st := s.State()
	assert.NotNil(t, st.Entities)
	assert.Empty(t, st.Entities)
	assert.False(t, st.Loading)
}

func TestFetchAll_Error(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	s := New(entity.File, api, nil)

	err := s.FetchAll(context.Background())
	require.Error(t, err)
	st := s.State()
	assert.Equal(t, "boom", st.ErrorMessage)
	assert.False(t, st.Loading)
}

func TestFetchAll_StaleResponseDropped(t *testing.T) {
	api := &fakeAPI{items: []entity.Entity{{ID: "1", Name: "old"}}}
	s := New(entity.File, api, nil)
	ctx := context.Background()

	entered, release := api.holdNext()
	firstDone := make(chan error, 1)
	go func() { firstDone <- s.FetchAll(ctx) }()
	<-entered

	api.mu.Lock()
	api.items = []entity.Entity{{ID: "2", Name: "new"}}
	api.mu.Unlock()
	require.NoError(t, s.FetchAll(ctx))

	release()
	assert.ErrorIs(t, <-firstDone, ErrStale)

	st := s.State()
	require.Len(t, st.Entities, 1)
	assert.Equal(t, "new", st.Entities[0].Name)
}

func TestReset_InvalidatesInFlightFetch(t *testing.T) {
	api := &fakeAPI{items: []entity.Entity{{ID: "1", Name: "a"}}}
	s := New(entity.File, api, nil)

	entered, release := api.holdNext()
	done := make(chan error, 1)
	go func() { done <- s.Fetch(context.Background(), "1") }()
	<-entered
	assert.True(t, s.State().Loading)

	s.Reset()
	release()

	assert.ErrorIs(t, <-done, ErrStale)
	assert.True(t, s.State().Entity.IsNew())
}

func TestSave_BranchesOnID(t *testing.T) {
	api := &fakeAPI{}
	s := New(entity.File, api, nil)
	ctx := context.Background()

	created, err := s.Save(ctx, entity.Entity{Name: "a"})
	require.NoError(t, err)
	assert.Len(t, api.created, 1)
	assert.Empty(t, api.updated)
	assert.False(t, created.IsNew())

	created.Name = "b"
	_, err = s.Save(ctx, created)
	require.NoError(t, err)
	assert.Len(t, api.created, 1)
	assert.Len(t, api.updated, 1)

	st := s.State()
	assert.True(t, st.UpdateSuccess)
	assert.False(t, st.Updating)
	require.Len(t, st.Entities, 1)
	assert.Equal(t, "b", st.Entities[0].Name)
	assert.Equal(t, "b", st.Entity.Name)
}

func TestSave_FailureKeepsUpdateSuccessFalse(t *testing.T) {
	api := &fakeAPI{err: errors.New("unavailable")}
	s := New(entity.File, api, nil)

	_, err := s.Save(context.Background(), entity.Entity{Name: "a"})
	require.Error(t, err)
	st := s.State()
	assert.False(t, st.UpdateSuccess)
	assert.Equal(t, "unavailable", st.ErrorMessage)
}

func TestDelete_RemovesFromList(t *testing.T) {
	api := &fakeAPI{items: []entity.Entity{{ID: "1"}, {ID: "2"}}}
	s := New(entity.File, api, nil)
	ctx := context.Background()

	require.NoError(t, s.FetchAll(ctx))
	require.NoError(t, s.Delete(ctx, "1"))

	assert.Equal(t, []string{"1"}, api.deleted)
	st := s.State()
	require.Len(t, st.Entities, 1)
	assert.Equal(t, "2", st.Entities[0].ID)
}

func TestSetBlob_Paired(t *testing.T) {
	s := New(entity.File, &fakeAPI{}, nil)

	require.NoError(t, s.SetBlob("QQ==", "text/plain"))
	st := s.State()
	assert.Equal(t, "QQ==", st.Entity.Content)
	assert.Equal(t, "text/plain", st.Entity.ContentContentType)

	assert.ErrorIs(t, s.SetBlob("QQ==", ""), blob.ErrUnpaired)
	assert.ErrorIs(t, s.SetBlob("", "text/plain"), blob.ErrUnpaired)
	assert.Equal(t, "QQ==", s.State().Entity.Content, "rejected update must not change state")

	s.ClearBlob()
	st = s.State()
	assert.Empty(t, st.Entity.Content)
	assert.Empty(t, st.Entity.ContentContentType)

	require.NoError(t, s.SetBlob("Qg==", "text/csv"))
	assert.Equal(t, "text/csv", s.State().Entity.ContentContentType)
}

func TestSubscribe_ReceivesLatestState(t *testing.T) {
	s := New(entity.File, &fakeAPI{}, nil)
	ch, cancel := s.Subscribe()

	require.NoError(t, s.SetBlob("QQ==", "text/plain"))
	require.NoError(t, s.SetBlob("Qg==", "text/csv"))

	st := <-ch
	assert.Equal(t, "Qg==", st.Entity.Content)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestState_ReturnsCopy(t *testing.T) {
	api := &fakeAPI{items: []entity.Entity{{ID: "1", Name: "a"}}}
	s := New(entity.File, api, nil)
	require.NoError(t, s.FetchAll(context.Background()))

	st := s.State()
	st.Entities[0].Name = "mutated"
	assert.Equal(t, "a", s.State().Entities[0].Name)
}
