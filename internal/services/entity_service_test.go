package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"fileupload/internal/blob"
	"fileupload/internal/config"
	"fileupload/internal/models"
	"fileupload/internal/requests"
	"fileupload/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testContent = config.ContentConfig{
	DefaultMaxSize: "1KB",
	DefaultAction:  "allow",
	Rules: []config.ContentRule{
		{Name: "executables", Allow: false, Patterns: []string{"*.exe"}},
		{Name: "images", Allow: true, MimeTypes: []string{"image/*"}, MaxSize: "16B"},
	},
}

func newFileService(t *testing.T) *EntityService[models.File, *models.File] {
	t.Helper()
	return NewEntityService[models.File](testutil.NewDB(t), EntityOptions{Name: "file", Content: testContent})
}

func newFileContentService(t *testing.T) *EntityService[models.FileContent, *models.FileContent] {
	t.Helper()
	return NewEntityService[models.FileContent](testutil.NewDB(t), EntityOptions{
		Name:           "fileContent",
		RequireContent: true,
		Content:        testContent,
	})
}

func TestCreate_AssignsIDAndStoresBlob(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, requests.EntityRequest{
		Name:               "notes",
		Content:            []byte("0123456789"),
		ContentContentType: "text/plain",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes", got.Name)
	assert.Equal(t, []byte("0123456789"), got.Content)
	assert.Equal(t, "text/plain", got.ContentContentType)
}

func TestCreate_WithoutBlob(t *testing.T) {
	svc := newFileService(t)

	created, err := svc.Create(context.Background(), requests.EntityRequest{Name: "empty"})
	require.NoError(t, err)
	assert.False(t, created.HasContent())
	assert.Empty(t, created.ContentContentType)
}

func TestCreate_RejectsExistingID(t *testing.T) {
	svc := newFileService(t)
	id := uuid.New()

	_, err := svc.Create(context.Background(), requests.EntityRequest{ID: &id, Name: "x"})
	assert.ErrorIs(t, err, ErrIDPresent)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreate_Validation(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  requests.EntityRequest
		want error
	}{
		{"blank name", requests.EntityRequest{Name: "  "}, ErrNameRequired},
		{"content without type", requests.EntityRequest{Name: "a", Content: []byte("x")}, ErrInvalidContent},
		{"type without content", requests.EntityRequest{Name: "a", ContentContentType: "text/plain"}, ErrInvalidContent},
		{"blocked pattern", requests.EntityRequest{Name: "setup.exe", Content: []byte("MZ"), ContentContentType: "application/octet-stream"}, ErrInvalidContent},
		{"image too large", requests.EntityRequest{Name: "a.png", Content: bytes.Repeat([]byte("x"), 17), ContentContentType: "image/png"}, ErrInvalidContent},
		{"default limit", requests.EntityRequest{Name: "a", Content: bytes.Repeat([]byte("x"), 1025), ContentContentType: "text/plain"}, ErrInvalidContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreate_UnpairedWrapsBlobError(t *testing.T) {
	svc := newFileService(t)

	_, err := svc.Create(context.Background(), requests.EntityRequest{Name: "a", Content: []byte("x")})
	assert.True(t, errors.Is(err, blob.ErrUnpaired))
}

func TestFileContent_RequiresContent(t *testing.T) {
	svc := newFileContentService(t)

	_, err := svc.Create(context.Background(), requests.EntityRequest{Name: "a"})
	assert.ErrorIs(t, err, ErrContentRequired)
}

func TestUpdate(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, requests.EntityRequest{
		Name:               "before",
		Content:            []byte{0},
		ContentContentType: "image/jpg",
	})
	require.NoError(t, err)

	id := created.ID
	updated, err := svc.Update(ctx, requests.EntityRequest{
		ID:                 &id,
		Name:               "after",
		Content:            []byte{1},
		ContentContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, []byte{1}, got.Content)
	assert.Equal(t, "image/png", got.ContentContentType)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestUpdate_ClearsBlob(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, requests.EntityRequest{Name: "a", Content: []byte("x"), ContentContentType: "text/plain"})
	require.NoError(t, err)

	id := created.ID
	_, err = svc.Update(ctx, requests.EntityRequest{ID: &id, Name: "a"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.HasContent())
	assert.Empty(t, got.ContentContentType)
}

func TestUpdate_Errors(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, requests.EntityRequest{Name: "a"})
	assert.ErrorIs(t, err, ErrIDMissing)

	id := uuid.New()
	_, err = svc.Update(ctx, requests.EntityRequest{ID: &id, Name: "a"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, requests.EntityRequest{Name: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestList_Empty(t *testing.T) {
	svc := newFileContentService(t)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCreateFromUpload(t *testing.T) {
	svc := newFileContentService(t)

	header := uploadHeader(t, "report.txt", "text/plain", []byte("0123456789"))
	created, err := svc.CreateFromUpload(context.Background(), header)
	require.NoError(t, err)
	assert.Equal(t, "report.txt", created.Name)
	assert.Equal(t, []byte("0123456789"), created.Content)
	assert.Equal(t, "text/plain", created.ContentContentType)
}

func TestCreateFromUpload_EmptyFileHasNoContent(t *testing.T) {
	svc := newFileContentService(t)

	header := uploadHeader(t, "empty.txt", "text/plain", nil)
	_, err := svc.CreateFromUpload(context.Background(), header)
	assert.ErrorIs(t, err, ErrContentRequired)
}

// uploadHeader round-trips a multipart body to obtain a real FileHeader
func uploadHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
