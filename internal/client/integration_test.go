package client_test

import (
	"context"
	"net"
	"strings"
	"testing"

	"fileupload/internal/blob"
	"fileupload/internal/client"
	"fileupload/internal/config"
	"fileupload/internal/entity"
	"fileupload/internal/routes"
	"fileupload/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *client.Client {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	routes.SetupRoutes(app, testutil.NewDB(t), config.FileuploadConfig{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return client.New("http://" + ln.Addr().String())
}

func TestRoundTripAgainstServer(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()
	res := c.Resource(entity.FileContent)

	items, err := res.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	payload := blob.Encode([]byte("0123456789"))
	created, err := res.Create(ctx, entity.Entity{Name: "AAAAAAAAAA", Content: payload, ContentContentType: "text/plain"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, payload, created.Content)

	created.Name = "BBBBBBBBBB"
	updated, err := res.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBB", updated.Name)

	content, err := res.Download(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(content.Data))
	assert.True(t, strings.HasPrefix(content.ContentType, "text/plain"))
	assert.True(t, strings.HasPrefix(content.Filename, "BBBBBBBBBB"))

	require.NoError(t, res.Delete(ctx, created.ID))
	_, err = res.Get(ctx, created.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestUploadAgainstServer(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	e, err := c.Resource(entity.File).Upload(ctx, "notes.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", e.Name)
	assert.Equal(t, blob.Encode([]byte("hello")), e.Content)
}
