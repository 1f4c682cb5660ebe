package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"fileupload/internal/entity"
)

// Resource is the REST collection of one entity kind
type Resource struct {
	c    *Client
	kind entity.Kind
}

// Resource returns the collection for kind
func (c *Client) Resource(kind entity.Kind) *Resource {
	return &Resource{c: c, kind: kind}
}

// Kind returns the entity kind served by r
func (r *Resource) Kind() entity.Kind {
	return r.kind
}

func (r *Resource) itemPath(id string) string {
	return r.kind.APIPath + "/" + url.PathEscape(id)
}

func (r *Resource) List(ctx context.Context) ([]entity.Entity, error) {
	items := make([]entity.Entity, 0)
	if err := r.c.doJSON(ctx, http.MethodGet, r.kind.APIPath, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]entity.Entity, 0)
	}
	return items, nil
}

func (r *Resource) Get(ctx context.Context, id string) (entity.Entity, error) {
	var e entity.Entity
	err := r.c.doJSON(ctx, http.MethodGet, r.itemPath(id), nil, &e)
	return e, err
}

// Create posts a new entity and returns it with its assigned id
func (r *Resource) Create(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	var out entity.Entity
	err := r.c.doJSON(ctx, http.MethodPost, r.kind.APIPath, e, &out)
	return out, err
}

// Update replaces an existing entity; e.ID must be set
func (r *Resource) Update(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	if e.IsNew() {
		return entity.Entity{}, fmt.Errorf("update %s: missing id", r.kind.Name)
	}
	var out entity.Entity
	err := r.c.doJSON(ctx, http.MethodPut, r.kind.APIPath, e, &out)
	return out, err
}

func (r *Resource) Delete(ctx context.Context, id string) error {
	return r.c.doJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

// Upload creates an entity from a file as a multipart "file" part
func (r *Resource) Upload(ctx context.Context, filename, contentType string, src io.Reader) (entity.Entity, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return entity.Entity{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return entity.Entity{}, fmt.Errorf("read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return entity.Entity{}, fmt.Errorf("build upload: %w", err)
	}

	req, err := r.c.newRequest(ctx, http.MethodPost, r.kind.APIPath, &body, w.FormDataContentType())
	if err != nil {
		return entity.Entity{}, err
	}

	var out entity.Entity
	err = r.c.do(req, &out)
	return out, err
}

// Content is a blob fetched in its raw form
type Content struct {
	Data        []byte
	ContentType string
	// Filename comes from Content-Disposition and may be empty
	Filename string
}

// Download fetches the raw blob of an entity
func (r *Resource) Download(ctx context.Context, id string) (Content, error) {
	req, err := r.c.newRequest(ctx, http.MethodGet, r.itemPath(id)+"/content", nil, "")
	if err != nil {
		return Content{}, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := r.c.http.Do(req)
	if err != nil {
		return Content{}, fmt.Errorf("download %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Content{}, readAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Content{}, fmt.Errorf("download %s: %w", id, err)
	}

	out := Content{Data: data, ContentType: resp.Header.Get("Content-Type")}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		out.Filename = params["filename"]
	}
	return out, nil
}
