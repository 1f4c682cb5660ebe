// Package blob converts local files into transmittable base64 payloads paired
// with a content type, and back into something a user can look at
//
// A payload and its content type always travel together: an Attachment is
// either empty or carries both
package blob

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnpaired is returned when only one of payload and content type is set
	ErrUnpaired = errors.New("content and content type must be set together")
	// ErrEmpty is returned when an operation needs a payload and there is none
	ErrEmpty = errors.New("no content attached")
)

const sniffLen = 512

// Attachment is a base64 payload with its content type
type Attachment struct {
	Content     string
	ContentType string
}

// IsZero reports whether nothing is attached
func (a Attachment) IsZero() bool {
	return a.Content == "" && a.ContentType == ""
}

// Validate checks the pairing of payload and content type
func (a Attachment) Validate() error {
	return CheckPair(a.Content, a.ContentType)
}

// Bytes decodes the payload
func (a Attachment) Bytes() ([]byte, error) {
	return Decode(a.Content)
}

// CheckPair returns ErrUnpaired when exactly one side is empty
func CheckPair(content, contentType string) error {
	if (content == "") != (contentType == "") {
		return ErrUnpaired
	}
	return nil
}

// Encode returns the standard base64 form of data
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode
func Decode(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return data, nil
}

// New builds an attachment from raw bytes. The declared type wins; without
// one the type is derived from the file name, then from the bytes themselves
func New(name, declaredType string, data []byte) Attachment {
	return Attachment{
		Content:     Encode(data),
		ContentType: DetectContentType(name, declaredType, data),
	}
}

// DetectContentType picks the content type for a file
func DetectContentType(name, declaredType string, head []byte) string {
	if declaredType = strings.TrimSpace(declaredType); declaredType != "" {
		return declaredType
	}
	if ext := filepath.Ext(name); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	return http.DetectContentType(head)
}

// Read consumes r completely and returns its attachment form
func Read(ctx context.Context, r io.Reader, name, declaredType string) (Attachment, error) {
	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, &ctxReader{ctx: ctx, r: r}); err != nil {
		return Attachment{}, fmt.Errorf("read %s: %w", name, err)
	}

	return New(name, declaredType, buf.Bytes()), nil
}

// ReadFile reads the file at path
func ReadFile(ctx context.Context, path, declaredType string) (Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(ctx, f, filepath.Base(path), declaredType)
}

// Result is delivered by ReadFileAsync
type Result struct {
	Attachment Attachment
	Err        error
}

// ReadFileAsync reads path in the background. The channel receives exactly
// one Result and is then closed
func ReadFileAsync(ctx context.Context, path, declaredType string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		a, err := ReadFile(ctx, path, declaredType)
		ch <- Result{Attachment: a, Err: err}
	}()
	return ch
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
