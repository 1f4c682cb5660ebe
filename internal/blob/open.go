package blob

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// DataURI builds a data URI for the attachment on demand
func (a Attachment) DataURI() (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	if a.IsZero() {
		return "", ErrEmpty
	}
	return fmt.Sprintf("data:%s;base64,%s", a.ContentType, a.Content), nil
}

// WriteTemp writes data to a new temp file inside dir (the system temp dir
// when empty) named after name with an extension matching contentType
func WriteTemp(dir, name, contentType string, data []byte) (string, error) {
	pattern := "blob-*"
	if base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)); name != "" && base != "." && base != "/" {
		pattern = strings.ReplaceAll(base, "*", "_") + "-*"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		pattern += exts[0]
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return f.Name(), nil
}
