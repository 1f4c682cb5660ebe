package utils

import (
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// Common utilities used across the fileupload service

// GetFileExtension extracts and normalizes the file extension
func GetFileExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}

// CleanFileName normalizes an uploaded file name to its last path element.
// Browsers on Windows may send backslash separated paths
func CleanFileName(filename string) string {
	name := strings.ReplaceAll(filename, "\\", "/")
	name = path.Base(path.Clean("/" + name))
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// DownloadName appends an extension matching contentType when name has none
func DownloadName(name, contentType string) string {
	if name == "" {
		name = "content"
	}
	if GetFileExtension(name) != "" {
		return name
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return name + exts[0]
	}
	return name
}

// MatchesMimeType checks if a MIME type matches a pattern
func MatchesMimeType(actual, pattern string) bool {
	// Exact match
	if strings.EqualFold(actual, pattern) {
		return true
	}

	// Wildcard match (e.g., "text/*" matches "text/plain")
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return strings.HasPrefix(strings.ToLower(actual), strings.ToLower(prefix)+"/")
	}

	return false
}

// IsValidMimeType checks if a MIME type matches any of the expected patterns
func IsValidMimeType(actual string, expectedPatterns []string) bool {
	for _, pattern := range expectedPatterns {
		if MatchesMimeType(actual, pattern) {
			return true
		}
	}
	return false
}

var sizeUnits = []struct {
	suffix string
	factor float64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSizeString converts human-readable size strings such as "5MB" to bytes
func ParseSizeString(sizeStr string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(sizeStr))

	for _, unit := range sizeUnits {
		if !strings.HasSuffix(s, unit.suffix) {
			continue
		}
		num := strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
		size, err := strconv.ParseFloat(num, 64)
		if err != nil || size < 0 {
			return 0, fmt.Errorf("invalid size format: %s", sizeStr)
		}
		return int64(size * unit.factor), nil
	}

	// Try to parse as raw bytes
	if size, err := strconv.ParseInt(s, 10, 64); err == nil && size >= 0 {
		return size, nil
	}

	return 0, fmt.Errorf("invalid size format: %s", sizeStr)
}
