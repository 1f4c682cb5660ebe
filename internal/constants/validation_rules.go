package constants

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"fileupload/internal/blob"
	"fileupload/internal/config"
	"fileupload/internal/utils"
)

// ValidationResult contains the result of blob validation
type ValidationResult struct {
	IsAllowed   bool
	MaxSize     int64
	RuleName    string
	Reason      string
	MatchedRule *config.ContentRule
}

// ValidationEngine decides whether a blob may be stored
type ValidationEngine struct {
	config config.ContentConfig
}

// NewValidationEngine creates a new validation engine
func NewValidationEngine(config config.ContentConfig) *ValidationEngine {
	return &ValidationEngine{
		config: config,
	}
}

// ValidateContent validates a blob based on the configured rules
func (e *ValidationEngine) ValidateContent(filename, mimeType string, size int64) *ValidationResult {
	for _, rule := range e.config.Rules {
		if e.matchesRule(filename, mimeType, rule) {
			return e.applyRule(rule, size)
		}
	}

	// No rule matched, apply default action
	return e.applyDefaultAction(mimeType, size)
}

// matchesRule checks if a blob matches a rule
func (e *ValidationEngine) matchesRule(filename, mimeType string, rule config.ContentRule) bool {
	if filename != "" {
		for _, pattern := range rule.Patterns {
			if e.matchesPattern(filepath.Base(filename), pattern) {
				return true
			}
		}
	}

	return utils.IsValidMimeType(mediaType(mimeType), rule.MimeTypes)
}

// matchesPattern checks if a filename matches a glob pattern
func (e *ValidationEngine) matchesPattern(filename, pattern string) bool {
	matched, err := regexp.MatchString(e.globToRegex(pattern), filename)
	if err != nil {
		return false
	}
	return matched
}

// globToRegex converts a glob pattern to a regex pattern
func (e *ValidationEngine) globToRegex(pattern string) string {
	pattern = regexp.QuoteMeta(pattern)

	pattern = strings.ReplaceAll(pattern, "\\*", ".*")
	pattern = strings.ReplaceAll(pattern, "\\?", ".")

	return "(?i)^" + pattern + "$"
}

// applyRule applies a validation rule to a blob
func (e *ValidationEngine) applyRule(rule config.ContentRule, size int64) *ValidationResult {
	result := &ValidationResult{
		IsAllowed:   rule.Allow,
		RuleName:    rule.Name,
		MatchedRule: &rule,
	}

	if !rule.Allow {
		result.Reason = fmt.Sprintf("Content blocked by rule '%s'", rule.Name)
		return result
	}

	if rule.MaxSize == "" {
		result.MaxSize = e.DefaultMaxSize()
		if result.MaxSize > 0 && size > result.MaxSize {
			result.IsAllowed = false
			result.Reason = fmt.Sprintf("Content size %s exceeds default limit %s",
				blob.FormatSize(size), blob.FormatSize(result.MaxSize))
		}
		return result
	}

	maxSize, err := utils.ParseSizeString(rule.MaxSize)
	if err != nil {
		result.IsAllowed = false
		result.Reason = fmt.Sprintf("Invalid size limit in rule '%s': %s", rule.Name, rule.MaxSize)
		return result
	}
	result.MaxSize = maxSize

	if size > maxSize {
		result.IsAllowed = false
		result.Reason = fmt.Sprintf("Content size %s exceeds limit %s set by rule '%s'",
			blob.FormatSize(size), rule.MaxSize, rule.Name)
	}

	return result
}

// applyDefaultAction applies the default action when no rules match
func (e *ValidationEngine) applyDefaultAction(mimeType string, size int64) *ValidationResult {
	result := &ValidationResult{
		IsAllowed: !e.config.IsDefaultActionBlock(),
		RuleName:  "Default Action",
		MaxSize:   e.DefaultMaxSize(),
	}

	if !result.IsAllowed {
		result.Reason = fmt.Sprintf("Content type %s not covered by any rules, default action is to block", mimeType)
		return result
	}

	if result.MaxSize > 0 && size > result.MaxSize {
		result.IsAllowed = false
		result.Reason = fmt.Sprintf("Content size %s exceeds default limit %s",
			blob.FormatSize(size), blob.FormatSize(result.MaxSize))
	}

	return result
}

// DefaultMaxSize returns the configured default limit, 0 meaning unlimited
func (e *ValidationEngine) DefaultMaxSize() int64 {
	if e.config.DefaultMaxSize == "" {
		return 0
	}
	size, err := utils.ParseSizeString(e.config.DefaultMaxSize)
	if err != nil {
		return 0
	}
	return size
}

// LargestLimit returns the highest size any allowing rule or the default
// accepts, 0 when some path is unlimited
func (e *ValidationEngine) LargestLimit() int64 {
	largest := e.DefaultMaxSize()
	if largest == 0 && !e.config.IsDefaultActionBlock() {
		return 0
	}

	for _, rule := range e.config.Rules {
		if !rule.Allow {
			continue
		}
		if rule.MaxSize == "" {
			if e.DefaultMaxSize() == 0 {
				return 0
			}
			continue
		}
		size, err := utils.ParseSizeString(rule.MaxSize)
		if err != nil {
			continue
		}
		largest = max(largest, size)
	}
	return largest
}

// mediaType drops parameters such as "; charset=utf-8"
func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}
