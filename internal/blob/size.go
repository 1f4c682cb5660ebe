package blob

import (
	"fmt"
	"math"
	"strings"
)

// Size returns the decoded length of a base64 payload without decoding it
func Size(payload string) int64 {
	n := int64(len(payload))
	if n == 0 {
		return 0
	}
	padding := int64(0)
	switch {
	case strings.HasSuffix(payload, "=="):
		padding = 2
	case strings.HasSuffix(payload, "="):
		padding = 1
	}
	return max(n/4*3-padding, 0)
}

// ByteSize formats the decoded size of a payload
func ByteSize(payload string) string {
	return FormatSize(Size(payload))
}

// Summary renders "type, size" for a non-empty attachment and "" otherwise
func (a Attachment) Summary() string {
	if a.Content == "" {
		return ""
	}
	return fmt.Sprintf("%s, %s", a.ContentType, ByteSize(a.Content))
}

// FormatSize formats bytes with 1024 thresholds. The unit is chosen after
// rounding, so a value never prints as 1024.0 of a smaller unit
func FormatSize(bytes int64) string {
	const unit = 1024
	const units = "KMGTPE"
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	v := float64(bytes) / unit
	exp := 0
	for math.Round(v*10)/10 >= unit && exp < len(units)-1 {
		v /= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", v, units[exp])
}
