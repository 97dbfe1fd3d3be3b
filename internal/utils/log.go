package utils

import (
	"fmt"
	"strings"
)

// TruncateForLog renders s on a single line and cuts it to limit runes,
// noting how many runes were dropped.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	runes := []rune(strings.Join(strings.Fields(s), " "))
	if len(runes) <= limit {
		return string(runes)
	}

	return fmt.Sprintf("%s... (+%d chars)", string(runes[:limit]), len(runes)-limit)
}
