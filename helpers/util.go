package helpers

import (
	"strings"
)

// LastSplitPart returns the last non-empty segment of target split on
// separate, or target itself when there is none.
func LastSplitPart(target string, separate string) string {
	parts := strings.Split(target, separate)
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return target
}
