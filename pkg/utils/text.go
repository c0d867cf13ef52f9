package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanLabel trims and NFC-normalizes user text so titles typed on different keyboards compare equal.
func CleanLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
