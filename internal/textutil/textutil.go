package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nameReplacer maps characters that are unsafe or ambiguous in record
// filenames to underscores. Spaces and dots are folded so a source name can
// be embedded between fixed prefix and timestamp segments.
var nameReplacer = strings.NewReplacer(
	" ", "_",
	".", "_",
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// EscapeName converts a source filename into a filesystem-safe token for use
// inside record filenames. Case is preserved. Returns "unnamed" for empty
// input so callers always get a usable segment.
func EscapeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed"
	}
	escaped := strings.Trim(nameReplacer.Replace(name), "_")
	if escaped == "" {
		return "unnamed"
	}
	return escaped
}

var titleCaser = cases.Title(language.English)

// DisplayLabel converts a snake_case event or action type into a
// human-readable label, e.g. "pending_tasks_detected" becomes
// "Pending Tasks Detected".
func DisplayLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(value, "_", " "))
}
