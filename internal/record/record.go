// Package record builds the markdown task records dropped into the
// Needs_Action stage when a new file appears in the drop folder.
package record

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"steward/internal/textutil"
)

// TextualExtensions lists the file extensions whose contents are copied
// alongside the task record so downstream processing can read them even if
// the original is later moved.
var TextualExtensions = map[string]struct{}{
	".txt":  {},
	".md":   {},
	".csv":  {},
	".json": {},
	".xml":  {},
	".yaml": {},
	".yml":  {},
	".log":  {},
}

// IsTextual reports whether a file's extension marks it as text-based.
func IsTextual(path string) bool {
	_, ok := TextualExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Metadata carries everything needed to render a task record for one
// detected file.
type Metadata struct {
	// SourceName is the base name of the dropped file.
	SourceName string
	// SourcePath is the absolute path of the dropped file.
	SourcePath string
	// Size is the file size in bytes. Zero when metadata was unreadable.
	Size int64
	// Created and Modified come from the file's stat data. When stat
	// failed they fall back to the detection time.
	Created  time.Time
	Modified time.Time
	// Detected is when the watcher noticed the file.
	Detected time.Time
}

const timestampLayout = "20060102_150405"

// Filename returns the task record name for this metadata, unique per
// source name and detection second.
func (m Metadata) Filename() string {
	return fmt.Sprintf("FILE_DROP_%s_%s.md",
		textutil.EscapeName(m.SourceName),
		m.Detected.Format(timestampLayout))
}

// MirrorName returns the name used for the copied text file that accompanies
// the task record.
func (m Metadata) MirrorName() string {
	return fmt.Sprintf("%s_%s", m.SourceName, m.Detected.Format(timestampLayout))
}

// Render produces the full markdown record, front-matter plus task body.
func (m Metadata) Render() string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "type: file_drop\n")
	fmt.Fprintf(&b, "source_file: %s\n", m.SourceName)
	fmt.Fprintf(&b, "source_path: %s\n", m.SourcePath)
	fmt.Fprintf(&b, "file_size: %d\n", m.Size)
	fmt.Fprintf(&b, "created: %s\n", m.Created.Format(time.RFC3339))
	fmt.Fprintf(&b, "modified: %s\n", m.Modified.Format(time.RFC3339))
	fmt.Fprintf(&b, "detected: %s\n", m.Detected.Format(time.RFC3339))
	b.WriteString("status: pending\n")
	b.WriteString("priority: normal\n")
	b.WriteString("---\n\n")

	b.WriteString("# File Drop for Processing\n\n")
	b.WriteString("## Source Information\n")
	fmt.Fprintf(&b, "- **Original File**: `%s`\n", m.SourceName)
	fmt.Fprintf(&b, "- **Location**: `%s`\n", m.SourcePath)
	fmt.Fprintf(&b, "- **Size**: %d bytes\n", m.Size)
	fmt.Fprintf(&b, "- **Detected**: %s\n\n", m.Detected.Format("2006-01-02 15:04:05"))

	b.WriteString("## Suggested Actions\n")
	b.WriteString("- [ ] Read and analyze file contents\n")
	b.WriteString("- [ ] Categorize the file type and purpose\n")
	b.WriteString("- [ ] Determine required actions\n")
	b.WriteString("- [ ] Move to appropriate folder after processing\n\n")

	b.WriteString("## Notes\n\n")
	return b.String()
}
