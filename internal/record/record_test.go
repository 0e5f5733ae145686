package record

import (
	"strings"
	"testing"
	"time"
)

func sampleMetadata() Metadata {
	detected := time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
	return Metadata{
		SourceName: "invoice march.pdf",
		SourcePath: "/vault/Inbox/invoice march.pdf",
		Size:       2048,
		Created:    detected.Add(-time.Hour),
		Modified:   detected.Add(-time.Minute),
		Detected:   detected,
	}
}

func TestFilename(t *testing.T) {
	got := sampleMetadata().Filename()
	want := "FILE_DROP_invoice_march_pdf_20260314_092653.md"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestMirrorName(t *testing.T) {
	got := sampleMetadata().MirrorName()
	want := "invoice march.pdf_20260314_092653"
	if got != want {
		t.Errorf("MirrorName() = %q, want %q", got, want)
	}
}

func TestRenderFrontMatter(t *testing.T) {
	content := sampleMetadata().Render()

	if !strings.HasPrefix(content, "---\n") {
		t.Error("record should open with front-matter delimiter")
	}
	for _, want := range []string{
		"type: file_drop\n",
		"source_file: invoice march.pdf\n",
		"source_path: /vault/Inbox/invoice march.pdf\n",
		"file_size: 2048\n",
		"status: pending\n",
		"priority: normal\n",
		"# File Drop for Processing",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("record missing %q", want)
		}
	}
}

func TestIsTextual(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"notes.txt", true},
		{"data.JSON", true},
		{"deploy.yaml", true},
		{"photo.png", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := IsTextual(tc.path); got != tc.want {
			t.Errorf("IsTextual(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
