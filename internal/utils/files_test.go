package utils

import (
	"strings"
	"testing"
)

func TestPrettyJSONIndents(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"documents": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"documents\": 3") {
		t.Fatalf("unexpected output: %s", b)
	}
}

func TestFormatBytesUsesBinaryUnits(t *testing.T) {
	if got := FormatBytes(52_428_800); got != "50MiB" {
		t.Fatalf("FormatBytes(52428800) = %q, want 50MiB", got)
	}
}

func TestDetectContentTypePrefersExtension(t *testing.T) {
	if got := DetectContentType("paper.pdf", nil); got != "application/pdf" {
		t.Fatalf("content type = %q, want application/pdf", got)
	}
	if got := DetectContentType("noext", []byte("%PDF-1.4 data here")); got != "application/pdf" {
		t.Fatalf("sniffed content type = %q, want application/pdf", got)
	}
}
