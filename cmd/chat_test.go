package cmd

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSnippetCollapsesWhitespace(t *testing.T) {
	got := snippet("line one\n\n  line   two\t", 160)
	if got != "line one line two" {
		t.Fatalf("snippet = %q", got)
	}
}

func TestSnippetTruncatesOnRuneBoundary(t *testing.T) {
	chunk := strings.Repeat("é", 200)
	got := snippet(chunk, 160)
	if !utf8.ValidString(got) {
		t.Fatalf("snippet produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("é", 160) + "…"; got != want {
		t.Fatalf("snippet = %q, want 160 runes plus ellipsis", got)
	}
}

func TestSnippetLeavesShortTextUntouched(t *testing.T) {
	if got := snippet("short passage", 160); got != "short passage" {
		t.Fatalf("snippet = %q", got)
	}
}
