package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanHTML_RemovesNonContent(t *testing.T) {
	in := `<html><head><script>alert(1)</script><style>p{}</style></head>
<body><p onclick="x()" class="big">Hello</p><iframe src="x"></iframe></body></html>`

	out, err := CleanHTML(in)
	if err != nil {
		t.Fatalf("CleanHTML: %v", err)
	}
	for _, banned := range []string{"<script", "<style", "<iframe", "onclick", "class="} {
		if strings.Contains(out, banned) {
			t.Errorf("output still contains %q:\n%s", banned, out)
		}
	}
	if !strings.Contains(out, "Hello") {
		t.Error("text content lost")
	}
}

func TestCleanHTML_KeepsLinkAndImageAttrs(t *testing.T) {
	in := `<body><a href="/x" title="t" data-track="1">link</a><img src="/i.png" alt="pic" width="10"></body>`

	out, err := CleanHTML(in)
	if err != nil {
		t.Fatalf("CleanHTML: %v", err)
	}
	for _, want := range []string{`href="/x"`, `title="t"`, `src="/i.png"`, `alt="pic"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, banned := range []string{"data-track", `width="10"`} {
		if strings.Contains(out, banned) {
			t.Errorf("output still contains %q:\n%s", banned, out)
		}
	}
}

func TestSaveMarkdown(t *testing.T) {
	dir := t.TempDir()
	in := `<html><body><h1>Title</h1><p>Body text with a <a href="/about">relative link</a>.</p></body></html>`

	if err := SaveMarkdown(in, "https://example.com/page", dir); err != nil {
		t.Fatalf("SaveMarkdown: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one extract file, got %v (%v)", entries, err)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read extract: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Title") || !strings.Contains(text, "Body text") {
		t.Errorf("markdown missing content:\n%s", text)
	}
	if !strings.Contains(text, "https://example.com/about") {
		t.Errorf("relative link not resolved:\n%s", text)
	}
	if !strings.HasSuffix(entries[0].Name(), ".md") {
		t.Errorf("extract not named .md: %s", entries[0].Name())
	}
}
