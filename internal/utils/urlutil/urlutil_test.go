package urlutil

import (
	"strings"
	"testing"
)

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://example.com/page", "https___example.com_page.png"},
		{"http://a.b/c?q=1&r=2", "http___a.b_c_q_1_r_2.png"},
	}
	for _, c := range cases {
		if got := SafeFilename(c.url, ".png"); got != c.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestSafeFilename_CapsLength(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("x", 300)
	got := SafeFilename(long, ".png")
	if len(got) != 100+len(".png") {
		t.Errorf("stem not capped: len=%d", len(got))
	}
}

func TestSafeFilename_NoPathSeparators(t *testing.T) {
	got := SafeFilename("https://example.com/../../etc/passwd", ".png")
	if strings.ContainsAny(got, "/\\") {
		t.Errorf("filename contains path separator: %q", got)
	}
}

func TestSafeFilename_Deterministic(t *testing.T) {
	a := SafeFilename("https://example.com/x", ".md")
	b := SafeFilename("https://example.com/x", ".md")
	if a != b {
		t.Errorf("not deterministic: %q vs %q", a, b)
	}
}

func TestResolveRef(t *testing.T) {
	cases := []struct {
		base, href, want string
	}{
		{"https://example.com/a/b", "/icon.png", "https://example.com/icon.png"},
		{"https://example.com/a/b", "icon.png", "https://example.com/a/icon.png"},
		{"https://example.com/a/b", "https://cdn.example.net/i.png", "https://cdn.example.net/i.png"},
		{"://bad", "x.png", "x.png"},
	}
	for _, c := range cases {
		if got := ResolveRef(c.base, c.href); got != c.want {
			t.Errorf("ResolveRef(%q, %q) = %q, want %q", c.base, c.href, got, c.want)
		}
	}
}
