package capture

import "testing"

func TestExtractMeta_DescriptionAndFavicon(t *testing.T) {
	html := `<html><head>
<meta name="description" content="A test page">
<link rel="icon" href="/static/fav.png">
</head><body></body></html>`

	meta := extractMeta(html, "https://example.com/sub/page")

	if meta.Description != "A test page" {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.Favicon != "https://example.com/static/fav.png" {
		t.Errorf("favicon = %q", meta.Favicon)
	}
}

func TestExtractMeta_OGDescriptionFallback(t *testing.T) {
	html := `<html><head>
<meta property="og:description" content="Social description">
</head></html>`

	meta := extractMeta(html, "https://example.com/")
	if meta.Description != "Social description" {
		t.Errorf("description = %q", meta.Description)
	}
}

func TestExtractMeta_DefaultFavicon(t *testing.T) {
	meta := extractMeta("<html><head></head></html>", "https://example.com/deep/path")
	if meta.Favicon != "https://example.com/favicon.ico" {
		t.Errorf("favicon = %q", meta.Favicon)
	}
}

func TestExtractMeta_AbsoluteFaviconKept(t *testing.T) {
	html := `<html><head><link rel="shortcut icon" href="https://cdn.example.net/fav.ico"></head></html>`
	meta := extractMeta(html, "https://example.com/")
	if meta.Favicon != "https://cdn.example.net/fav.ico" {
		t.Errorf("favicon = %q", meta.Favicon)
	}
}

func TestParseContentLength(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"12345", 12345},
		{"", 0},
		{"abc", 0},
		{"12a", 0},
	}
	for _, c := range cases {
		if got := parseContentLength(c.in); got != c.want {
			t.Errorf("parseContentLength(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
