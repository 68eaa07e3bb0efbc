package capture

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yunxiaoshu/eyeurl/internal/utils/urlutil"
)

// pageMeta holds the optional metadata pulled from a rendered page.
type pageMeta struct {
	Description string
	Favicon     string
}

// extractMeta parses the rendered HTML for description and favicon. Relative
// favicon paths are resolved against the page URL. Parse failures return an
// empty struct; metadata extraction is never fatal.
func extractMeta(html, pageURL string) pageMeta {
	var meta pageMeta

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return meta
	}

	doc.Find("meta").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		name, _ := sel.Attr("name")
		property, _ := sel.Attr("property")
		if strings.EqualFold(name, "description") || strings.EqualFold(property, "og:description") {
			meta.Description, _ = sel.Attr("content")
			return false
		}
		return true
	})

	doc.Find(`link[rel~="icon"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if href, ok := sel.Attr("href"); ok && href != "" {
			meta.Favicon = urlutil.ResolveRef(pageURL, href)
			return false
		}
		return true
	})
	if meta.Favicon == "" {
		meta.Favicon = urlutil.ResolveRef(pageURL, "/favicon.ico")
	}

	return meta
}
