package output

import (
	"fmt"
	"os"
	"path/filepath"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/yunxiaoshu/eyeurl/internal/utils/urlutil"
)

// SaveMarkdown converts the rendered HTML of pageURL to GitHub-flavored
// markdown and writes it into dir, named after the page.
func SaveMarkdown(htmlContent, pageURL, dir string) error {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	// Rewrite links to absolute so the extract is readable out of context.
	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			str := fmt.Sprintf("[%s](%s)", selec.Text(), urlutil.ResolveRef(pageURL, href))
			return &str
		},
	})

	cleaned, err := CleanHTML(htmlContent)
	if err != nil {
		return fmt.Errorf("clean html: %w", err)
	}

	text, err := converter.ConvertString(cleaned)
	if err != nil {
		return fmt.Errorf("convert to markdown: %w", err)
	}

	path := filepath.Join(dir, urlutil.SafeFilename(pageURL, ".md"))
	return os.WriteFile(path, []byte(text), 0o644)
}
