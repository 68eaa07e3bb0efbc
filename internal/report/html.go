package report

import (
	"html/template"
	"os"
	"path/filepath"

	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>URL Capture Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
.summary { margin-bottom: 1.5em; color: #555; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; vertical-align: top; }
th { background: #f4f4f4; }
tr.failed { background: #fff3f3; }
img.thumb { max-width: 320px; max-height: 200px; border: 1px solid #ccc; }
.error { color: #b00020; }
.warning { color: #8a6d00; }
.meta { color: #777; font-size: 0.85em; }
</style>
</head>
<body>
<h1>URL Capture Report</h1>
<p class="summary">
{{.Info.TotalURLs}} URLs, {{.Info.TotalSuccess}} captured, {{.Info.TotalFailed}} failed.
Total time {{printf "%.1f" .Info.BatchTime.TotalTimeSeconds}}s,
average {{printf "%.1f" .Info.BatchTime.AverageURLTime}}s per URL,
parallel efficiency {{printf "%.0f" .Info.BatchTime.ParallelEfficiency}}%.
</p>
<table>
<tr><th>URL</th><th>Status</th><th>Screenshot</th><th>Details</th></tr>
{{range .Results}}
<tr{{if not .Success}} class="failed"{{end}}>
<td><a href="{{.URL}}">{{.URL}}</a><div class="meta">{{.Title}}</div></td>
<td>{{if .StatusCode}}{{.StatusCode}}{{else}}&mdash;{{end}}</td>
<td>{{if .Screenshot}}<a href="screenshots/{{.Screenshot}}"><img class="thumb" src="screenshots/{{.Screenshot}}" alt="{{.URL}}"></a>{{else}}&mdash;{{end}}</td>
<td>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{if .Warning}}<div class="warning">{{.Warning}}</div>{{end}}
<div class="meta">{{printf "%.1f" .ProcessingTime}}s &middot; {{.Timestamp}}</div>
</td>
</tr>
{{end}}
</table>
</body>
</html>
`

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

// WriteHTML renders the index.html overview with a summary line and one row
// per result, thumbnails linked to the full screenshots.
func (w *Writer) WriteHTML(results []*models.CaptureResult, info models.BatchInfo) error {
	f, err := os.Create(filepath.Join(w.root, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()

	return indexTmpl.Execute(f, struct {
		Results []*models.CaptureResult
		Info    models.BatchInfo
	}{results, info})
}
