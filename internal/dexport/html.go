package dexport

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/jdefrancesco/finddupes/internal/dgroup"
)

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"links": func(paths []string) template.HTML {
		escaped := make([]string, len(paths))
		for i, p := range paths {
			escaped[i] = template.HTMLEscapeString(p)
		}
		// #nosec G203 -- every path was escaped above
		return template.HTML("<code>" + strings.Join(escaped, "</code>, <code>") + "</code>")
	},
}).Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Results</title>
    <style>
        html {
            font-family: sans-serif;
        }

        table {
            border-collapse: collapse;
            border: 1px solid black;
            margin: 1em;
        }

        th, td {
            padding: 0.5em 1em;
            border: 1px solid black;
        }
    </style>
  </head>
  <body>
    <table>
      <thead>
        <tr><th>Files</th><th>Size</th></tr>
      </thead>
      <tbody>
{{- range .}}
    <tr><td>{{range .}}<p>{{links .Paths}}</p>{{end}}</td><td>{{(index . 0).Size}}</td></tr>
{{- end}}
</tbody>
    </table>
  </body>
</html>
`))

// WriteHTML writes a standalone HTML page with one table row per group.
func WriteHTML(w io.Writer, groups []dgroup.Group) error {
	if err := htmlReport.Execute(w, toExport(groups)); err != nil {
		return fmt.Errorf("write HTML: %w", err)
	}
	return nil
}
