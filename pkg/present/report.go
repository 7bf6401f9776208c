package present

import (
	"fmt"
	"html/template"
	"io"
)

// Report is the data rendered into an HTML analysis page.
type Report struct {
	Label     string
	FakeScore float64
	Tokens    []Token
	Summary   string
}

// Token is one word of the analyzed text with its signed weight.
type Token struct {
	Text   string
	Weight float64
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"capitalize": CapitalizeFirstLetter,
	"scoreColor": func(score float64) template.CSS { return template.CSS(ScoreColor(score)) },
	"background": func(weight float64) template.CSS { return template.CSS(ValueToBackground(weight)) },
	"percent":    func(score float64) string { return fmt.Sprintf("%.0f%%", score*100) },
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Analysis</title></head>
<body>
<h1 style="color: {{scoreColor .FakeScore}}">{{capitalize .Label}} ({{percent .FakeScore}} fake)</h1>
{{- if .Summary}}
<p>{{.Summary}}</p>
{{- end}}
<p>
{{- range .Tokens}}
<span style="background-color: {{background .Weight}}">{{.Text}}</span>
{{- end}}
</p>
</body>
</html>
`))

// RenderReport writes r as a standalone HTML page.
func RenderReport(w io.Writer, r Report) error {
	if err := reportTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
