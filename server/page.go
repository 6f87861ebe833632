package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/TravisS25/chartbuilder/editor"
	"github.com/TravisS25/chartbuilder/form"
	"github.com/pkg/errors"
)

type pageData struct {
	State editor.State
	Token string
}

var pageFuncs = template.FuncMap{
	"tabs": func() []form.Tab { return form.Tabs },
	"panel": func(s editor.State, tab form.Tab) []form.Control {
		controls := make([]form.Control, 0)

		for _, c := range s.Controls {
			if c.Tab == tab {
				controls = append(controls, c)
			}
		}

		return controls
	},
	"visible": func(s editor.State, tab form.Tab) bool {
		return s.View.PanelVisible(tab)
	},
	"surface": func(s editor.State, id string) template.HTML {
		return template.HTML(s.Surfaces[id])
	},
	"previewID": func() string { return form.PreviewSurface },
	"displayID": func() string { return form.DisplaySurface },
}

var pageTemplate = template.Must(template.New("page").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Chart Builder</title>
{{if .Token}}<meta name="csrf-token" content="{{.Token}}">{{end}}
</head>
<body>
{{if .State.Failed}}
<div class="chart-error">Failed to load the charting library. Please try again later.</div>
{{else}}
<div class="chart-builder" data-instance="{{.State.ID}}">
{{if .State.View.EditorVisible}}
  <nav class="tab-nav">
  {{range tabs}}
    <button class="tab-button{{if eq . $.State.View.ActiveTab}} active{{end}}" data-tab="{{.}}">{{.}}</button>
  {{end}}
  </nav>
  {{range $tab := tabs}}
  <section class="tab-content{{if visible $.State $tab}} active{{end}}" id="{{$tab}}-tab">
    {{range panel $.State $tab}}
    <div class="control{{if .Hidden}} hidden{{end}}" id="{{.ID}}-container">
      <label for="{{.ID}}">{{.Label}}</label>
      {{if eq .Kind "select"}}
      <select id="{{.ID}}">
        {{$value := .Value}}
        {{range .Options}}<option value="{{.Value}}"{{if eq .Value $value}} selected{{end}}>{{.Text}}</option>{{end}}
      </select>
      {{else if eq .Kind "checkbox"}}
      <input type="checkbox" id="{{.ID}}"{{if .Checked}} checked{{end}}>
      {{else}}
      <input type="{{.Kind}}" id="{{.ID}}" value="{{.Value}}"{{if .Min}} min="{{.Min}}"{{end}}{{if .Max}} max="{{.Max}}"{{end}}{{if .Step}} step="{{.Step}}"{{end}}{{if .Live}} data-live{{end}}>
      {{if .Live}}<span class="read-out">{{.ReadOut}}</span>{{end}}
      {{end}}
    </div>
    {{end}}
    {{if eq $tab "layout"}}
    {{range $.State.Palettes}}
    <div class="palette" data-palette="{{.Name}}">
      {{range .Swatches}}<span class="palette-color{{if .InUse}} in-use{{end}}" data-color="{{.Color}}" style="background-color: {{.Color}}"></span>{{end}}
    </div>
    {{end}}
    {{end}}
    {{if eq $tab "preview"}}
    <div id="{{previewID}}">{{surface $.State previewID}}</div>
    {{end}}
  </section>
  {{end}}
{{else}}
  <div id="{{displayID}}">{{surface .State displayID}}</div>
{{end}}
</div>
{{end}}
</body>
</html>
`))

// renderPage writes the editor page with passed status
func renderPage(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer

	if err := pageTemplate.Execute(&buf, data); err != nil {
		http.Error(w, serverErrTxt, http.StatusInternalServerError)
		return errors.WithStack(err)
	}

	w.Header().Set("Content-Type", ContentTypeHTML)
	w.WriteHeader(status)
	buf.WriteTo(w)

	return nil
}
