package handler

import (
    "embed"
    "html/template"
    "io"

    "github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates renders the embedded HTML pages through echo's Renderer hook.
type Templates struct {
    tmpl *template.Template
}

// ParseTemplates parses every page under templates/.
func ParseTemplates() (*Templates, error) {
    t, err := template.ParseFS(templatesFS, "templates/*.html")
    if err != nil {
        return nil, err
    }
    return &Templates{tmpl: t}, nil
}

func (t *Templates) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
    return t.tmpl.ExecuteTemplate(w, name, data)
}
