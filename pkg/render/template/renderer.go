package template

import (
	"io"
)

// TemplateRenderer is the template engine seam. The renderer interpolates
// text bodies through RenderString; page oriented surfaces use RenderTemplate
// with named templates.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
