package uicatalog

import (
	"io/fs"

	"github.com/goliatone/go-uicatalog/pkg/surfaces/html"
)

// EmbeddedTemplates exposes the built-in HTML page and component templates
// so callers can reuse or extend them without importing the surface package.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheet the HTML surface inlines, for hosts that
// prefer to serve it.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(uicatalog.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
