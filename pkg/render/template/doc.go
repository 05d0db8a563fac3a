// Package template defines the template engine contract shared by the
// renderer and the surfaces. The pongo2 backed implementation lives in the
// gotemplate subpackage.
package template
