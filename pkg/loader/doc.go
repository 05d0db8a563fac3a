// Package loader reads catalog definitions written as JSON or YAML documents
// and writes catalogs back in the same format. Documents describe a tree of
// sections and widgets; construction errors from the model package surface
// unchanged, wrapped with the document name.
package loader
