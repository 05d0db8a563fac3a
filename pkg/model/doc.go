// Package model defines the static half of a widget catalog: typed widget
// descriptors, the section tree that orders them and the indexed Catalog.
//
// Everything in this package is immutable after construction. Mutable values
// live in package state; drawing lives in package render.
package model
