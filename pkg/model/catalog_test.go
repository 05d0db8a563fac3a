package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func signupSection() *SectionBuilder {
	return NewSectionBuilder("signup", "Sign up", Form()).
		Widget("email", KindSingleLineInput).
		Widget("terms", KindCheckbox).
		Widget("submit", KindSubmitButton)
}

func TestParseLayout(t *testing.T) {
	cases := []struct {
		in     string
		expect Layout
	}{
		{"", Layout{Kind: SectionPlain}},
		{"tabs", Layout{Kind: SectionTabs}},
		{"columns(3)", Layout{Kind: SectionColumns, Columns: 3}},
		{" Columns( 2 ) ", Layout{Kind: SectionColumns, Columns: 2}},
		{"bordered-container", Layout{Kind: SectionContainer, Border: true}},
		{"form", Layout{Kind: SectionForm}},
	}
	for _, tc := range cases {
		got, err := ParseLayout(tc.in)
		if err != nil {
			t.Fatalf("ParseLayout(%q): %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.expect, got); diff != "" {
			t.Fatalf("ParseLayout(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}

	for _, bad := range []string{"columns", "columns(0)", "columns(x)", "tabs(2)", "grid", "columns(2"} {
		if _, err := ParseLayout(bad); err == nil {
			t.Errorf("ParseLayout(%q) expected error", bad)
		}
	}
}

func TestLayoutString(t *testing.T) {
	for _, raw := range []string{"columns(3)", "bordered-container", "tabs", "plain"} {
		layout, err := ParseLayout(raw)
		if err != nil {
			t.Fatalf("ParseLayout(%q): %v", raw, err)
		}
		if layout.String() != raw {
			t.Fatalf("String() = %q, want %q", layout.String(), raw)
		}
	}
}

func TestSectionBuilder_DuplicateIdentifiers(t *testing.T) {
	_, err := NewSectionBuilder("root", "Root", Plain).
		Widget("name", KindSingleLineInput).
		Section(NewSectionBuilder("nested", "Nested", Plain).Widget("name", KindCheckbox)).
		Build()

	var dup *DuplicateIdentifierError
	if !errors.As(err, &dup) || dup.ID != "name" {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("expected errors.Is ErrDuplicateIdentifier")
	}

	_, err = NewSectionBuilder("root", "Root", Plain).
		Section(NewSectionBuilder("root", "Again", Plain)).
		Build()
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("expected section id clash, got %v", err)
	}
}

func TestSectionBuilder_CollectsDescriptorErrors(t *testing.T) {
	_, err := NewSectionBuilder("root", "Root", Plain).
		Widget("age", KindNumericInput, WithConstraints(Constraints{Max: Float(10)}), WithDefault(11)).
		Build()
	if !errors.Is(err, ErrInvalidDefault) {
		t.Fatalf("expected invalid default to surface from Build, got %v", err)
	}
}

func TestSection_ChildrenAreCopies(t *testing.T) {
	section := NewSectionBuilder("root", "Root", Plain).
		Widget("a", KindCheckbox).
		Widget("b", KindCheckbox).
		MustBuild()

	children := section.Children()
	children[0] = nil
	if section.Children()[0] == nil {
		t.Fatalf("mutating Children() result changed the section")
	}
}

func TestNewCatalog_Index(t *testing.T) {
	root := NewSectionBuilder("root", "Demo", Plain).
		Widget("age", KindNumericInput).
		Section(signupSection()).
		Section(NewSectionBuilder("cols", "", Columns(2)).
			Section(NewSectionBuilder("left", "", Plain).Widget("a", KindCheckbox)).
			Section(NewSectionBuilder("right", "", Plain).Widget("b", KindCheckbox))).
		MustBuild()

	catalog, err := NewCatalog(root)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	var visited []string
	var depths []int
	if err := catalog.Walk(func(node Node, depth int) error {
		visited = append(visited, node.NodeID())
		depths = append(depths, depth)
		return nil
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	wantOrder := []string{"root", "age", "signup", "email", "terms", "submit", "cols", "left", "a", "right", "b"}
	if diff := cmp.Diff(wantOrder, visited); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 1, 2, 2, 2, 1, 2, 3, 2, 3}, depths); diff != "" {
		t.Fatalf("walk depth mismatch (-want +got):\n%s", diff)
	}

	if form, ok := catalog.FormOf("terms"); !ok || form != "signup" {
		t.Fatalf("FormOf(terms) = %q, %v", form, ok)
	}
	if _, ok := catalog.FormOf("age"); ok {
		t.Fatalf("age should not belong to a form")
	}
	if diff := cmp.Diff([]string{"signup"}, catalog.Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"email", "terms", "submit"}, catalog.FormMembers("signup")); diff != "" {
		t.Fatalf("form members mismatch (-want +got):\n%s", diff)
	}

	if _, err := catalog.Descriptor("signup"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("Descriptor(section) expected unknown identifier, got %v", err)
	}
	if _, err := catalog.Form("cols"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("Form(non-form) expected unknown identifier, got %v", err)
	}
	if _, err := catalog.Node("missing"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("Node(missing) expected unknown identifier, got %v", err)
	}
}

func TestNewCatalog_FormRules(t *testing.T) {
	cases := []struct {
		name   string
		root   *SectionBuilder
		expect error
	}{
		{
			name: "nested form",
			root: NewSectionBuilder("root", "", Plain).
				Section(NewSectionBuilder("outer", "", Form()).
					Widget("go", KindSubmitButton).
					Section(signupSection())),
			expect: ErrNestedForm,
		},
		{
			name:   "orphan submit",
			root:   NewSectionBuilder("root", "", Plain).Widget("go", KindSubmitButton),
			expect: ErrSubmitOutsideForm,
		},
		{
			name: "form without submit",
			root: NewSectionBuilder("root", "", Plain).
				Section(NewSectionBuilder("f", "", Form()).Widget("terms", KindCheckbox)),
			expect: ErrFormWithoutSubmit,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root, err := tc.root.Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if _, err := NewCatalog(root); !errors.Is(err, tc.expect) {
				t.Fatalf("NewCatalog error = %v, want %v", err, tc.expect)
			}
		})
	}
}

func TestNewCatalog_ReservedIdentifiers(t *testing.T) {
	for _, id := range ReservedIdentifiers {
		root := NewSectionBuilder("root", "", Plain).
			Widget(id, KindSingleLineInput).
			MustBuild()
		_, err := NewCatalog(root)
		if !errors.Is(err, ErrReservedIdentifier) {
			t.Errorf("widget %q: expected ErrReservedIdentifier, got %v", id, err)
		}
	}

	section := NewSectionBuilder("root", "", Plain).
		Section(NewSectionBuilder("submitted", "", Plain).Widget("name", KindSingleLineInput)).
		MustBuild()
	if _, err := NewCatalog(section); !errors.Is(err, ErrReservedIdentifier) {
		t.Errorf("section: expected ErrReservedIdentifier, got %v", err)
	}
}
