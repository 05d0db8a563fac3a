package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uicatalog/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.FormField("signup"),
		render.PassField(7),
		render.Hidden(" token ", "abc123"),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"_form":    "signup",
		"_pass":    "7",
		"token":    "abc123",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_form", Value: "signup"},
		{Name: "_pass", Value: "7"},
		{Name: "existing", Value: "keep"},
		{Name: "token", Value: "abc123"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}

	if !render.IsHiddenField(render.FieldPass) || render.IsHiddenField("name") {
		t.Fatalf("IsHiddenField mismatch")
	}
}
