package state

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

func exampleCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	root, err := model.NewSectionBuilder("root", "Example", model.Plain).
		Widget("age", model.KindNumericInput,
			model.WithConstraints(model.Constraints{Min: model.Float(0), Max: model.Float(150)}),
			model.WithDefault(25)).
		Widget("refresh", model.KindButton).
		Section(model.NewSectionBuilder("signup", "Sign up", model.Form()).
			Widget("email", model.KindSingleLineInput).
			Widget("terms", model.KindCheckbox).
			Widget("submit", model.KindSubmitButton)).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	catalog, err := model.NewCatalog(root)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return catalog
}

func mustGet(t *testing.T, s *FormState, id string) any {
	t.Helper()
	value, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get(%s): %v", id, err)
	}
	return value
}

func mustStatus(t *testing.T, s *FormState, form string) FormStatus {
	t.Helper()
	status, err := s.Status(form)
	if err != nil {
		t.Fatalf("Status(%s): %v", form, err)
	}
	return status
}

func TestFormState_ExampleScenario(t *testing.T) {
	s := New(exampleCatalog(t))
	s.BeginPass()

	err := s.Set("age", 200)
	var violation *model.ConstraintViolationError
	if !errors.As(err, &violation) || violation.ID != "age" {
		t.Fatalf("Set(age, 200) = %v, want ConstraintViolationError", err)
	}
	if err := s.Set("age", 40); err != nil {
		t.Fatalf("Set(age, 40): %v", err)
	}
	if got := mustGet(t, s, "age"); got != 40.0 {
		t.Fatalf("Get(age) = %v, want 40", got)
	}

	if err := s.Set("terms", true); err != nil {
		t.Fatalf("Set(terms): %v", err)
	}
	if committed, _ := s.Committed("terms"); committed != false {
		t.Fatalf("terms committed before submit: %v", committed)
	}
	if err := s.Submit("signup"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	s.BeginPass()
	if got := mustStatus(t, s, "signup"); got != StatusSubmitted {
		t.Fatalf("status after submit = %s", got)
	}
	if committed, _ := s.Committed("terms"); committed != true {
		t.Fatalf("terms not committed: %v", committed)
	}

	s.BeginPass()
	if got := mustStatus(t, s, "signup"); got != StatusEditing {
		t.Fatalf("status two passes after submit = %s", got)
	}
	if committed, _ := s.Committed("terms"); committed != true {
		t.Fatalf("terms lost after status reset: %v", committed)
	}
}

func TestFormState_StagedVersusCommitted(t *testing.T) {
	s := New(exampleCatalog(t))

	if err := s.Set("email", "a@example.com"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := mustGet(t, s, "email"); got != "a@example.com" {
		t.Fatalf("Get should return staged value, got %v", got)
	}
	if got, _ := s.Committed("email"); got != "" {
		t.Fatalf("committed changed before submit: %v", got)
	}
	staged, err := s.Staged("signup")
	if err != nil {
		t.Fatalf("Staged: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"email": "a@example.com"}, staged); diff != "" {
		t.Fatalf("staged mismatch (-want +got):\n%s", diff)
	}

	if err := s.Submit("signup"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got, _ := s.Committed("email"); got != "a@example.com" {
		t.Fatalf("committed after submit = %v", got)
	}
	if staged, _ := s.Staged("signup"); len(staged) != 0 {
		t.Fatalf("staged not cleared: %v", staged)
	}
}

func TestFormState_ResetRestoresLastCommit(t *testing.T) {
	s := New(exampleCatalog(t))

	if err := s.Set("email", "first@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.Submit("signup"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("email", "second@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset("signup"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := mustGet(t, s, "email"); got != "first@example.com" {
		t.Fatalf("after reset Get = %v, want last committed", got)
	}

	fresh := New(exampleCatalog(t))
	if err := fresh.Set("terms", true); err != nil {
		t.Fatal(err)
	}
	if err := fresh.Reset("signup"); err != nil {
		t.Fatal(err)
	}
	if got := mustGet(t, fresh, "terms"); got != false {
		t.Fatalf("reset without commit should restore default, got %v", got)
	}
}

func TestFormState_UnknownIdentifiers(t *testing.T) {
	s := New(exampleCatalog(t))

	checks := map[string]error{}
	_, checks["get"] = s.Get("missing")
	checks["set"] = s.Set("missing", 1)
	checks["submit non-form"] = s.Submit("age")
	checks["submit missing"] = s.Submit("nope")
	checks["reset non-form"] = s.Reset("root")
	checks["press non-button"] = s.Press("age")
	_, checks["status"] = s.Status("email")

	for name, err := range checks {
		if !errors.Is(err, model.ErrUnknownIdentifier) {
			t.Errorf("%s: expected ErrUnknownIdentifier, got %v", name, err)
		}
	}
}

func TestFormState_ButtonsAreMomentary(t *testing.T) {
	s := New(exampleCatalog(t))
	s.BeginPass()

	if err := s.Set("refresh", true); err != nil {
		t.Fatalf("Set(refresh): %v", err)
	}
	s.BeginPass()
	if pressed, _ := s.Pressed("refresh"); !pressed {
		t.Fatalf("button should read pressed in the pass after activation")
	}
	extras := s.Extras()
	if diff := cmp.Diff(map[string]any{"refresh": true, "submit": false}, extras["pressed"]); diff != "" {
		t.Fatalf("pressed extras mismatch (-want +got):\n%s", diff)
	}

	s.BeginPass()
	if pressed, _ := s.Pressed("refresh"); pressed {
		t.Fatalf("button should release after one pass")
	}
}

func TestFormState_SnapshotIsCopy(t *testing.T) {
	root := model.NewSectionBuilder("root", "", model.Plain).
		Widget("langs", model.KindMultiSelect, model.WithOptions("go", "c"), model.WithDefault([]string{"go"})).
		MustBuild()
	catalog, err := model.NewCatalog(root)
	if err != nil {
		t.Fatal(err)
	}
	s := New(catalog)

	snap := s.Snapshot()
	snap["langs"].([]string)[0] = "c"
	if diff := cmp.Diff([]string{"go"}, mustGet(t, s, "langs")); diff != "" {
		t.Fatalf("snapshot aliased state (-want +got):\n%s", diff)
	}

	in := []string{"c"}
	if err := s.Set("langs", in); err != nil {
		t.Fatal(err)
	}
	in[0] = "go"
	if diff := cmp.Diff([]string{"c"}, mustGet(t, s, "langs")); diff != "" {
		t.Fatalf("Set aliased caller slice (-want +got):\n%s", diff)
	}
}

func TestFormState_ErrorsLastOnePass(t *testing.T) {
	s := New(exampleCatalog(t))
	s.BeginPass()
	s.AddError("age", "too old")

	s.BeginPass()
	if diff := cmp.Diff([]string{"too old"}, s.Errors("age")); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"age"}, s.ErrorIDs()); diff != "" {
		t.Fatalf("error ids mismatch (-want +got):\n%s", diff)
	}

	s.BeginPass()
	if got := s.Errors("age"); len(got) != 0 {
		t.Fatalf("errors should clear after one pass, got %v", got)
	}
}
