package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/visibility"
)

func TestEvaluator_Rules(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{
		Values: map[string]any{
			"name":     "Kim",
			"empty":    "",
			"terms":    true,
			"age":      40.0,
			"category": "책",
			"langs":    []string{"Go"},
			"upload":   (*model.File)(nil),
			"이름":       "홍길동",
			"flag":     "false",
		},
		Extras: map[string]any{
			"submitted": map[string]any{"signup": true, "other": false},
			"pressed":   map[string]any{"hello": false},
		},
	}

	cases := []struct {
		rule   string
		expect bool
	}{
		{"", true},
		{"name", true},
		{"empty", false},
		{"!empty", true},
		{"missing", false},
		{"terms == true", true},
		{"flag == false", true},
		{"age >= 18 && age < 65", true},
		{"age > 40", false},
		{"age != 40", false},
		{"category == \"책\"", true},
		{"category == '책'", true},
		{"category != 의류", true},
		{"langs == \"Go\"", true},
		{"langs", true},
		{"upload == null", true},
		{"upload", false},
		{"submitted.signup && terms", true},
		{"submitted.other || pressed.hello", false},
		{"extras.submitted.signup", true},
		{"이름", true},
		{"not terms or (age == 40 and name)", true},
		{"!(terms && age == 40)", false},
	}

	eval := New()
	for _, tc := range cases {
		got, err := eval.Eval("node", tc.rule, ctx)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.rule, err)
		}
		if got != tc.expect {
			t.Errorf("Eval(%q) = %v, want %v", tc.rule, got, tc.expect)
		}
	}
}

func TestEvaluator_ValuesShadowExtras(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{
		Values: map[string]any{"submitted": false},
		Extras: map[string]any{"submitted": true},
	}
	got, err := New().Eval("n", "submitted", ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Fatalf("widget value should win over extras")
	}
	got, err = New().Eval("n", "extras.submitted", ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Fatalf("extras prefix should force extras lookup")
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		"a = b",
		"a & b",
		"(a",
		"a ==",
		"== a",
		"a > true",
		"\"unterminated",
		"a b",
		"a ^ b",
	} {
		if _, err := Compile(rule); err == nil {
			t.Errorf("Compile(%q) expected error", rule)
		}
	}
}

func TestProgram_Identifiers(t *testing.T) {
	t.Parallel()

	program, err := Compile("submitted.signup && (terms || !terms) && age > 1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"submitted.signup", "terms", "age"}, program.Identifiers()); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}
}
