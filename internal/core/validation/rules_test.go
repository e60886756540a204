package validation

import (
	"strings"
	"testing"
)

func TestRules_Name(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		rules Rules
		input string
		want  string
	}{
		{name: "minimal empty", rules: Minimal(), input: "   ", want: MsgNameRequired},
		{name: "minimal too short", rules: Minimal(), input: "Jo", want: NameTooShort(3)},
		{name: "minimal three chars", rules: Minimal(), input: "Joe", want: ""},
		{name: "minimal trims before counting", rules: Minimal(), input: " Jo ", want: NameTooShort(3)},
		{name: "minimal has no upper bound", rules: Minimal(), input: strings.Repeat("a", 150), want: ""},
		{name: "extended two chars", rules: Extended(), input: "Jo", want: ""},
		{name: "extended one char", rules: Extended(), input: "J", want: NameTooShort(2)},
		{name: "extended too long", rules: Extended(), input: strings.Repeat("a", 101), want: MsgNameTooLong},
		{name: "extended counts runes", rules: Extended(), input: "Zé", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.rules.Name(tc.input); got != tc.want {
				t.Fatalf("Name(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestRules_Email(t *testing.T) {
	t.Parallel()

	ext := Extended()
	if got := ext.Email(""); got != MsgEmailRequired {
		t.Fatalf("expected required message, got %q", got)
	}
	if got := ext.Email("joe@example"); got != MsgEmailInvalid {
		t.Fatalf("expected invalid message, got %q", got)
	}
	if got := ext.Email("jo e@example.com"); got != MsgEmailInvalid {
		t.Fatalf("expected invalid message for whitespace, got %q", got)
	}
	if got := ext.Email("x@y.com"); got != "" {
		t.Fatalf("expected valid email, got %q", got)
	}

	long := strings.Repeat("a", 250) + "@b.com"
	if got := ext.Email(long); got != MsgEmailTooLong {
		t.Fatalf("expected too long message, got %q", got)
	}
	if got := Minimal().Email(long); got != "" {
		t.Fatalf("minimal rules should not bound email length, got %q", got)
	}
}

func TestRules_BaseSalary(t *testing.T) {
	t.Parallel()

	ext := Extended()
	for input, want := range map[string]string{
		"":        "",
		"0":       "",
		"3500.50": "",
		"1000000": "",
		"-1":      MsgSalaryInvalid,
		"abc":     MsgSalaryInvalid,
		"1000001": MsgSalaryTooHigh,
	} {
		if got := ext.BaseSalary(input); got != want {
			t.Errorf("BaseSalary(%q) = %q, want %q", input, got, want)
		}
	}

	if got := Minimal().BaseSalary("-1"); got != "" {
		t.Fatalf("minimal rules should ignore salary, got %q", got)
	}
}

func TestRules_OptionalProfileFields(t *testing.T) {
	t.Parallel()

	ext := Extended()
	if got := ext.HierarchyLevel("gestor"); got != "" {
		t.Fatalf("expected gestor to be valid, got %q", got)
	}
	if got := ext.HierarchyLevel("director"); got != MsgHierarchyInvalid {
		t.Fatalf("expected invalid hierarchy, got %q", got)
	}
	if got := ext.AdmissionDate("2024-02-30"); got != MsgAdmissionInvalid {
		t.Fatalf("expected invalid admission date, got %q", got)
	}
	if got := ext.AdmissionDate("2024-02-29"); got != "" {
		t.Fatalf("expected valid admission date, got %q", got)
	}
	if got := ext.Department(" "); got != MsgDepartmentRequired {
		t.Fatalf("expected department required, got %q", got)
	}
}
