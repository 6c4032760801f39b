package i18n

import "testing"

func TestTablesHaveKeyParity(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Lang
	}{
		{"sk", SK},
		{"en", EN},
		{"", Default},
		{"de", Default},
	}
	for _, tc := range cases {
		if got := Parse(tc.in); got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTUnknownKeyReturnsKey(t *testing.T) {
	if got := T(EN, "no.such.key"); got != "no.such.key" {
		t.Fatalf("got %q", got)
	}
}

func TestTLocalizes(t *testing.T) {
	if T(EN, "form.save") == T(SK, "form.save") {
		t.Fatal("expected different strings per language")
	}
}
