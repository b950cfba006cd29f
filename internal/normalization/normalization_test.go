package normalization

import "testing"

func TestParseBoolFlag(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want bool
	}{
		{"native true", true, true},
		{"native false", false, false},
		{"literal true", "true", true},
		{"capitalized", "True", false},
		{"numeric", "1", false},
		{"yes", "yes", false},
		{"empty", "", false},
		{"garbage", "absolutely", false},
		{"nil", nil, false},
		{"number type", 1, false},
	}
	for _, tc := range cases {
		if got := ParseBoolFlag(tc.in); got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestParseInputString(t *testing.T) {
	if got := ParseInputString("  TEACHER@Example.COM "); got != "teacher@example.com" {
		t.Fatalf("got=%q want=%q", got, "teacher@example.com")
	}
}

func TestTrimInputPreservesCase(t *testing.T) {
	if got := TrimInput("  Algebra I "); got != "Algebra I" {
		t.Fatalf("got=%q want=%q", got, "Algebra I")
	}
}
