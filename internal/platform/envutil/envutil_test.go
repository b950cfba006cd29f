package envutil

import (
	"testing"
	"time"
)

func TestStringTrimsAndDefaults(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_STR", "  value  ")
	if got := String("ENVUTIL_TEST_STR", "def"); got != "value" {
		t.Fatalf("got=%q want=%q", got, "value")
	}
	if got := String("ENVUTIL_TEST_STR_MISSING", "def"); got != "def" {
		t.Fatalf("got=%q want=%q", got, "def")
	}
}

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "12")
	if got := Int("ENVUTIL_TEST_INT", 3); got != 12 {
		t.Fatalf("got=%d want=12", got)
	}
	t.Setenv("ENVUTIL_TEST_INT", "twelve")
	if got := Int("ENVUTIL_TEST_INT", 3); got != 3 {
		t.Fatalf("got=%d want=3", got)
	}
}

func TestBoolAcceptsCommonSpellings(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "YES": true, "on": true,
		"0": false, "false": false, "no": false, "off": false,
	}
	for raw, want := range cases {
		t.Setenv("ENVUTIL_TEST_BOOL", raw)
		if got := Bool("ENVUTIL_TEST_BOOL", !want); got != want {
			t.Fatalf("%q: got=%v want=%v", raw, got, want)
		}
	}
	t.Setenv("ENVUTIL_TEST_BOOL", "maybe")
	if got := Bool("ENVUTIL_TEST_BOOL", true); got != true {
		t.Fatalf("garbage should keep the default")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_DUR", "90s")
	if got := Duration("ENVUTIL_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("got=%v want=90s", got)
	}
	t.Setenv("ENVUTIL_TEST_DUR", "ninety")
	if got := Duration("ENVUTIL_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("got=%v want=1m", got)
	}
}
