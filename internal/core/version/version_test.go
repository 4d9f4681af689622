package version

import "testing"

func TestInfoDefaults(t *testing.T) {
	got := Info("crashrelay-api")
	want := BuildInfo{Service: "crashrelay-api", Version: "dev", Commit: "none", Date: "unknown"}
	if got != want {
		t.Fatalf("Info = %+v, want %+v", got, want)
	}
	if s := got.String(); s != "crashrelay-api dev (none, unknown)" {
		t.Fatalf("String = %q", s)
	}
}
