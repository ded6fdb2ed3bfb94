package pointer

import (
	"os"
	"testing"
)

func TestMatchesAuthorityName(t *testing.T) {
	cases := map[string]bool{
		"xauthABCDEF":        true,
		".xauthXXXXXX":       true,
		"serverauth.abc123":  true,
		"random-file.txt":    false,
		"":                   false,
	}
	for name, want := range cases {
		if got := matchesAuthorityName(name); got != want {
			t.Errorf("matchesAuthorityName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestHasPrefix(t *testing.T) {
	if !hasPrefix("xauth1234", "xauth") {
		t.Error("expected prefix match")
	}
	if hasPrefix("xa", "xauth") {
		t.Error("expected no match: candidate shorter than prefix")
	}
}

func TestPopulateX11EnvironmentSetsDefaultDisplay(t *testing.T) {
	old := os.Getenv("DISPLAY")
	defer os.Setenv("DISPLAY", old)
	os.Unsetenv("DISPLAY")

	populateX11Environment()

	if os.Getenv("DISPLAY") != ":0" {
		t.Errorf("expected DISPLAY to default to :0, got %q", os.Getenv("DISPLAY"))
	}
}

func TestPopulateX11EnvironmentLeavesExistingDisplay(t *testing.T) {
	old := os.Getenv("DISPLAY")
	defer os.Setenv("DISPLAY", old)
	os.Setenv("DISPLAY", ":7")

	populateX11Environment()

	if os.Getenv("DISPLAY") != ":7" {
		t.Errorf("expected existing DISPLAY to be preserved, got %q", os.Getenv("DISPLAY"))
	}
}

func TestFindAuthorityCookiePrefersOwnedByCurrentUser(t *testing.T) {
	dir := t.TempDir()
	old := os.Getenv("HOME")
	defer os.Setenv("HOME", old)
	os.Setenv("HOME", dir)

	cookie := dir + "/.Xauthority"
	if err := os.WriteFile(cookie, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if got := findAuthorityCookie(); got != cookie {
		t.Errorf("findAuthorityCookie() = %q, want %q", got, cookie)
	}
}
