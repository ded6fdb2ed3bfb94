package pointer

import (
	"os"
	"path/filepath"
	"syscall"
)

// populateX11Environment best-effort fills DISPLAY and XAUTHORITY so the
// native backend's XOpenDisplay(nil) call (which reads both from the
// process environment) can find a running X server even when gesturesd was
// launched from a context that didn't inherit a desktop session's
// environment (a systemd unit, a TTY login).
func populateX11Environment() {
	if os.Getenv("DISPLAY") == "" {
		os.Setenv("DISPLAY", ":0")
	}
	if os.Getenv("XAUTHORITY") != "" {
		return
	}
	if cookie := findAuthorityCookie(); cookie != "" {
		os.Setenv("XAUTHORITY", cookie)
	}
}

// findAuthorityCookie searches $HOME and the temp directory for an
// Xauthority cookie file, preferring one owned by the current user.
func findAuthorityCookie() string {
	uid := os.Getuid()
	candidates := []string{}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".Xauthority"))
	}

	tmp := os.TempDir()
	entries, err := os.ReadDir(tmp)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if matchesAuthorityName(name) {
				candidates = append(candidates, filepath.Join(tmp, name))
			}
		}
	}

	var ownedByUser string
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil {
			continue
		}
		if ownedByCurrentUser(info, uid) {
			ownedByUser = c
			break
		}
	}
	if ownedByUser != "" {
		return ownedByUser
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func ownedByCurrentUser(info os.FileInfo, uid int) bool {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return int(stat.Uid) == uid
}

func matchesAuthorityName(name string) bool {
	return hasPrefix(name, "xauth") || hasPrefix(name, ".xauth") || hasPrefix(name, "serverauth.")
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
