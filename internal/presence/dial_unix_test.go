//go:build !windows

package presence

import (
	"testing"
)

func TestSocketCandidates(t *testing.T) {
	env := map[string]string{"XDG_RUNTIME_DIR": "/run/user/1000", "TMPDIR": "/var/tmp"}
	paths := socketCandidates(func(k string) string { return env[k] })

	if paths[0] != "/run/user/1000/discord-ipc-0" {
		t.Errorf("expected runtime dir first, got %s", paths[0])
	}

	want := map[string]bool{
		"/run/user/1000/app/com.discordapp.Discord/discord-ipc-0": false,
		"/var/tmp/discord-ipc-3":                                 false,
		"/tmp/snap.discord/discord-ipc-9":                        false,
	}
	for _, p := range paths {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for p, found := range want {
		if !found {
			t.Errorf("expected candidate %s", p)
		}
	}

	// 3 dirs x 5 subdirs x 10 indices
	if len(paths) != 150 {
		t.Errorf("expected 150 candidates, got %d", len(paths))
	}
}
