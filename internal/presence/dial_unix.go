//go:build !windows

package presence

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/genricoloni/tunecord/internal/domain"
)

// Sandboxed Discord builds put their socket below the runtime directory
var socketSubdirs = []string{
	"",
	"app/com.discordapp.Discord",
	"app/com.discordapp.DiscordCanary",
	"snap.discord",
	".flatpak/dev.vencord.Vesktop/xdg-run",
}

// socketCandidates lists every path a Discord client may listen on, in probe order
func socketCandidates(getenv func(string) string) []string {
	var dirs []string
	for _, key := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if v := getenv(key); v != "" {
			dirs = append(dirs, v)
		}
	}
	dirs = append(dirs, "/tmp")

	paths := make([]string, 0, len(dirs)*len(socketSubdirs)*10)
	for i := 0; i < 10; i++ {
		for _, dir := range dirs {
			for _, sub := range socketSubdirs {
				paths = append(paths, filepath.Join(dir, sub, fmt.Sprintf("discord-ipc-%d", i)))
			}
		}
	}
	return paths
}

func dialDiscord(ctx context.Context) (io.ReadWriteCloser, error) {
	var d net.Dialer
	for _, path := range socketCandidates(os.Getenv) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		conn, err := d.DialContext(ctx, "unix", path)
		if err == nil {
			return conn, nil
		}
	}
	return nil, domain.ErrNoSession
}
