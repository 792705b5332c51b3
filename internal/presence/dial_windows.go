//go:build windows

package presence

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/genricoloni/tunecord/internal/domain"
)

// dialDiscord opens the first available \\.\pipe\discord-ipc-N named pipe
func dialDiscord(ctx context.Context) (io.ReadWriteCloser, error) {
	for i := 0; i < 10; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pipe, err := os.OpenFile(fmt.Sprintf(`\\.\pipe\discord-ipc-%d`, i), os.O_RDWR, 0)
		if err == nil {
			return pipe, nil
		}
	}
	return nil, domain.ErrNoSession
}
