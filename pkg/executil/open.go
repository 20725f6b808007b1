package executil

import (
	"context"
	"runtime"
)

// OpenCommand returns the program and arguments that open target with the
// default application on goos.
func OpenCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// Open opens target, a URL or a file path, with the default application.
func Open(ctx context.Context, e Executor, target string) error {
	cmd, args := OpenCommand(runtime.GOOS, target)
	_, err := e.Run(ctx, cmd, args...)
	return err
}
