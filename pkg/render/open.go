package render

import (
	"context"
	"os/exec"
	"runtime"
)

// Viewer displays a rendered file.
type Viewer interface {
	View(ctx context.Context, path string) error
}

// Opener opens files with the platform's default application.
type Opener struct{}

// View starts the platform opener for path without waiting for it to exit.
// The opener outlives ctx; its process is reaped in the background.
func (Opener) View(ctx context.Context, path string) error {
	_, err := startDetached(ctx, openCommand(path))
	return err
}

func openCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

// startDetached starts cmd and waits for it in a goroutine so the process
// never lingers as a zombie. The returned channel yields the exit result.
func startDetached(ctx context.Context, cmd *exec.Cmd) (<-chan error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return done, nil
}
