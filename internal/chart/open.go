package chart

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open shows the image at path in the platform's default viewer.
// It returns once the viewer has been launched.
func Open(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	go cmd.Wait() //nolint: errcheck
	return nil
}
