package speech

import (
	"os/exec"

	"github.com/banter-app/banter-cli/pkg/logger"
)

// ExecPlayer plays audio by shelling out to a media binary. Playback runs
// in the background; the done callback fires when the process exits.
type ExecPlayer struct {
	path string
	args []string
}

func (p *ExecPlayer) Play(url string, done func()) error {
	args := append(append([]string(nil), p.args...), url)
	cmd := exec.Command(p.path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("Player exited with error", "error", err)
		}
		done()
	}()
	return nil
}

// FindPlayer locates a playback binary on PATH and returns a player over
// it, or nil when the machine has none installed.
func FindPlayer() Player {
	candidates := []struct {
		name string
		args []string
	}{
		{"afplay", nil},
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
		{"mpv", []string{"--no-video", "--really-quiet"}},
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return &ExecPlayer{path: path, args: c.args}
		}
	}
	return nil
}
