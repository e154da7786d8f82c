//go:build windows

package manager

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

// windowsController terminates process trees with taskkill.
type windowsController struct{}

func newProcessController() processController { return windowsController{} }

func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

func (windowsController) GracefulStop(pid int) error { return taskkill(pid, false) }

func (windowsController) ForceKill(pid int) error { return taskkill(pid, true) }

func taskkill(pid int, force bool) error {
	args := []string{"/T", "/PID", strconv.Itoa(pid)}
	if force {
		args = append([]string{"/F"}, args...)
	}
	out, err := exec.Command("taskkill", args...).CombinedOutput()
	if err == nil {
		return nil
	}
	msg := strings.ToLower(string(out))
	switch {
	case strings.Contains(msg, "not found"):
		return errProcessGone
	case strings.Contains(msg, "access is denied"):
		return errPermission
	}
	return fmt.Errorf("taskkill %d: %w: %s", pid, err, strings.TrimSpace(string(out)))
}

func (windowsController) Alive(pid int) bool {
	out, err := exec.Command("tasklist", "/FI", fmt.Sprintf("PID eq %d", pid), "/FO", "CSV", "/NH").Output()
	if err != nil {
		return false
	}
	for _, p := range parseTasklistCSV(out) {
		if p.PID == pid {
			return true
		}
	}
	return false
}

func (windowsController) Enumerate(ctx context.Context) ([]processInfo, error) {
	out, err := exec.CommandContext(ctx, "tasklist", "/FO", "CSV", "/NH").Output()
	if err != nil && len(out) == 0 {
		return nil, err
	}
	return parseTasklistCSV(out), nil
}
