//go:build !windows

package manager

import (
	"context"
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// unixController signals process groups. Runtime subprocesses are started as
// group leaders, so signalling -pgid reaches their descendants too; any other
// process is signalled on its own.
type unixController struct {
	selfPgid int
}

func newProcessController() processController {
	return &unixController{selfPgid: unix.Getpgrp()}
}

// configureProcessGroup makes the child the leader of a new process group.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func (c *unixController) GracefulStop(pid int) error { return c.signal(pid, unix.SIGTERM) }

func (c *unixController) ForceKill(pid int) error { return c.signal(pid, unix.SIGKILL) }

func (c *unixController) signal(pid int, sig syscall.Signal) error {
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		return mapErrno(err)
	}
	// Only a group leader takes its group down with it. Members of a group
	// led by something else (a shell pipeline, a supervisor, this process)
	// get the signal alone.
	if pgid != pid || pgid == c.selfPgid || pgid <= 1 {
		return mapErrno(unix.Kill(pid, sig))
	}
	return mapErrno(unix.Kill(-pgid, sig))
}

func (c *unixController) Alive(pid int) bool {
	if err := unix.Kill(pid, 0); err != nil && !errors.Is(err, unix.EPERM) {
		return false
	}
	return !isZombie(pid)
}

func (c *unixController) Enumerate(ctx context.Context) ([]processInfo, error) {
	return enumerateProcesses(ctx)
}

func mapErrno(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ESRCH):
		return errProcessGone
	case errors.Is(err, unix.EPERM):
		return errPermission
	}
	return err
}
