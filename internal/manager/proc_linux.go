//go:build linux

package manager

import (
	"context"
	"strings"

	"github.com/prometheus/procfs"
)

// enumerateProcesses lists processes from /proc. Processes that vanish or
// deny access mid-scan are skipped.
func enumerateProcesses(ctx context.Context) ([]processInfo, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, err
	}
	procs, err := fs.AllProcs()
	if err != nil {
		return nil, err
	}
	out := make([]processInfo, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		comm, err := p.Comm()
		if err != nil {
			continue
		}
		args, _ := p.CmdLine()
		out = append(out, processInfo{PID: p.PID, Name: comm, Cmdline: strings.Join(args, " ")})
	}
	return out, nil
}

// isZombie reports whether pid has exited but not been reaped yet.
func isZombie(pid int) bool {
	p, err := procfs.NewProc(pid)
	if err != nil {
		return false
	}
	st, err := p.Stat()
	if err != nil {
		return false
	}
	return st.State == "Z" || st.State == "X"
}
