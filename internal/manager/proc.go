package manager

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
)

// processInfo is one row of an OS-wide process listing.
type processInfo struct {
	PID     int
	Name    string
	Cmdline string
}

// matches reports whether the lower-cased signature occurs in the process
// name or command line.
func (p processInfo) matches(signature string) bool {
	if signature == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.Name), signature) ||
		strings.Contains(strings.ToLower(p.Cmdline), signature)
}

// processController is the platform capability set used for termination.
// GracefulStop and ForceKill act on the whole process group of pid where the
// platform supports it, and return errProcessGone or errPermission for those
// outcomes.
type processController interface {
	GracefulStop(pid int) error
	ForceKill(pid int) error
	Alive(pid int) bool
	Enumerate(ctx context.Context) ([]processInfo, error)
}

// parsePSOutput joins two `ps -axww -o pid=,<col>=` listings, one with the
// command name and one with the full command line, by pid. Rows appear in the
// order of the names listing.
func parsePSOutput(names, args []byte) []processInfo {
	order, nameByPID := parsePSColumn(names)
	_, argsByPID := parsePSColumn(args)
	out := make([]processInfo, 0, len(order))
	for _, pid := range order {
		out = append(out, processInfo{PID: pid, Name: nameByPID[pid], Cmdline: argsByPID[pid]})
	}
	return out
}

// parsePSColumn reads rows of a pid followed by a single value column. The
// value is the rest of the line, so paths with spaces stay intact. Rows that
// do not start with a positive pid are skipped.
func parsePSColumn(b []byte) ([]int, map[int]string) {
	var order []int
	values := make(map[int]string)
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		head, rest, _ := strings.Cut(line, " ")
		pid, err := strconv.Atoi(head)
		if err != nil || pid <= 0 {
			continue
		}
		if _, seen := values[pid]; !seen {
			order = append(order, pid)
		}
		values[pid] = strings.TrimSpace(rest)
	}
	return order, values
}

// parseTasklistCSV parses `tasklist /FO CSV /NH` output:
// "ollama.exe","1234","Console","1","10,240 K".
func parseTasklistCSV(b []byte) []processInfo {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil && len(rows) == 0 {
		return nil
	}
	out := make([]processInfo, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || pid <= 0 {
			continue
		}
		out = append(out, processInfo{PID: pid, Name: row[0], Cmdline: row[0]})
	}
	return out
}
