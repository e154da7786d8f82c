// Package registry lists the models known to the local runtime by parsing
// the table printed by `<runtime> list`.
package registry

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"mopra/pkg/types"
)

// listTimeout bounds a single `<runtime> list` invocation.
const listTimeout = 15 * time.Second

var sizeUnits = map[string]bool{"B": true, "KB": true, "MB": true, "GB": true, "TB": true}

// List runs `<bin> list` and parses its output.
func List(ctx context.Context, bin string) ([]types.Model, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "list")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s list: %w: %s", bin, err, msg)
		}
		return nil, fmt.Errorf("%s list: %w", bin, err)
	}
	return Parse(bytes.NewReader(out))
}

// Parse reads a `NAME ID SIZE MODIFIED` table. The header line and blank
// lines are skipped; SIZE may be split as "4.7 GB".
func Parse(r io.Reader) ([]types.Model, error) {
	var models []types.Model
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.EqualFold(fields[0], "NAME") {
			continue
		}
		m := types.Model{ID: fields[0]}
		m.Name, m.Tag, _ = strings.Cut(m.ID, ":")
		rest := fields[1:]
		if len(rest) > 0 {
			m.Digest, rest = rest[0], rest[1:]
		}
		if len(rest) > 0 {
			m.Size, rest = rest[0], rest[1:]
			if len(rest) > 0 && sizeUnits[strings.ToUpper(rest[0])] {
				m.Size += " " + rest[0]
				rest = rest[1:]
			}
		}
		m.Modified = strings.Join(rest, " ")
		models = append(models, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read model list: %w", err)
	}
	return models, nil
}
