// Package prover assembles the witness data files produced by the voting
// client into the Prover.toml input consumed by nargo.
package prover

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

const listIndent = "    "

// Encoder writes Prover.toml entries. Values are written verbatim: nothing is
// escaped or validated.
type Encoder struct {
	w        *bufio.Writer
	lastList bool
}

// NewEncoder returns an Encoder buffering its output to w. Callers must call
// Flush once all entries are written.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// WriteScalar writes a `key = "value"` line.
func (e *Encoder) WriteScalar(key, value string) error {
	e.lastList = false
	_, err := fmt.Fprintf(e.w, "%s = \"%s\"\n", key, value)
	return err
}

// WriteList writes an array block with one element per line. Elements are
// quoted when quoted is set. A blank line is inserted before the block when
// the previous entry was also a list. Errors yielded by values are returned
// unchanged.
func (e *Encoder) WriteList(key string, values iter.Seq2[string, error], quoted bool) error {
	if e.lastList {
		if err := e.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	e.lastList = true

	if _, err := fmt.Fprintf(e.w, "%s = [\n", key); err != nil {
		return err
	}
	format := listIndent + "%s,\n"
	if quoted {
		format = listIndent + "\"%s\",\n"
	}
	for v, err := range values {
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(e.w, format, v); err != nil {
			return err
		}
	}
	_, err := e.w.WriteString("]\n")
	return err
}

// Flush writes any buffered data to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}
