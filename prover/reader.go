package prover

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"os"
	"strings"
)

// ReadFirstLine returns the first line of the file at path without its line
// terminator. Anything after the first line is ignored and an empty file
// yields an empty string.
func ReadFirstLine(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return "", &InputReadError{Path: path, Err: err}
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", &InputReadError{Path: path, Err: err}
	}
	return trimLineEnd(line), nil
}

// Lines returns a single-use sequence over the lines of r. Line terminators
// are stripped and the content is otherwise passed through untouched. A read
// error is yielded once and ends the sequence.
func Lines(r io.Reader) iter.Seq2[string, error] {
	br := bufio.NewReader(r)
	return func(yield func(string, error) bool) {
		for {
			line, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				yield("", err)
				return
			}
			if len(line) > 0 && !yield(trimLineEnd(line), nil) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

func trimLineEnd(s string) string {
	return strings.TrimRight(s, "\r\n")
}
