package prover

import (
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/consensys/gnark/logger"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// StdoutPath as Config.OutputPath sends the document to Config.Stdout.
const StdoutPath = "-"

// Config holds the locations used by Convert.
type Config struct {
	// DataDir contains the witness files listed in Schema.
	DataDir string
	// OutputPath is the Prover.toml to replace, or StdoutPath.
	OutputPath string
	// Stdout receives the document when OutputPath is StdoutPath. A nil
	// Stdout means os.Stdout.
	Stdout io.Writer
}

// DefaultConfig returns the layout used by the voting project: witness files
// under data/ and the circuit input at circuits/Prover.toml, both relative to
// the working directory.
func DefaultConfig() Config {
	return Config{
		DataDir:    "data",
		OutputPath: filepath.Join("circuits", "Prover.toml"),
		Stdout:     os.Stdout,
	}
}

// Convert reads every file in Schema from cfg.DataDir and writes them as a
// Prover.toml document to cfg.OutputPath. Input problems are reported as
// *InputReadError and output problems as *OutputWriteError. The output file
// is replaced atomically, so a failed run leaves any previous file in place.
func Convert(cfg Config) error {
	log := logger.Logger()

	scalars := make(map[string]string, len(Schema))
	for _, f := range Schema {
		if f.Kind != Scalar {
			continue
		}
		path := filepath.Join(cfg.DataDir, f.File)
		value, err := ReadFirstLine(path)
		if err != nil {
			return err
		}
		log.Debug().Str("key", f.Key).Str("path", path).Msg("read scalar")
		scalars[f.Key] = value
	}

	lists := make(map[string]iter.Seq2[string, error], len(Schema)-len(scalars))
	for _, f := range Schema {
		if f.Kind == Scalar {
			continue
		}
		path := filepath.Join(cfg.DataDir, f.File)
		file, err := os.Open(path) //nolint:gosec
		if err != nil {
			return &InputReadError{Path: path, Err: err}
		}
		defer file.Close()
		log.Debug().Str("key", f.Key).Str("path", path).Msg("opened list")
		lists[f.Key] = inputLines(path, file)
	}

	return writeDocument(cfg, log, func(enc *Encoder) error {
		for _, f := range Schema {
			var err error
			switch f.Kind {
			case Scalar:
				err = enc.WriteScalar(f.Key, scalars[f.Key])
			case QuotedList:
				err = enc.WriteList(f.Key, lists[f.Key], true)
			case BareList:
				err = enc.WriteList(f.Key, lists[f.Key], false)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// inputLines tags read errors from r with the path they came from.
func inputLines(path string, r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for line, err := range Lines(r) {
			if err != nil {
				yield("", &InputReadError{Path: path, Err: err})
				return
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

func writeDocument(cfg Config, log zerolog.Logger, render func(*Encoder) error) error {
	path := cfg.OutputPath
	if path == StdoutPath {
		stdout := cfg.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		enc := NewEncoder(stdout)
		if err := render(enc); err != nil {
			return outputError(path, err)
		}
		if err := enc.Flush(); err != nil {
			return &OutputWriteError{Path: path, Err: err}
		}
		return nil
	}

	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(0o644),
	)
	if err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	defer func() {
		// no-op once the file has been committed
		if err := pending.Cleanup(); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("cleanup pending output")
		}
	}()

	enc := NewEncoder(pending)
	if err := render(enc); err != nil {
		return outputError(path, err)
	}
	if err := enc.Flush(); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	log.Debug().Str("path", path).Msg("wrote output")
	return nil
}

// outputError keeps input failures surfaced while rendering as they are and
// attributes everything else to the output.
func outputError(path string, err error) error {
	var inErr *InputReadError
	if errors.As(err, &inErr) {
		return err
	}
	return &OutputWriteError{Path: path, Err: err}
}
