package prover

import "fmt"

// FieldKind tells the encoder how an entry of Prover.toml is rendered.
type FieldKind int

const (
	// Scalar is a single line rendered as key = "value".
	Scalar FieldKind = iota
	// QuotedList is a multi-line input rendered as an array of strings.
	QuotedList
	// BareList is a multi-line input rendered as an array of unquoted values.
	BareList
)

// Field binds a Prover.toml key to the data file it is read from.
type Field struct {
	Key  string
	File string
	Kind FieldKind
}

// Schema is the ordered list of entries written to Prover.toml. The order is
// kept stable so that regenerated files diff cleanly.
var Schema = []Field{
	{Key: "commitmentHash", File: "commitmentHash.txt", Kind: Scalar},
	{Key: "nulifierHash", File: "nulifierHash.txt", Kind: Scalar},
	{Key: "root", File: "root.txt", Kind: Scalar},
	{Key: "nulifier", File: "nulifier.txt", Kind: Scalar},
	{Key: "secret", File: "secret.txt", Kind: Scalar},
	{Key: "proposalId", File: "proposalId.txt", Kind: Scalar},
	{Key: "voteType", File: "voteType.txt", Kind: Scalar},
	{Key: "proofSiblings", File: "proofSiblings.txt", Kind: QuotedList},
	{Key: "proofPathIndices", File: "proofPathIndices.txt", Kind: BareList},
}

// InputReadError is returned when a required data file is missing or cannot
// be read.
type InputReadError struct {
	Path string
	Err  error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("failed to read input %s: %v", e.Path, e.Err)
}

func (e *InputReadError) Unwrap() error { return e.Err }

// OutputWriteError is returned when Prover.toml cannot be created or written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("failed to write output %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }
