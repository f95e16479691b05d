// Package fixture generates synthetic witness data directories in the layout
// read by the prover package. Values are consistent with each other under
// MiMC over BN254, which makes them useful for exercising the toolchain end to
// end, but they will not satisfy the vote circuit itself.
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/accumulator/merkletree"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/logger"

	"github.com/vocdoni/witness2toml/prover"
)

// MaxDepth bounds the generated tree to 2^20 leaves.
const MaxDepth = 20

// Config describes the fixture to generate.
type Config struct {
	DataDir    string
	Depth      int
	LeafIndex  uint64
	ProposalID string
	VoteType   string
}

// DefaultConfig returns a depth 8 tree with the commitment in the first leaf,
// voting for proposal 0.
func DefaultConfig() Config {
	return Config{
		DataDir:    "data",
		Depth:      8,
		LeafIndex:  0,
		ProposalID: "0",
		VoteType:   "1",
	}
}

// Witness holds the generated values, formatted as they are written to disk.
type Witness struct {
	CommitmentHash   string
	NulifierHash     string
	Root             string
	Nulifier         string
	Secret           string
	ProposalID       string
	VoteType         string
	ProofSiblings    []string
	ProofPathIndices []string
}

// Generate samples a fresh nulifier and secret, places their commitment in a
// random MiMC Merkle tree and writes the resulting witness files to
// cfg.DataDir.
func Generate(cfg Config) (*Witness, error) {
	if cfg.Depth < 1 || cfg.Depth > MaxDepth {
		return nil, fmt.Errorf("tree depth %d out of range [1, %d]", cfg.Depth, MaxDepth)
	}
	numLeaves := uint64(1) << cfg.Depth
	if cfg.LeafIndex >= numLeaves {
		return nil, fmt.Errorf("leaf index %d out of range for %d leaves", cfg.LeafIndex, numLeaves)
	}

	var nulifier, secret fr.Element
	if _, err := nulifier.SetRandom(); err != nil {
		return nil, fmt.Errorf("failed to sample nulifier: %w", err)
	}
	if _, err := secret.SetRandom(); err != nil {
		return nil, fmt.Errorf("failed to sample secret: %w", err)
	}
	commitment, err := hashElements(&nulifier, &secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash commitment: %w", err)
	}
	nulifierHash, err := hashElements(&nulifier)
	if err != nil {
		return nil, fmt.Errorf("failed to hash nulifier: %w", err)
	}

	var leaves bytes.Buffer
	leaves.Grow(int(numLeaves) * fr.Bytes)
	for i := uint64(0); i < numLeaves; i++ {
		if i == cfg.LeafIndex {
			leaves.Write(commitment)
			continue
		}
		var leaf fr.Element
		if _, err := leaf.SetRandom(); err != nil {
			return nil, fmt.Errorf("failed to sample leaf %d: %w", i, err)
		}
		b := leaf.Bytes()
		leaves.Write(b[:])
	}

	root, proofSet, n, err := merkletree.BuildReaderProof(&leaves, mimc.NewMiMC(), fr.Bytes, cfg.LeafIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to build merkle proof: %w", err)
	}
	// proofSet[0] is the leaf itself, the siblings follow from the bottom up
	if n != numLeaves || len(proofSet) != cfg.Depth+1 {
		return nil, fmt.Errorf("unexpected merkle proof: %d leaves, %d path elements", n, len(proofSet))
	}

	w := &Witness{
		CommitmentHash:   toHex(commitment),
		NulifierHash:     toHex(nulifierHash),
		Root:             toHex(root),
		Nulifier:         elementHex(&nulifier),
		Secret:           elementHex(&secret),
		ProposalID:       cfg.ProposalID,
		VoteType:         cfg.VoteType,
		ProofSiblings:    make([]string, cfg.Depth),
		ProofPathIndices: make([]string, cfg.Depth),
	}
	for i := 0; i < cfg.Depth; i++ {
		w.ProofSiblings[i] = toHex(proofSet[i+1])
		w.ProofPathIndices[i] = strconv.FormatUint((cfg.LeafIndex>>i)&1, 10)
	}

	if err := w.WriteFiles(cfg.DataDir); err != nil {
		return nil, err
	}
	return w, nil
}

// WriteFiles writes one file per prover.Schema entry into dir, creating dir
// if needed. Existing files are overwritten.
func (w *Witness) WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	log := logger.Logger()
	values := w.values()
	for _, f := range prover.Schema {
		content := values[f.Key]
		if f.Kind == prover.Scalar {
			content += "\n"
		}
		path := filepath.Join(dir, f.File)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Debug().Str("key", f.Key).Str("path", path).Msg("wrote fixture")
	}
	return nil
}

func (w *Witness) values() map[string]string {
	return map[string]string{
		"commitmentHash":   w.CommitmentHash,
		"nulifierHash":     w.NulifierHash,
		"root":             w.Root,
		"nulifier":         w.Nulifier,
		"secret":           w.Secret,
		"proposalId":       w.ProposalID,
		"voteType":         w.VoteType,
		"proofSiblings":    joinLines(w.ProofSiblings),
		"proofPathIndices": joinLines(w.ProofPathIndices),
	}
}

func joinLines(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
