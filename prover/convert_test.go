package prover

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expectedProverToml = `commitmentHash = "0x01"
nulifierHash = "0x02"
root = "0xAB"
nulifier = "0x03"
secret = "0x04"
proposalId = "7"
voteType = "1"
proofSiblings = [
    "0x10",
    "0x11",
]

proofPathIndices = [
    0,
    1,
]
`

func sampleInputs() map[string]string {
	return map[string]string{
		"root.txt":             "0xAB\n",
		"commitmentHash.txt":   "0x01\n",
		"nulifierHash.txt":     "0x02\n",
		"nulifier.txt":         "0x03\n",
		"secret.txt":           "0x04\n",
		"proposalId.txt":       "7\n",
		"voteType.txt":         "1\n",
		"proofSiblings.txt":    "0x10\n0x11\n",
		"proofPathIndices.txt": "0\n1\n",
	}
}

// setup lays out a working tree with data/ and circuits/ and returns its
// config.
func setup(t *testing.T, inputs map[string]string) Config {
	t.Helper()
	root := t.TempDir()
	cfg := Config{
		DataDir:    filepath.Join(root, "data"),
		OutputPath: filepath.Join(root, "circuits", "Prover.toml"),
	}
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755))
	for name, content := range inputs {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, name), []byte(content), 0o644))
	}
	return cfg
}

func readOutput(t *testing.T, cfg Config) string {
	t.Helper()
	out, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	return string(out)
}

func TestConvert(t *testing.T) {
	cfg := setup(t, sampleInputs())

	require.NoError(t, Convert(cfg))

	if diff := cmp.Diff(expectedProverToml, readOutput(t, cfg)); diff != "" {
		t.Errorf("unexpected Prover.toml (-want +got):\n%s", diff)
	}
}

func TestConvertIsReproducible(t *testing.T) {
	cfg := setup(t, sampleInputs())

	require.NoError(t, Convert(cfg))
	first := readOutput(t, cfg)
	require.NoError(t, Convert(cfg))
	second := readOutput(t, cfg)

	assert.Equal(t, first, second)
}

func TestConvertOverwrites(t *testing.T) {
	cfg := setup(t, sampleInputs())
	require.NoError(t, os.WriteFile(cfg.OutputPath, []byte("stale content that is longer than nothing\n"), 0o644))

	require.NoError(t, Convert(cfg))

	assert.Equal(t, expectedProverToml, readOutput(t, cfg))
}

func TestConvertTrimsTerminators(t *testing.T) {
	withNewlines := setup(t, sampleInputs())
	require.NoError(t, Convert(withNewlines))

	inputs := sampleInputs()
	for name, content := range inputs {
		inputs[name] = strings.TrimSuffix(content, "\n")
	}
	inputs["root.txt"] = "0xAB\r\n"
	bare := setup(t, inputs)
	require.NoError(t, Convert(bare))

	assert.Equal(t, readOutput(t, withNewlines), readOutput(t, bare))
}

func TestConvertIgnoresExtraScalarLines(t *testing.T) {
	inputs := sampleInputs()
	inputs["secret.txt"] = "0x04\nleftover\n"
	cfg := setup(t, inputs)

	require.NoError(t, Convert(cfg))

	assert.Equal(t, expectedProverToml, readOutput(t, cfg))
}

func TestConvertEmptyInputs(t *testing.T) {
	inputs := sampleInputs()
	inputs["voteType.txt"] = ""
	inputs["proofSiblings.txt"] = ""
	inputs["proofPathIndices.txt"] = ""
	cfg := setup(t, inputs)

	require.NoError(t, Convert(cfg))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "voteType = \"\"\n")
	assert.Contains(t, out, "proofSiblings = [\n]\n\nproofPathIndices = [\n]\n")
}

func TestConvertFieldOrder(t *testing.T) {
	cfg := setup(t, sampleInputs())
	require.NoError(t, Convert(cfg))

	var keys []string
	for _, line := range strings.Split(readOutput(t, cfg), "\n") {
		if key, _, ok := strings.Cut(line, " = "); ok {
			keys = append(keys, key)
		}
	}

	want := make([]string, 0, len(Schema))
	for _, f := range Schema {
		want = append(want, f.Key)
	}
	assert.Equal(t, want, keys)
}

func TestConvertMissingScalar(t *testing.T) {
	inputs := sampleInputs()
	delete(inputs, "secret.txt")
	cfg := setup(t, inputs)

	err := Convert(cfg)

	var inErr *InputReadError
	require.True(t, errors.As(err, &inErr), "got %v", err)
	assert.Equal(t, filepath.Join(cfg.DataDir, "secret.txt"), inErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "output must not be created")
}

func TestConvertMissingListKeepsPreviousOutput(t *testing.T) {
	inputs := sampleInputs()
	delete(inputs, "proofPathIndices.txt")
	cfg := setup(t, inputs)
	require.NoError(t, os.WriteFile(cfg.OutputPath, []byte("previous\n"), 0o644))

	err := Convert(cfg)

	var inErr *InputReadError
	require.True(t, errors.As(err, &inErr), "got %v", err)
	assert.Equal(t, filepath.Join(cfg.DataDir, "proofPathIndices.txt"), inErr.Path)
	assert.Equal(t, "previous\n", readOutput(t, cfg))
}

func TestConvertListReadError(t *testing.T) {
	cfg := setup(t, sampleInputs())
	siblings := filepath.Join(cfg.DataDir, "proofSiblings.txt")
	require.NoError(t, os.Remove(siblings))
	require.NoError(t, os.Mkdir(siblings, 0o755))

	err := Convert(cfg)

	var inErr *InputReadError
	require.True(t, errors.As(err, &inErr), "got %v", err)
	assert.Equal(t, siblings, inErr.Path)
	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestConvertMissingOutputDir(t *testing.T) {
	cfg := setup(t, sampleInputs())
	cfg.OutputPath = filepath.Join(t.TempDir(), "missing", "Prover.toml")

	err := Convert(cfg)

	var outErr *OutputWriteError
	require.True(t, errors.As(err, &outErr), "got %v", err)
	assert.Equal(t, cfg.OutputPath, outErr.Path)
	assert.Contains(t, err.Error(), cfg.OutputPath)
}

func TestConvertStdout(t *testing.T) {
	cfg := setup(t, sampleInputs())
	var buf bytes.Buffer
	cfg.OutputPath = StdoutPath
	cfg.Stdout = &buf

	require.NoError(t, Convert(cfg))

	assert.Equal(t, expectedProverToml, buf.String())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("circuits", "Prover.toml"), cfg.OutputPath)
	assert.NotNil(t, cfg.Stdout)
}

func TestConvertStdoutDefaultsToOsStdout(t *testing.T) {
	cfg := setup(t, sampleInputs())
	cfg.OutputPath = StdoutPath

	captured, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	require.NoError(t, err)
	defer captured.Close()
	orig := os.Stdout
	os.Stdout = captured
	t.Cleanup(func() { os.Stdout = orig })

	require.NoError(t, Convert(cfg))

	os.Stdout = orig
	out, err := os.ReadFile(captured.Name())
	require.NoError(t, err)
	assert.Equal(t, expectedProverToml, string(out))
}
