package cli

import (
	"bytes"
	"context"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scoperag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/core/services"
	"github.com/custodia-labs/scoperag/internal/logger"
)

const clubCorpus = `Q: When are meetings?
A: Every Tuesday at 6pm in room 204.

Q: How much are dues?
A: Twenty dollars per semester.

this block is not an entry

Q: Who is the president?
A: Jordan Lee.
`

// hashEmbedder maps each word to a bucket and L2-normalises the counts.
type hashEmbedder struct{}

const hashDims = 256

func (hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, hashDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(strings.Trim(w, "?.,!:"))) //nolint:errcheck // hash writes never fail
		vec[h.Sum32()%hashDims]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	return vec, nil
}

func (e hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (hashEmbedder) Dimensions() int              { return hashDims }
func (hashEmbedder) ModelName() string            { return "word-hash" }
func (hashEmbedder) Ping(_ context.Context) error { return nil }
func (hashEmbedder) Close() error                 { return nil }

// setupTestServices points the CLI at an in-memory config and a fake
// embedder. corpusText is written to a temp file used as corpus.path.
func setupTestServices(t *testing.T, corpusText string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(corpusText), 0o600))

	store := memory.NewConfigStoreFrom(map[string]any{"corpus.path": path})
	origSettings, origRuntime := settingsService, newRuntime
	settingsService = services.NewSettingsService(store, nil)
	newRuntime = func(_ context.Context, settings *domain.AppSettings) (*runtime, error) {
		return assembleRuntime(settings, hashEmbedder{}, nil), nil
	}

	t.Cleanup(func() {
		settingsService, newRuntime = origSettings, origRuntime
		resetFlags()
	})
	return path
}

func resetFlags() {
	queryK, queryJSON, queryCorpus = 0, false, ""
	checkJSON = false
	serveAddr, serveCorpus, serveWatch = "", "", false
	mcpCorpus, tuiCorpus = "", ""
	verbose, noConfig, configDir = false, false, ""
	logger.SetVerbose(false)
	logger.ShowInfo(false)
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
