package cli

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// executeWithInput runs the root command with args, feeding input on stdin.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	origTerminal := isTerminal
	isTerminal = func(uintptr) bool { return false }

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		isTerminal = origTerminal
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty key", "", "****"},
		{"short key", "abc123", "****"},
		{"exactly 8 chars", "12345678", "****"},
		{"openai key", "sk-1234567890abcdef", "sk-1...cdef"},
		{"project key", "sk-proj-1234567890abcdefghijklmnop", "sk-p...mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskAPIKey(tt.input))
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		want       int
	}{
		{"empty input returns default", "", 5, 1, 1},
		{"valid choice", "3", 5, 1, 3},
		{"below minimum", "0", 5, 1, 1},
		{"above maximum", "6", 5, 1, 1},
		{"not a number", "abc", 5, 2, 2},
		{"negative", "-1", 5, 1, 1},
		{"maximum is valid", "5", 5, 1, 5},
		{"minimum is valid", "1", 5, 3, 1},
		{"k above wizard limit keeps default k", "101", 100, 3, 3},
		{"k at wizard limit", "100", 100, 3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestReadLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  ./scope_final.txt \r\n"))

	assert.Equal(t, "./scope_final.txt", readLine(reader))
	assert.Equal(t, "", readLine(reader), "EOF yields an empty line")
}

func TestReadPassword_NotTerminal(t *testing.T) {
	origTerminal := isTerminal
	isTerminal = func(uintptr) bool { return false }
	t.Cleanup(func() { isTerminal = origTerminal })

	reader := bufio.NewReader(strings.NewReader("sk-test-key\n"))

	assert.Equal(t, "sk-test-key", readPassword(reader))
}

func TestSettingsWizard_SavesCorpusPathAndK(t *testing.T) {
	setupTestServices(t, clubCorpus)
	newPath := filepath.Join(t.TempDir(), "faq.txt")

	out, err := executeWithInput(t, "1\n\n"+newPath+"\n7\n", "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "Embedding provider configured")
	assert.Contains(t, out, "Configuration Complete!")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "all-minilm", settings.Embedding.Model)
	assert.Equal(t, newPath, settings.Corpus.Path)
	assert.Equal(t, 7, settings.Query.DefaultK)
}

func TestSettingsWizard_EmptyInputKeepsDefaults(t *testing.T) {
	path := setupTestServices(t, clubCorpus)

	_, err := executeWithInput(t, "\n\n\n\n", "settings", "wizard")

	require.NoError(t, err)
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, path, settings.Corpus.Path)
	assert.Equal(t, domain.DefaultK, settings.Query.DefaultK)
}

func TestSettingsEmbedding_OpenAIRequiresKey(t *testing.T) {
	setupTestServices(t, clubCorpus)

	_, err := executeWithInput(t, "2\n\n\n", "settings", "embedding")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsEmbedding_OpenAI(t *testing.T) {
	setupTestServices(t, clubCorpus)

	out, err := executeWithInput(t, "2\ntext-embedding-3-small\nsk-1234567890abcdef\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "text-embedding-3-small")
	assert.NotContains(t, out, "sk-1234567890abcdef")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "sk-1234567890abcdef", settings.Embedding.APIKey)
}
