package services

import (
	"strings"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// Corpus text markers.
const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	blockSeparator = "\n\n"
)

// ParseReport describes how a corpus text was split into entries.
type ParseReport struct {
	// Blocks is the number of non-empty blocks seen.
	Blocks int

	// Skipped is the number of non-empty blocks that did not form an entry.
	Skipped int

	// SkippedLines holds the 1-based starting line of every skipped block.
	SkippedLines []int
}

// block is a trimmed, non-empty chunk of corpus text.
type block struct {
	lines []string
	line  int
}

// ParseCorpus converts raw corpus text into an ordered Corpus.
//
// Entries are separated by a blank line. Within a block the first line
// must start with "Q:" and the remaining lines, joined with single spaces
// and trimmed, must start with "A:". Indentation inside a multi-line
// answer is kept. A block holding only a "Q:" line is paired with
// an immediately following block whose first line starts with "A:".
//
// Blocks that do not qualify are skipped and counted; parsing never fails.
// Empty input yields an empty Corpus.
func ParseCorpus(text string) (domain.Corpus, ParseReport) {
	blocks := splitBlocks(text)
	corpus := make(domain.Corpus, 0, len(blocks))
	report := ParseReport{Blocks: len(blocks)}

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]

		if entry, ok := parseBlock(b.lines); ok {
			corpus = append(corpus, entry)
			continue
		}

		if len(b.lines) == 1 && i+1 < len(blocks) {
			merged := append([]string{b.lines[0]}, blocks[i+1].lines...)
			if entry, ok := parseBlock(merged); ok {
				corpus = append(corpus, entry)
				i++
				continue
			}
		}

		report.Skipped++
		report.SkippedLines = append(report.SkippedLines, b.line)
	}

	return corpus, report
}

// FormatCorpus renders a corpus in the canonical text layout accepted
// by ParseCorpus.
func FormatCorpus(corpus domain.Corpus) string {
	var sb strings.Builder
	for i, e := range corpus {
		if i > 0 {
			sb.WriteString(blockSeparator)
		}
		sb.WriteString(questionPrefix + " " + e.Question + "\n")
		sb.WriteString(answerPrefix + " " + e.Answer)
	}
	return sb.String()
}

// splitBlocks splits text on blank lines and drops blocks that are
// empty after trimming. Inner lines keep their whitespace.
func splitBlocks(text string) []block {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []block
	line := 1
	for _, raw := range strings.Split(text, blockSeparator) {
		start := line
		line += strings.Count(raw, "\n") + 2

		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		// Leading newlines trimmed away shift the block's first line.
		start += strings.Count(raw[:strings.Index(raw, trimmed)], "\n")

		blocks = append(blocks, block{lines: strings.Split(trimmed, "\n"), line: start})
	}
	return blocks
}

// parseBlock builds an entry from the lines of one block.
func parseBlock(lines []string) (domain.Entry, bool) {
	if len(lines) < 2 {
		return domain.Entry{}, false
	}

	question := strings.TrimSpace(lines[0])
	answer := strings.TrimSpace(strings.Join(lines[1:], " "))

	if !strings.HasPrefix(question, questionPrefix) || !strings.HasPrefix(answer, answerPrefix) {
		return domain.Entry{}, false
	}

	return domain.Entry{
		Question: strings.TrimSpace(strings.TrimPrefix(question, questionPrefix)),
		Answer:   strings.TrimSpace(strings.TrimPrefix(answer, answerPrefix)),
	}, true
}
