package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the question to answer from the corpus"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of answers to return (default from settings)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Results []QueryResultOutput `json:"results"`
	Count   int                 `json:"count"`
}

// QueryResultOutput represents a single matched Q&A pair.
type QueryResultOutput struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

// ReloadInput is the (empty) input schema for the reload tool.
type ReloadInput struct{}

// ReloadOutput reports the outcome of a corpus reload.
type ReloadOutput struct {
	Entries    int   `json:"entries"`
	Skipped    int   `json:"skipped"`
	Dimensions int   `json:"dimensions"`
	DurationMS int64 `json:"duration_ms"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Find the question-answer pairs most similar to a question",
	}, s.handleQuery)

	if s.ports.Corpus != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "reload",
			Description: "Re-read the corpus file and rebuild the index",
		}, s.handleReload)
	}
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	results, err := s.ports.Retrieval.Query(ctx, input.Query, input.K)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Results: make([]QueryResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = QueryResultOutput{
			Question: results[i].Entry.Question,
			Answer:   results[i].Entry.Answer,
			Score:    results[i].Score,
			Position: results[i].Position,
		}
	}

	return nil, output, nil
}

// handleReload handles the reload tool invocation.
func (s *Server) handleReload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ReloadInput,
) (*mcp.CallToolResult, ReloadOutput, error) {
	report, err := s.ports.Corpus.Load(ctx)
	if err != nil {
		return nil, ReloadOutput{}, err
	}

	return nil, ReloadOutput{
		Entries:    report.Entries,
		Skipped:    report.Skipped,
		Dimensions: report.Dimensions,
		DurationMS: report.Duration.Milliseconds(),
	}, nil
}
