package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for scoperag resources.
	uriScheme = "scoperag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "State of the loaded corpus and index",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "entries/{position}",
		Name:        "entry",
		Description: "A single question-answer pair by corpus position",
		MIMEType:    "application/json",
	}, s.handleEntryResource)
}

// statsInfo is the JSON form of domain.IndexStats.
type statsInfo struct {
	Built      bool   `json:"built"`
	Entries    int    `json:"entries"`
	Dimensions int    `json:"dimensions"`
	Model      string `json:"model"`
	LoadedAt   string `json:"loaded_at,omitempty"`
}

// entryInfo is the JSON form of a corpus entry.
type entryInfo struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// handleStatsResource returns the current index statistics.
func (s *Server) handleStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats := s.ports.Retrieval.Stats()

	info := statsInfo{
		Built:      stats.Built,
		Entries:    stats.Entries,
		Dimensions: stats.Dimensions,
		Model:      stats.Model,
	}
	if !stats.LoadedAt.IsZero() {
		info.LoadedAt = stats.LoadedAt.UTC().Format(time.RFC3339)
	}

	return jsonResult(req.Params.URI, info)
}

// handleEntryResource returns one entry of the loaded corpus.
func (s *Server) handleEntryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	position, ok := extractPosition(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entry, err := s.ports.Retrieval.Entry(position)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrIndexNotBuilt) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return jsonResult(req.Params.URI, entryInfo{
		Position: position,
		Question: entry.Question,
		Answer:   entry.Answer,
	})
}

// jsonResult wraps v as a single JSON resource content.
func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPosition extracts the position from a URI like scoperag://entries/{position}.
func extractPosition(uri string) (int, bool) {
	const prefix = uriScheme + "entries/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	position, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || position < 0 {
		return 0, false
	}
	return position, true
}
