// ABOUTME: MCP tool handler implementations for the QA stdio server
// ABOUTME: Tool errors are returned as tool results, not protocol failures
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nattapong/healthqa/internal/core"
	"github.com/nattapong/healthqa/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	answerer *core.Answerer
	cache    *core.CacheManager
}

// AnswerQuestion handles the answer_question tool
func (h *Handlers) AnswerQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questionText, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	q, err := models.NewQuestion("mcp", questionText)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer := h.answerer.Answer(ctx, q)
	if answer.Failed() {
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %s", answer.Error)), nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"answer":     answer.Text,
		"confidence": answer.Confidence,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

// SearchKnowledge handles the search_knowledge tool
func (h *Handlers) SearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	maxResults := request.GetInt("max_results", 3)

	facts := h.cache.SearchKnowledge(query, maxResults)

	payload, err := json.Marshal(map[string]interface{}{
		"query": query,
		"count": len(facts),
		"facts": facts,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

// KnowledgeStats handles the knowledge_stats tool
func (h *Handlers) KnowledgeStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(h.cache.Summary())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
