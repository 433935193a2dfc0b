// ABOUTME: MCP tool definitions and registration for the QA stdio server
// ABOUTME: Exposes answering and knowledge search to MCP clients
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nattapong/healthqa/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, answerer *core.Answerer, cache *core.CacheManager) *Handlers {
	handlers := &Handlers{
		answerer: answerer,
		cache:    cache,
	}

	server.AddTool(mcp.Tool{
		Name:        "answer_question",
		Description: "Answer a Thai healthcare question. Multiple-choice questions return choice labels; open-ended questions return free text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question text, optionally with ก./ข./ค./ง. choices",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AnswerQuestion)

	server.AddTool(mcp.Tool{
		Name:        "search_knowledge",
		Description: "Search the learned knowledge cache for facts relevant to a query.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of facts to return (default: 3)",
					"default":     3,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchKnowledge)

	server.AddTool(mcp.Tool{
		Name:        "knowledge_stats",
		Description: "Summarize the knowledge cache: total facts, per-type counts, oldest and newest entries.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.KnowledgeStats)

	return handlers
}
