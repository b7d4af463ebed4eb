package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "rollkeeper"
	serverVersion = "0.1.0"
)

// Register adds every roller tool to server.
func Register(server *mcp.Server, h *Handlers) {
	mcp.AddTool(server, DiceRollTool(), h.DiceRoll)
	mcp.AddTool(server, PoolRollTool(), h.PoolRoll)
	mcp.AddTool(server, PoolExplainTool(), h.PoolExplain)
	mcp.AddTool(server, RulesVersionTool(), h.RulesVersion)
	mcp.AddTool(server, SheetCreateProfileTool(), h.SheetCreateProfile)
	mcp.AddTool(server, SheetSetDefaultTool(), h.SheetSetDefault)
	mcp.AddTool(server, SheetQueryTool(), h.SheetQuery)
	mcp.AddTool(server, SheetUpdateTool(), h.SheetUpdate)
	mcp.AddTool(server, SheetListTool(), h.SheetList)
	mcp.AddTool(server, SheetImportTool(), h.SheetImport)
	mcp.AddTool(server, SheetProfilesTool(), h.SheetProfiles)
}

// NewServer returns an MCP server exposing every roller tool.
func NewServer(h *Handlers) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	Register(server, h)
	return server
}
