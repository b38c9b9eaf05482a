// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the recipe collection as tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shiralev/matkonim/internal/models"
	"github.com/shiralev/matkonim/internal/recipeservice"
	"github.com/shiralev/matkonim/internal/store"
)

// Server wraps the MCP server with recipe tools.
type Server struct {
	mcp *server.MCPServer
	svc *recipeservice.Service
}

// New creates a new MCP server with all recipe tools registered.
func New(svc *recipeservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Matkonim",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_recipes",
		mcp.WithDescription("Full-text search through saved recipes: titles, descriptions, ingredients, instructions, and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecipes)

	s.mcp.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List all saved recipes."),
		mcp.WithString("sort", mcp.Description("Sort order: newest (default), oldest, or title")),
	), s.listRecipes)

	s.mcp.AddTool(mcp.NewTool("extract_recipe",
		mcp.WithDescription("Extract a structured recipe from a web page URL. Returns a preview; nothing is saved."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL of the recipe page")),
	), s.extractRecipe)

	s.mcp.AddTool(mcp.NewTool("save_recipe",
		mcp.WithDescription("Persist a recipe record. Pass the JSON object returned by extract_recipe, optionally edited."),
		mcp.WithString("recipe", mcp.Required(), mcp.Description("Recipe record as a JSON object")),
	), s.saveRecipe)

	s.mcp.AddTool(mcp.NewTool("delete_recipe",
		mcp.WithDescription("Delete a saved recipe by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id")),
	), s.deleteRecipe)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sort := store.SortNewest
	if v, err := req.RequireString("sort"); err == nil && v != "" {
		sort = v
	}
	recipes, err := s.svc.List(ctx, sort)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(recipes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) extractRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.ExtractFromURL(ctx, rawURL)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("recipe")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var rec models.Recipe
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid recipe JSON: %v", err)), nil
	}
	saved, err := s.svc.Save(ctx, &rec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s (%s)", saved.Title, saved.ID)), nil
}

func (s *Server) deleteRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	found, err := s.svc.Delete(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}
