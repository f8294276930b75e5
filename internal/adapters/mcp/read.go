package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"postino/internal/application/commands"
	"postino/internal/resolve"
	"postino/internal/resource"
)

// RegisterReadTools adds all read-only resource tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, registry *resolve.Registry, boundary *resource.Boundary) {
	s.AddTool(readTool(), readHandler(boundary))
	s.AddTool(existsTool(), existsHandler(boundary))
	s.AddTool(schemesTool(), schemesHandler(registry))
}

// --- read ---

func readTool() mcp.Tool {
	return mcp.NewTool("read",
		mcp.WithDescription("Read the resource at a URI. Collections paginate and accept query parameters (e.g. mail://inboxes/inbox-work/messages?read=false&sort=dateSent.desc&limit=10)."),
		mcp.WithString("uri",
			mcp.Description("Resource URI (e.g. mail://accounts/Work/email)"),
			mcp.Required(),
		),
	)
}

func readHandler(boundary *resource.Boundary) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uri := req.GetString("uri", "")

		result, err := commands.NewReadCommand(boundary, uri).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		payload, err := json.MarshalIndent(result.Resource.Value, "", "  ")
		if err != nil {
			return toolError(fmt.Errorf("encoding resource: %w", err))
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

// --- exists ---

func existsTool() mcp.Tool {
	return mcp.NewTool("exists",
		mcp.WithDescription("Check whether a value is present at a URI. A well-formed address with nothing behind it reports false rather than failing."),
		mcp.WithString("uri",
			mcp.Description("Resource URI to probe"),
			mcp.Required(),
		),
	)
}

func existsHandler(boundary *resource.Boundary) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uri := req.GetString("uri", "")

		result, err := commands.NewExistsCommand(boundary, uri).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- schemes ---

func schemesTool() mcp.Tool {
	return mcp.NewTool("schemes",
		mcp.WithDescription("List the registered schemes and the children addressable under each root."),
	)
}

func schemesHandler(registry *resolve.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewSchemesCommand(registry).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Schemes) == 0 {
			return mcp.NewToolResultText("No schemes registered."), nil
		}

		var sb strings.Builder
		for _, scheme := range result.Schemes {
			fmt.Fprintf(&sb, "%s://", scheme)
			if sp, err := registry.Resolve(scheme + "://"); err == nil {
				if keys := sp.Keys(); len(keys) > 0 {
					fmt.Fprintf(&sb, "  %s", strings.Join(keys, ", "))
				}
			}
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
