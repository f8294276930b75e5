package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"postino/internal/application"
	"postino/internal/application/commands"
	"postino/internal/resolve"
)

// RegisterWriteTools adds all mutating resource tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, registry *resolve.Registry) {
	s.AddTool(setTool(), setHandler(registry))
	s.AddTool(moveTool(), moveHandler(registry))
	s.AddTool(deleteTool(), deleteHandler(registry))
	s.AddTool(createTool(), createHandler(registry))
}

// --- set ---

func setTool() mcp.Tool {
	return mcp.NewTool("set",
		mcp.WithDescription("Assign a value to the resource at a URI. The value is decoded as JSON, so true, 3, and \"draft\" keep their types."),
		mcp.WithString("uri",
			mcp.Description("URI of the property to write (e.g. mail://inboxes/inbox-work/messages/msg-1/read)"),
			mcp.Required(),
		),
		mcp.WithString("value",
			mcp.Description("New value, JSON-encoded (e.g. true, 42, \"Ada\")"),
			mcp.Required(),
		),
	)
}

func setHandler(registry *resolve.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uri := req.GetString("uri", "")
		raw := req.GetString("value", "")

		cmd := commands.NewSetCommand(registry, uri, application.ParseValue(raw))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move ---

func moveTool() mcp.Tool {
	return mcp.NewTool("move",
		mcp.WithDescription("Move a collection item to another collection, or reposition it within its own."),
		mcp.WithString("source_uri",
			mcp.Description("URI of the item to move"),
			mcp.Required(),
		),
		mcp.WithString("destination_uri",
			mcp.Description("URI of the destination collection"),
			mcp.Required(),
		),
	)
}

func moveHandler(registry *resolve.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src := req.GetString("source_uri", "")
		dst := req.GetString("destination_uri", "")

		cmd := commands.NewMoveCommand(registry, src, dst)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete the resource at a URI."),
		mcp.WithString("uri",
			mcp.Description("URI of the item or property to delete"),
			mcp.Required(),
		),
	)
}

func deleteHandler(registry *resolve.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uri := req.GetString("uri", "")

		cmd := commands.NewDeleteCommand(registry, uri)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- create ---

func createTool() mcp.Tool {
	return mcp.NewTool("create",
		mcp.WithDescription("Create a new item in the collection at a URI."),
		mcp.WithString("uri",
			mcp.Description("URI of the collection to create into (e.g. mail://signatures)"),
			mcp.Required(),
		),
		mcp.WithString("properties",
			mcp.Description("Item fields as a JSON object (e.g. {\"name\": \"Brief\", \"content\": \"-- A\"})"),
			mcp.Required(),
		),
	)
}

func createHandler(registry *resolve.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uri := req.GetString("uri", "")
		raw := req.GetString("properties", "")

		properties, err := application.ParseProperties("properties", raw)
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewCreateCommand(registry, uri, properties)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
