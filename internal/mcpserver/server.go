// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes resource tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/resource-api/internal/api"
	"github.com/starford/resource-api/internal/apperr"
	"github.com/starford/resource-api/internal/pagination"
	"github.com/starford/resource-api/internal/resourceservice"
	"github.com/starford/resource-api/internal/store"
)

const typesURI = "resources://types"

// Server wraps the MCP server with resource tools.
type Server struct {
	mcp *server.MCPServer
	svc *resourceservice.Service
}

// New creates a new MCP server with all resource tools registered.
func New(svc *resourceservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"resource-api",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_resources",
		mcp.WithDescription("List resources with optional name/type filters and pagination."),
		mcp.WithString("name", mcp.Description("Case-insensitive substring of the name")),
		mcp.WithString("type", mcp.Description("Resource type"), mcp.Enum("A", "B")),
		mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
		mcp.WithNumber("limit", mcp.Description("Page size")),
		mcp.WithString("sort", mcp.Description("Sort field"), mcp.Enum("createdAt", "updatedAt", "name")),
		mcp.WithString("order", mcp.Description("Sort order"), mcp.Enum("ASC", "DESC")),
	), s.listResources)

	s.mcp.AddTool(mcp.NewTool("get_resource",
		mcp.WithDescription("Read one resource by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resource id (UUID)")),
	), s.getResource)

	s.mcp.AddTool(mcp.NewTool("create_resource",
		mcp.WithDescription("Create a resource. Read "+typesURI+" for the payload conventions of each type."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Resource type"), mcp.Enum("A", "B")),
		mcp.WithObject("data", mcp.Required(), mcp.Description("Free-form payload object")),
	), s.createResource)

	s.mcp.AddTool(mcp.NewTool("update_resource",
		mcp.WithDescription("Partially update a resource. Omitted fields are left unchanged."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resource id (UUID)")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("type", mcp.Description("New type"), mcp.Enum("A", "B")),
		mcp.WithObject("data", mcp.Description("Replacement payload object")),
	), s.updateResource)

	s.mcp.AddTool(mcp.NewTool("delete_resource",
		mcp.WithDescription("Soft-delete a resource by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resource id (UUID)")),
	), s.deleteResource)

	s.mcp.AddResource(
		mcp.NewResource(typesURI, "Resource Types",
			mcp.WithResourceDescription("Resource types and the data each one carries."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTypesResource,
	)

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

func (s *Server) listResources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := api.ResourceListShape.Decode(req.GetArguments())
	if err != nil {
		return toolError(err), nil
	}
	res, err := s.svc.GetAll(ctx, store.Filter{
		Name:   q.Name,
		Type:   q.Type,
		Sort:   q.Sort,
		Order:  q.Order,
		Offset: q.Offset(),
		Limit:  q.Limit,
	})
	if err != nil {
		return toolError(err), nil
	}
	items := make([]api.ResourceResponse, len(res.Resources))
	for i, r := range res.Resources {
		items[i] = api.ListItemOf(r)
	}
	return jsonResult(pagination.NewPage(items, pagination.NewMeta(res.Count, q.Page, q.Limit)))
}

func (s *Server) getResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := resourceID(req.GetArguments())
	if err != nil {
		return toolError(err), nil
	}
	r, err := s.svc.GetOne(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(api.DetailOf(r))
}

func (s *Server) createResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := api.CreateResourceShape.Decode(req.GetArguments())
	if err != nil {
		return toolError(err), nil
	}
	r, err := s.svc.Create(ctx, resourceservice.CreateInput{
		Name: body.Name,
		Type: body.Type,
		Data: body.Data,
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(api.DetailOf(r))
}

func (s *Server) updateResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := resourceID(args)
	if err != nil {
		return toolError(err), nil
	}
	fields := make(map[string]any, len(args))
	for k, v := range args {
		if k != "id" {
			fields[k] = v
		}
	}
	body, err := api.UpdateResourceShape.Decode(fields)
	if err != nil {
		return toolError(err), nil
	}
	r, err := s.svc.Update(ctx, id, resourceservice.UpdateInput{
		Name: body.Name,
		Type: body.Type,
		Data: body.Data,
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(api.DetailOf(r))
}

func (s *Server) deleteResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := resourceID(req.GetArguments())
	if err != nil {
		return toolError(err), nil
	}
	if err := s.svc.Delete(ctx, id); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) readTypesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      typesURI,
			MIMEType: "text/markdown",
			Text:     ResourceTypesContract,
		},
	}, nil
}

func resourceID(args map[string]any) (string, error) {
	p, err := api.ResourceIDShape.Decode(map[string]any{"id": args["id"]})
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError renders failures with the same body the HTTP API uses.
func toolError(err error) *mcp.CallToolResult {
	ae := apperr.From(err)
	out, _ := json.Marshal(api.ErrorResponse{
		Code:    ae.Code,
		Message: ae.Message,
		Details: ae.Details,
	})
	return mcp.NewToolResultError(string(out))
}
