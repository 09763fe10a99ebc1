// Package mcp exposes the inspect views of a device graph as Model Context
// Protocol tools and resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/devicegraph"
	"github.com/aretw0/devicegraph/internal/logging"
	"github.com/aretw0/devicegraph/pkg/inspect"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs.
const (
	DevicesURI = "devicegraph://devices"
	LinksURI   = "devicegraph://links"
	SummaryURI = "devicegraph://summary"
	DOTURI     = "devicegraph://dot"

	deviceTemplate = "devicegraph://devices/{name}"
)

// SSE endpoints relative to the base URL.
const (
	SSEPath     = "/mcp/sse"
	MessagePath = "/mcp/message"
)

// Server wraps a graph view in an MCP server.
type Server struct {
	view      *inspect.View
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates an MCP server over the view.
func NewServer(view *inspect.View, opts ...Option) *Server {
	s := &Server{
		view: view,
		mcpServer: server.NewMCPServer("devicegraph-mcp", strings.TrimSpace(devicegraph.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio serves the protocol on stdin and stdout until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// SSEHandlers returns the SSE stream and message handlers, to be mounted on
// SSEPath and MessagePath of baseURL.
func (s *Server) SSEHandlers(baseURL string) (stream, message http.Handler) {
	sse := server.NewSSEServer(s.mcpServer,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint(SSEPath),
		server.WithMessageEndpoint(MessagePath),
	)
	return sse.SSEHandler(), sse.MessageHandler()
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_devices",
		mcp.WithDescription("List every device of the graph sorted by name, without attributes."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.jsonResult(s.view.Devices())
	})

	s.mcpServer.AddTool(mcp.NewTool("get_device",
		mcp.WithDescription("Get one device with its attributes and ports."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Full device name, such as rack0.n1.mem")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		d, ok := s.view.Device(name)
		if !ok {
			return mcp.NewToolResultError("device not found: " + name), nil
		}
		return s.jsonResult(d)
	})

	s.mcpServer.AddTool(mcp.NewTool("list_links",
		mcp.WithDescription("List every link with its latency."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.jsonResult(s.view.Links())
	})

	s.mcpServer.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Count devices, links and assemblies, with devices per category."),
		mcp.WithOutputSchema[inspect.Summary](),
	), mcp.NewStructuredToolHandler(s.handleSummary))

	s.mcpServer.AddTool(mcp.NewTool("render_diagram",
		mcp.WithDescription("Render the graph as a Graphviz or Mermaid diagram."),
		mcp.WithString("format", mcp.Enum("dot", "mermaid"), mcp.Description("Diagram syntax, dot by default")),
		mcp.WithBoolean("ports", mcp.Description("Draw ports as record fields (dot only)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		switch format := request.GetString("format", "dot"); format {
		case "dot":
			return mcp.NewToolResultText(s.view.DOT(request.GetBool("ports", false))), nil
		case "mermaid":
			return mcp.NewToolResultText(s.view.Mermaid()), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown diagram format %q", format)), nil
		}
	})
}

func (s *Server) handleSummary(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (inspect.Summary, error) {
	return s.view.Summary(), nil
}

func (s *Server) jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("tool result encode failed", "error", err)
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) registerResources() {
	s.addJSONResource(DevicesURI, "Devices", func() any { return s.view.Devices() })
	s.addJSONResource(LinksURI, "Links", func() any { return s.view.Links() })
	s.addJSONResource(SummaryURI, "Summary", func() any { return s.view.Summary() })

	s.mcpServer.AddResource(mcp.NewResource(DOTURI, "Graphviz diagram",
		mcp.WithMIMEType("text/vnd.graphviz"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: DOTURI, MIMEType: "text/vnd.graphviz", Text: s.view.DOT(false)},
		}, nil
	})

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(deviceTemplate, "Device",
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		name := strings.TrimPrefix(uri, DevicesURI+"/")
		d, ok := s.view.Device(name)
		if !ok {
			return nil, fmt.Errorf("device not found: %s", name)
		}
		return s.jsonContents(uri, d)
	})
}

func (s *Server) addJSONResource(uri, name string, view func() any) {
	s.mcpServer.AddResource(mcp.NewResource(uri, name,
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return s.jsonContents(uri, view())
	})
}

func (s *Server) jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uri, MIMEType: "application/json", Text: string(b)},
	}, nil
}
