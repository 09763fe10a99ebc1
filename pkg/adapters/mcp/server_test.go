package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/devicegraph/internal/testutils"
	mcpAdapter "github.com/aretw0/devicegraph/pkg/adapters/mcp"
	"github.com/aretw0/devicegraph/pkg/inspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	Result struct {
		IsError bool `json:"isError"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		StructuredContent map[string]any `json:"structuredContent"`
		Contents          []struct {
			URI      string `json:"uri"`
			MIMEType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newServer(t *testing.T) (*mcpAdapter.Server, testutils.Rings) {
	t.Helper()
	r := testutils.RingGraph(t, 0)
	return mcpAdapter.NewServer(inspect.New(r.Graph, "rings")), r
}

func call(t *testing.T, s *mcpAdapter.Server, method string, params map[string]any) response {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	out := s.MCPServer().HandleMessage(context.Background(), msg)
	require.NotNil(t, out)
	b, err := json.Marshal(out)
	require.NoError(t, err)

	var resp response
	require.NoError(t, json.Unmarshal(b, &resp))
	return resp
}

func callTool(t *testing.T, s *mcpAdapter.Server, name string, args map[string]any) response {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	return call(t, s, "tools/call", map[string]any{"name": name, "arguments": args})
}

func TestServer_ListTools(t *testing.T) {
	s, _ := newServer(t)
	msg := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	b, err := json.Marshal(s.MCPServer().HandleMessage(context.Background(), msg))
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(b, &resp))
	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_devices", "get_device", "list_links", "get_summary", "render_diagram"}, names)
}

func TestServer_DeviceTools(t *testing.T) {
	s, r := newServer(t)

	resp := callTool(t, s, "list_devices", nil)
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Content, 1)
	var devices []inspect.Device
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Content[0].Text), &devices))
	assert.Len(t, devices, 4)

	resp = callTool(t, s, "get_device", map[string]any{"name": r.Ltd0.Name()})
	require.False(t, resp.Result.IsError)
	var d inspect.Device
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Content[0].Text), &d))
	assert.Equal(t, r.Ltd0.Name(), d.Name)
	require.NotNil(t, d.Partition)
	assert.Equal(t, 2, d.Partition.Rank)

	resp = callTool(t, s, "get_device", map[string]any{"name": "missing"})
	assert.True(t, resp.Result.IsError)
	assert.Contains(t, resp.Result.Content[0].Text, "device not found: missing")

	resp = callTool(t, s, "get_device", nil)
	assert.True(t, resp.Result.IsError)
}

func TestServer_SummaryAndDiagrams(t *testing.T) {
	s, _ := newServer(t)

	resp := callTool(t, s, "get_summary", nil)
	require.False(t, resp.Result.IsError)
	assert.Equal(t, "rings", resp.Result.StructuredContent["name"])
	assert.EqualValues(t, 4, resp.Result.StructuredContent["devices"])

	resp = callTool(t, s, "list_links", nil)
	var links []inspect.Link
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Content[0].Text), &links))
	assert.Len(t, links, 8)

	resp = callTool(t, s, "render_diagram", nil)
	assert.Contains(t, resp.Result.Content[0].Text, `graph "rings" {`)

	resp = callTool(t, s, "render_diagram", map[string]any{"format": "mermaid"})
	assert.Contains(t, resp.Result.Content[0].Text, "graph LR")

	resp = callTool(t, s, "render_diagram", map[string]any{"format": "svg"})
	assert.True(t, resp.Result.IsError)
}

func TestServer_Resources(t *testing.T) {
	s, r := newServer(t)

	resp := call(t, s, "resources/read", map[string]any{"uri": mcpAdapter.SummaryURI})
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, "application/json", resp.Result.Contents[0].MIMEType)
	var sum inspect.Summary
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Contents[0].Text), &sum))
	assert.Equal(t, 2, sum.Assemblies)

	resp = call(t, s, "resources/read", map[string]any{"uri": mcpAdapter.DOTURI})
	require.Nil(t, resp.Error)
	assert.Equal(t, "text/vnd.graphviz", resp.Result.Contents[0].MIMEType)

	uri := mcpAdapter.DevicesURI + "/" + r.Ltd0.Name()
	resp = call(t, s, "resources/read", map[string]any{"uri": uri})
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, uri, resp.Result.Contents[0].URI)

	resp = call(t, s, "resources/read", map[string]any{"uri": mcpAdapter.DevicesURI + "/missing"})
	require.NotNil(t, resp.Error)
}
