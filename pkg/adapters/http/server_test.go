package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/devicegraph/internal/testutils"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/inspect"
	"github.com/aretw0/devicegraph/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func view(g *graph.DeviceGraph) *inspect.View {
	return inspect.New(g, "rings")
}

func TestServer_Devices(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	h := NewHandler(view(r.Graph))

	w := get(t, h, "/devices")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	devices := decode[[]Device](t, w)
	require.Len(t, devices, 4)
	for i := 1; i < len(devices); i++ {
		assert.Less(t, devices[i-1].Name, devices[i].Name)
	}
	for _, d := range devices {
		assert.Nil(t, d.Attrs, "attributes are only listed per device")
	}
}

func TestServer_Device(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	h := NewHandler(view(r.Graph))

	w := get(t, h, "/devices/"+r.Ltd0.Name())
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[Device](t, w)
	assert.Equal(t, r.Ltd0.Name(), d.Name)
	assert.Equal(t, testutils.LibraryPortKind.Type(), d.Type)
	require.NotNil(t, d.Library)
	assert.Equal(t, testutils.Library, *d.Library)
	assert.Nil(t, d.Owner)
	assert.NotNil(t, d.Attrs)
	assert.False(t, d.Assembly)
	require.NotNil(t, d.Partition)
	assert.Equal(t, 2, d.Partition.Rank)
	assert.Nil(t, d.Partition.Thread)
	assert.Contains(t, d.Ports, "input")
	assert.Contains(t, d.Ports, "optional.p0")

	w = get(t, h, "/devices/"+r.R0.Name())
	require.Equal(t, http.StatusOK, w.Code)
	ring := decode[Device](t, w)
	assert.True(t, ring.Assembly)
	assert.Nil(t, ring.Library)

	w = get(t, h, "/devices/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Links(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	w := get(t, NewHandler(view(r.Graph)), "/links")
	require.Equal(t, http.StatusOK, w.Code)

	links := decode[[]Link](t, w)
	assert.Len(t, links, r.Graph.LinkCount())
	for _, l := range links {
		assert.NotEmpty(t, l.A)
		assert.NotEmpty(t, l.B)
	}
}

func TestServer_Summary(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	w := get(t, NewHandler(view(r.Graph)), "/summary")
	require.Equal(t, http.StatusOK, w.Code)

	s := decode[Summary](t, w)
	assert.Equal(t, "rings", s.Name)
	assert.Equal(t, 4, s.Devices)
	assert.Equal(t, 8, s.Links)
	assert.Equal(t, 2, s.Assemblies)
	assert.Equal(t, r.Graph.CountDevices(), s.Categories)
}

func TestServer_Diagrams(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	h := NewHandler(view(r.Graph))

	w := get(t, h, "/dot")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/vnd.graphviz", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `graph "rings" {`)
	assert.NotContains(t, w.Body.String(), "shape=record")

	w = get(t, h, "/dot?ports=true")
	assert.Contains(t, w.Body.String(), "shape=record")

	w = get(t, h, "/dot?ports=maybe")
	assert.Equal(t, http.StatusBadRequest, w.Code, "ports must be a boolean")

	w = get(t, h, "/mermaid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph LR")
}

func TestServer_OpenAPI(t *testing.T) {
	h := NewHandler(view(graph.New()))

	w := get(t, h, "/openapi.yaml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "/devices/{name}")

	w = get(t, h, "/swagger")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")

	w = get(t, h, "/info")
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[Info](t, w)
	assert.Equal(t, "devicegraph-http", info.App)
	assert.Equal(t, "0.1.0", info.ApiVersion)
	assert.NotEmpty(t, info.Version)
}

func TestGetSwagger(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)
	for _, p := range []string{"/devices", "/devices/{name}", "/links", "/summary", "/dot", "/mermaid", "/info"} {
		assert.NotNil(t, swagger.Paths.Value(p), p)
	}
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	r := testutils.RingGraph(t, 0, graph.WithHooks(m.Hooks()))
	require.NoError(t, r.Graph.Flatten())
	m.Observe(r.Graph)

	w := get(t, NewHandler(view(r.Graph), WithGatherer(reg)), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "devicegraph_expansions_total")

	w = get(t, NewHandler(view(r.Graph)), "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics need a gatherer")
}

func TestServer_Swap(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	s := NewServer(view(r.Graph))
	h := s.Handler()

	assert.Equal(t, 4, decode[Summary](t, get(t, h, "/summary")).Devices)

	s.View().Swap(graph.New())
	assert.Equal(t, 0, decode[Summary](t, get(t, h, "/summary")).Devices)
	assert.Empty(t, decode[[]Device](t, get(t, h, "/devices")))
}

func TestServer_Preflight(t *testing.T) {
	req := httptest.NewRequest("OPTIONS", "/devices", nil)
	w := httptest.NewRecorder()
	NewHandler(view(graph.New())).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}
