package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/infracfg/internal/engine"
)

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestAddChooseQuote(t *testing.T) {
	s := New(engine.New(nil), nil, 6)
	ctx := context.Background()
	pos := map[string]any{"category": "hardware", "sub_item": "server-nodes"}
	with := func(extra map[string]any) map[string]any {
		out := map[string]any{}
		for k, v := range pos {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	res, err := s.addProduct(ctx, call(with(map[string]any{"product": "node-a"})))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"index":0,"price":1650}`, text(t, res))

	res, err = s.chooseOption(ctx, call(with(map[string]any{"index": 0.0, "module": "compute", "option": "cpu-16core-64gb"})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":0,"price":2450}`, text(t, res))

	res, err = s.chooseOption(ctx, call(with(map[string]any{"index": 0.0, "module": "storage", "option": "hdd-2tb", "quantity": 2.0})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":0,"price":2610}`, text(t, res))

	res, err = s.setQuantity(ctx, call(with(map[string]any{"index": 0.0, "quantity": 0.0})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":0,"price":2610}`, text(t, res), "quantity floored at 1")

	res, err = s.priceQuote(ctx, call(nil))
	require.NoError(t, err)
	var q struct {
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &q))
	assert.Equal(t, 2610.0, q.Total)

	res, err = s.removeSelection(ctx, call(with(map[string]any{"index": 0.0})))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.removeSelection(ctx, call(with(map[string]any{"index": 0.0})))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolErrorsAreResults(t *testing.T) {
	s := New(engine.New(nil), nil, 6)
	ctx := context.Background()

	res, err := s.addProduct(ctx, call(map[string]any{"category": "hardware"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.addProduct(ctx, call(map[string]any{"category": "hardware", "sub_item": "server-nodes", "product": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "nope")
}

func TestMessagesAndStatus(t *testing.T) {
	s := New(engine.New(nil), nil, 3)
	ctx := context.Background()

	res, err := s.collectMessages(ctx, call(nil))
	require.NoError(t, err)
	var out struct {
		Headline  string `json:"headline"`
		Messages  []any  `json:"messages"`
		Remaining int    `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, "2 issues", out.Headline)
	assert.Len(t, out.Messages, 3)
	assert.Equal(t, 6, out.Remaining)

	res, err = s.overallStatus(ctx, call(nil))
	require.NoError(t, err)
	assert.Equal(t, "incomplete", text(t, res))

	res, err = s.listPositions(ctx, call(nil))
	require.NoError(t, err)
	var views []positionView
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &views))
	assert.Len(t, views, 9)
	assert.Equal(t, "Server Nodes", views[0].Label)
	assert.True(t, views[0].Required)
}

func TestQueryAndLoad(t *testing.T) {
	s := New(engine.New(nil), nil, 0)
	ctx := context.Background()

	res, err := s.queryCatalog(ctx, call(map[string]any{"path": "$.productInfo.name"}))
	require.NoError(t, err)
	assert.JSONEq(t, `["PowerStore"]`, text(t, res))

	res, err = s.loadCatalog(ctx, call(map[string]any{"document": `{"productInfo":{}}`}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "steps")

	res, err = s.loadCatalog(ctx, call(map[string]any{
		"document": `{"productInfo":{"name":"Edge"},"steps":[],"subItems":{},"products":{}}`,
	}))
	require.NoError(t, err)
	assert.Equal(t, "loaded Edge", text(t, res))
}

func TestMCP_RegistersTools(t *testing.T) {
	m := New(engine.New(nil), nil, 6).MCP("test")
	require.NotNil(t, m)
}

func TestListPositions_PricesFromSnapshot(t *testing.T) {
	s := New(engine.New(nil), nil, 6)
	ctx := context.Background()

	_, err := s.addProduct(ctx, call(map[string]any{"category": "hardware", "sub_item": "server-nodes", "product": "node-a"}))
	require.NoError(t, err)

	res, err := s.listPositions(ctx, call(nil))
	require.NoError(t, err)
	var views []positionView
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &views))
	require.Len(t, views, 9)
	assert.Equal(t, "server-nodes", views[0].SubItem)
	require.Len(t, views[0].Selections, 1)
	assert.Equal(t, 1650.0, views[0].Selections[0].Price)
}

func TestPricedReportsMissingSelection(t *testing.T) {
	s := New(engine.New(nil), nil, 6)
	res, err := s.priced("hardware", "server-nodes", 3)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
