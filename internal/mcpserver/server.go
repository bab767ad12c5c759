// Package mcpserver exposes one configuration session as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/agentic-research/infracfg/internal/catalog"
	"github.com/agentic-research/infracfg/internal/engine"
	"github.com/agentic-research/infracfg/internal/pricing"
	"github.com/agentic-research/infracfg/internal/selection"
	"github.com/agentic-research/infracfg/internal/validation"
)

// Server binds MCP tool handlers to an engine.
type Server struct {
	eng          *engine.Engine
	log          *zap.Logger
	messageLimit int
}

// New wraps e. messageLimit caps collect_messages output; 0 shows all.
func New(e *engine.Engine, log *zap.Logger, messageLimit int) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{eng: e, log: log, messageLimit: messageLimit}
}

// MCP builds the tool server.
func (s *Server) MCP(version string) *server.MCPServer {
	m := server.NewMCPServer("infracfg", version, server.WithToolCapabilities(false))

	posArgs := []mcp.ToolOption{
		mcp.WithString("category", mcp.Required(), mcp.Description("Step id, e.g. hardware")),
		mcp.WithString("sub_item", mcp.Required(), mcp.Description("Sub-item id, e.g. server-nodes")),
	}
	withPosition := func(name, desc string, extra ...mcp.ToolOption) mcp.Tool {
		opts := append([]mcp.ToolOption{mcp.WithDescription(desc)}, posArgs...)
		return mcp.NewTool(name, append(opts, extra...)...)
	}
	index := mcp.WithNumber("index", mcp.Required(), mcp.Description("Selection index within the position"))

	m.AddTool(mcp.NewTool("list_positions",
		mcp.WithDescription("List every catalog position with its status and selections"),
	), s.listPositions)
	m.AddTool(withPosition("add_product", "Add a product with its default configuration",
		mcp.WithString("product", mcp.Required(), mcp.Description("Product id")),
	), s.addProduct)
	m.AddTool(withPosition("remove_selection", "Remove a selection", index), s.removeSelection)
	m.AddTool(withPosition("set_quantity", "Set the overall quantity of a selection", index,
		mcp.WithNumber("quantity", mcp.Required(), mcp.Description("New quantity, at least 1")),
	), s.setQuantity)
	m.AddTool(withPosition("choose_option", "Choose a single-select option or set a multi-select option quantity", index,
		mcp.WithString("module", mcp.Required(), mcp.Description("Module id")),
		mcp.WithString("option", mcp.Required(), mcp.Description("Option id")),
		mcp.WithNumber("quantity", mcp.Description("Quantity for multi-select modules")),
	), s.chooseOption)
	m.AddTool(mcp.NewTool("price_quote",
		mcp.WithDescription("Price every selection with category and grand totals"),
	), s.priceQuote)
	m.AddTool(mcp.NewTool("collect_messages",
		mcp.WithDescription("Validation messages, errors first"),
	), s.collectMessages)
	m.AddTool(mcp.NewTool("overall_status",
		mcp.WithDescription("Overall session status: error, warning, incomplete or valid"),
	), s.overallStatus)
	m.AddTool(mcp.NewTool("query_catalog",
		mcp.WithDescription("Evaluate a JSONPath expression against the active catalog"),
		mcp.WithString("path", mcp.Required(), mcp.Description("JSONPath, e.g. $.steps[*].id")),
	), s.queryCatalog)
	m.AddTool(mcp.NewTool("load_catalog",
		mcp.WithDescription("Replace the active catalog; all selections are discarded"),
		mcp.WithString("document", mcp.Required(), mcp.Description("Catalog JSON document")),
	), s.loadCatalog)
	return m
}

// ServeStdio runs the tool server on stdin/stdout until the client leaves.
func (s *Server) ServeStdio(version string) error {
	return server.ServeStdio(s.MCP(version))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func position(req mcp.CallToolRequest) (string, string, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return "", "", err
	}
	subItem, err := req.RequireString("sub_item")
	if err != nil {
		return "", "", err
	}
	return category, subItem, nil
}

type positionView struct {
	Category   string            `json:"category"`
	SubItem    string            `json:"subItem"`
	Label      string            `json:"label"`
	Status     validation.Status `json:"status"`
	Required   bool              `json:"required"`
	Selections []selectionView   `json:"selections"`
}

type selectionView struct {
	Index      int     `json:"index"`
	Product    string  `json:"product"`
	Quantity   int     `json:"quantity"`
	Configured bool    `json:"configured"`
	Config     any     `json:"config"`
	Price      float64 `json:"price"`
}

func (s *Server) listPositions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, snap := s.eng.View()
	views := make([]positionView, 0, len(snap.Slots))
	for _, slot := range snap.Slots {
		v := positionView{
			Category:   slot.Category,
			SubItem:    slot.SubItem,
			Label:      c.SubItemLabel(slot.Category, slot.SubItem),
			Status:     validation.StatusOf(slot.Entry),
			Required:   c.HasRequiredElements(slot.SubItem),
			Selections: []selectionView{},
		}
		for i, sel := range slot.Entry.Selections {
			price := pricing.SelectionTotal(sel)
			v.Selections = append(v.Selections, selectionView{
				Index:      i,
				Product:    sel.ProductID,
				Quantity:   sel.Quantity,
				Configured: sel.Configured,
				Config:     sel.Config,
				Price:      price,
			})
		}
		views = append(views, v)
	}
	return jsonResult(views)
}

func (s *Server) addProduct(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, subItem, err := position(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	product, err := req.RequireString("product")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := s.eng.AddSelection(category, subItem, product)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.priced(category, subItem, idx)
}

func (s *Server) removeSelection(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, subItem, err := position(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.eng.RemoveSelection(category, subItem, idx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed %s/%s[%d]", category, subItem, idx)), nil
}

func (s *Server) setQuantity(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, subItem, err := position(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q, err := req.RequireInt("quantity")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q = selection.StepQuantity(q, 0)
	if err := s.eng.UpdateSelection(category, subItem, idx, selection.Patch{Quantity: &q}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.priced(category, subItem, idx)
}

func (s *Server) chooseOption(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, subItem, err := position(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	module, err := req.RequireString("module")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	option, err := req.RequireString("option")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if q := req.GetInt("quantity", -1); q >= 0 {
		err = s.eng.SetOptionQuantity(category, subItem, idx, module, option, q)
	} else {
		err = s.eng.ChooseOption(category, subItem, idx, module, option)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.priced(category, subItem, idx)
}

// priced reports the current price of one selection.
func (s *Server) priced(category, subItem string, idx int) (*mcp.CallToolResult, error) {
	price, err := s.eng.Price(category, subItem, idx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"index": idx, "price": price})
}

func (s *Server) priceQuote(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.eng.Quote())
}

func (s *Server) collectMessages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msgs := s.eng.CollectMessages()
	validation.Sort(msgs)
	shown, remaining := validation.Truncate(msgs, s.messageLimit)
	if shown == nil {
		shown = []validation.Message{}
	}
	return jsonResult(map[string]any{
		"headline":  validation.Counts(msgs).Headline(),
		"messages":  shown,
		"remaining": remaining,
	})
}

func (s *Server) overallStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(string(s.eng.OverallStatus())), nil
}

func (s *Server) queryCatalog(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := catalog.Query(s.eng.Catalog(), path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) loadCatalog(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.eng.TryLoadCatalog([]byte(doc))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.log.Info("catalog replaced over mcp", zap.String("name", c.ProductInfo.Name))
	return mcp.NewToolResultText("loaded " + c.ProductInfo.Name), nil
}
