package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/infracfg/api"
	"github.com/agentic-research/infracfg/internal/catalog"
	"github.com/agentic-research/infracfg/internal/selection"
	"github.com/agentic-research/infracfg/internal/store"
)

const oneRequired = `{
  "productInfo": {"name": "t", "subtitle": "", "salesPrice": 0, "currency": "USD"},
  "steps": [{"id": "hardware", "label": "Hardware"}],
  "subItems": {"hardware": [{"id": "nodes", "label": "Server Nodes"}, {"id": "step-review", "label": "Step Review"}]},
  "products": {
    "nodes": [{
      "id": "node", "name": "Node", "description": "", "basePrice": 100,
      "modules": {
        "cpu": {"label": "CPU", "description": "", "required": true, "type": "single-select",
                "defaultSelection": "small", "options": [{"id": "small", "label": "", "description": "", "price": 0}]}
      }
    }]
  }
}`

func mustParse(t *testing.T, raw string) *api.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(raw))
	require.NoError(t, err)
	return c
}

func TestStatusOf(t *testing.T) {
	c := catalog.Default()
	p, _ := c.FindProduct("server-nodes", "node-a")
	ok := selection.New(p)

	unconfigured := ok.Clone()
	unconfigured.Configured = false
	zero := ok.Clone()
	zero.Quantity = 0
	empty := ok.Clone()
	empty.Config = selection.Config{}
	dangling := ok.Clone()
	dangling.Config["compute"] = selection.Single{OptionID: "cpu-128core"}

	tests := []struct {
		name string
		sels []*selection.Selection
		want Status
	}{
		{"none", nil, Incomplete},
		{"valid", []*selection.Selection{ok}, Valid},
		{"unconfigured wins over warning", []*selection.Selection{zero, unconfigured}, Error},
		{"zero quantity", []*selection.Selection{ok, zero}, Warning},
		{"empty config", []*selection.Selection{empty}, Warning},
		{"dangling option", []*selection.Selection{dangling}, Warning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(store.Entry{Selections: tt.sels}))
		})
	}
}

func TestCollect_RequiredPositionEmpty(t *testing.T) {
	c := mustParse(t, oneRequired)
	snap := store.New(c).Snapshot()

	e, ok := snap.Entry("hardware", "nodes")
	require.True(t, ok)
	assert.Equal(t, Incomplete, StatusOf(e))

	want := []Message{{
		Type: TypeError, Category: "hardware", SubItem: "nodes",
		Title: "Server Nodes required", Message: "This section is mandatory and needs configuration", Severity: High,
	}}
	if diff := cmp.Diff(want, Collect(c, snap)); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Incomplete, Overall(c, snap))
}

func TestCollect_UnconfiguredSelections(t *testing.T) {
	c := mustParse(t, oneRequired)
	s := store.New(c)
	p, _ := c.FindProduct("nodes", "node")

	a := selection.New(p)
	a.Configured = false
	b := selection.New(p)
	b.Configured = false
	require.NoError(t, s.Replace("hardware", "nodes", []*selection.Selection{a, selection.New(p), b}))

	snap := s.Snapshot()
	e, _ := snap.Entry("hardware", "nodes")
	assert.Equal(t, Error, StatusOf(e))

	msgs := Collect(c, snap)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, TypeError, m.Type)
		assert.Equal(t, High, m.Severity)
		assert.Equal(t, "Node incomplete", m.Title)
	}
	assert.Equal(t, Error, Overall(c, snap))
}

func TestCollect_DefaultCatalog(t *testing.T) {
	c := catalog.Default()
	s := store.New(c)
	snap := s.Snapshot()

	msgs := Collect(c, snap)
	require.Len(t, msgs, 9)
	assert.Equal(t, "Server Nodes required", msgs[0].Title)
	assert.Equal(t, TypeInfo, msgs[1].Type)
	assert.Equal(t, "Enclosures available", msgs[1].Title)
	assert.Equal(t, "Optional section ready for configuration", msgs[1].Message)
	assert.Equal(t, "Operating System required", msgs[3].Title)

	Sort(msgs)
	assert.Equal(t, "Server Nodes required", msgs[0].Title)
	assert.Equal(t, "Operating System required", msgs[1].Title)
	assert.Equal(t, "Enclosures available", msgs[2].Title, "stable within class")

	assert.Equal(t, Summary{Errors: 2, Infos: 7}, Counts(msgs))
	assert.Equal(t, "2 issues", Counts(msgs).Headline())

	shown, remaining := Truncate(msgs, DefaultLimit)
	assert.Len(t, shown, 6)
	assert.Equal(t, 3, remaining)
	assert.Equal(t, "+3 more messages", MoreLine(remaining))
}

func TestOverall_ValidAndIncomplete(t *testing.T) {
	c := catalog.Default()
	s := store.New(c)
	node, _ := c.FindProduct("server-nodes", "node-a")
	linux, _ := c.FindProduct("operating-system", "enterprise-linux")

	_, err := s.Add("hardware", "server-nodes", node)
	require.NoError(t, err)
	assert.Equal(t, Incomplete, Overall(c, s.Snapshot()), "operating system still required")

	_, err = s.Add("software", "operating-system", linux)
	require.NoError(t, err)
	snap := s.Snapshot()
	for _, m := range Collect(c, snap) {
		assert.Equal(t, TypeInfo, m.Type)
	}
	assert.Equal(t, Valid, Overall(c, snap))
}

func TestOverall_QuantityWarning(t *testing.T) {
	c := mustParse(t, oneRequired)
	s := store.New(c)
	p, _ := c.FindProduct("nodes", "node")
	_, err := s.Add("hardware", "nodes", p)
	require.NoError(t, err)
	zero := 0
	require.NoError(t, s.Update("hardware", "nodes", 0, selection.Patch{Quantity: &zero}))

	snap := s.Snapshot()
	assert.Equal(t, Warning, Overall(c, snap))
	msgs := Collect(c, snap)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Node quantity issue", msgs[0].Title)
	assert.Equal(t, "Quantity should be at least 1", msgs[0].Message)
}

func TestCollect_DanglingReference(t *testing.T) {
	c := mustParse(t, oneRequired)
	s := store.New(c)
	p, _ := c.FindProduct("nodes", "node")
	_, err := s.Add("hardware", "nodes", p)
	require.NoError(t, err)
	require.NoError(t, s.Update("hardware", "nodes", 0, selection.Patch{
		Config: selection.Config{"cpu": selection.Single{OptionID: "huge"}},
	}))

	msgs := Collect(c, s.Snapshot())
	require.Len(t, msgs, 1)
	assert.Equal(t, TypeWarning, msgs[0].Type)
	assert.Equal(t, "Node references unknown option", msgs[0].Title)
	assert.Contains(t, msgs[0].Message, "cpu/huge")
}

func TestHeadline(t *testing.T) {
	assert.Equal(t, "1 issue", Summary{Errors: 1, Warnings: 3}.Headline())
	assert.Equal(t, "1 warning", Summary{Warnings: 1}.Headline())
	assert.Equal(t, "2 warnings", Summary{Warnings: 2, Infos: 1}.Headline())
	assert.Equal(t, "3 info", Summary{Infos: 3}.Headline())
	assert.Equal(t, "", MoreLine(0))
}

func TestTruncate_NoLimit(t *testing.T) {
	msgs := make([]Message, 8)
	shown, remaining := Truncate(msgs, 0)
	assert.Len(t, shown, 8)
	assert.Equal(t, 0, remaining)
}
