package api

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() *Product {
	mods := NewModuleSet()
	mods.Set("compute", &Module{
		Label:            "Compute",
		Required:         true,
		Type:             SingleSelect,
		DefaultSelection: "small",
		Options: []Option{
			{ID: "small", Price: 0, Details: []string{"2 vCPU"}},
			{ID: "large", Price: 400},
		},
	})
	mods.Set("disks", &Module{
		Label:             "Disks",
		Type:              MultiSelectQuantity,
		DefaultSelections: []OptionQuantity{{OptionID: "ssd", Quantity: 1}},
		Options:           []Option{{ID: "ssd", Price: 150, MaxQuantity: 4}},
	})
	return &Product{ID: "node", Name: "Node", BasePrice: 1000, Modules: mods}
}

func TestProductClone_Independent(t *testing.T) {
	orig := testProduct()
	cp := orig.Clone()

	m, ok := cp.Module("compute")
	require.True(t, ok)
	m.Options[0].Details[0] = "mutated"
	m.Options = append(m.Options, Option{ID: "xl"})
	d, _ := cp.Module("disks")
	d.DefaultSelections[0].Quantity = 9

	om, _ := orig.Module("compute")
	assert.Equal(t, "2 vCPU", om.Options[0].Details[0])
	assert.Len(t, om.Options, 2)
	od, _ := orig.Module("disks")
	assert.Equal(t, 1, od.DefaultSelections[0].Quantity)
}

func TestProductModules_KeepDocumentOrder(t *testing.T) {
	raw := `{"id":"p","name":"P","description":"","basePrice":1,"modules":{"zeta":{"label":"Z","description":"","required":false,"type":"single-select","options":[]},"alpha":{"label":"A","description":"","required":true,"type":"single-select","options":[]}}}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	var keys []string
	for pair := p.Modules.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha"}, keys)

	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
	assert.Less(t, strings.Index(string(out), "zeta"), strings.Index(string(out), "alpha"))
}

func TestCatalogLookups(t *testing.T) {
	c := &Catalog{SubItems: NewSubItemIndex(), Products: NewProductIndex()}
	c.SubItems.Set("hardware", []SubItem{{ID: "nodes", Label: "Nodes"}, {ID: ReviewSubItemID, Label: "Review"}})
	c.SubItems.Set("services", []SubItem{{ID: "support", Label: "Support"}})
	c.Products.Set("nodes", []*Product{testProduct()})

	assert.Equal(t, []string{"hardware", "services"}, c.StepIDs())
	assert.Equal(t, "Nodes", c.SubItemLabel("hardware", "nodes"))
	assert.Equal(t, "ghost", c.SubItemLabel("hardware", "ghost"))
	assert.True(t, c.HasRequiredElements("nodes"))
	assert.False(t, c.HasRequiredElements("support"))

	p, ok := c.FindProduct("nodes", "node")
	require.True(t, ok)
	assert.Equal(t, "Node", p.Name)
	_, ok = c.FindProduct("nodes", "missing")
	assert.False(t, ok)
}

func TestModuleTypeKnown(t *testing.T) {
	assert.True(t, SingleSelect.Known())
	assert.True(t, MultiSelectQuantity.Known())
	assert.False(t, ModuleType("radio").Known())
}

func TestSubItemLabel_EmptyFallsBackToID(t *testing.T) {
	c := &Catalog{SubItems: NewSubItemIndex(), Products: NewProductIndex()}
	c.SubItems.Set("hardware", []SubItem{{ID: "nodes", Label: ""}})
	assert.Equal(t, "nodes", c.SubItemLabel("hardware", "nodes"))
}
