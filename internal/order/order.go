// Package order reads HCL order files and replays them against an engine.
//
//	item "hardware" "server-nodes" {
//	  product  = "node-a"
//	  quantity = 2
//	  choices  = { compute = "cpu-16core-64gb" }
//	  pick "storage" "ssd-500gb" { quantity = 2 }
//	}
package order

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/agentic-research/infracfg/internal/engine"
	"github.com/agentic-research/infracfg/internal/selection"
)

// File is a decoded order document.
type File struct {
	Items []*Item `hcl:"item,block"`
}

// Item adds one product at a catalog position.
type Item struct {
	Category string `hcl:"category,label"`
	SubItem  string `hcl:"sub_item,label"`

	Product    string            `hcl:"product"`
	Quantity   *int              `hcl:"quantity,optional"`
	Configured *bool             `hcl:"configured,optional"`
	Choices    map[string]string `hcl:"choices,optional"`
	Picks      []*Pick           `hcl:"pick,block"`
}

// Pick sets the absolute quantity of one multi-select option.
type Pick struct {
	Module   string `hcl:"module,label"`
	Option   string `hcl:"option,label"`
	Quantity int    `hcl:"quantity"`
}

// Parse decodes an order document. filename is used in diagnostics only.
func Parse(filename string, src []byte) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse order file %s: %w", filename, diags)
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode order file %s: %w", filename, diags)
	}
	return &f, nil
}

// Apply adds every item to e in file order. It stops at the first failure;
// the failing item is removed again, items applied before it stay in the
// session.
func (f *File) Apply(ctx context.Context, e *engine.Engine) error {
	for i, item := range f.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := item.apply(e); err != nil {
			return fmt.Errorf("item %d (%s/%s %s): %w", i, item.Category, item.SubItem, item.Product, err)
		}
	}
	return nil
}

func (it *Item) apply(e *engine.Engine) error {
	idx, err := e.AddSelection(it.Category, it.SubItem, it.Product)
	if err != nil {
		return err
	}
	if err := it.configure(e, idx); err != nil {
		if rmErr := e.RemoveSelection(it.Category, it.SubItem, idx); rmErr != nil {
			return errors.Join(err, rmErr)
		}
		return err
	}
	return nil
}

func (it *Item) configure(e *engine.Engine, idx int) error {
	for _, module := range slices.Sorted(maps.Keys(it.Choices)) {
		if err := e.ChooseOption(it.Category, it.SubItem, idx, module, it.Choices[module]); err != nil {
			return err
		}
	}
	for _, p := range it.Picks {
		if err := e.SetOptionQuantity(it.Category, it.SubItem, idx, p.Module, p.Option, p.Quantity); err != nil {
			return err
		}
	}
	if it.Quantity != nil || it.Configured != nil {
		return e.UpdateSelection(it.Category, it.SubItem, idx, selection.Patch{
			Quantity:   it.Quantity,
			Configured: it.Configured,
		})
	}
	return nil
}
