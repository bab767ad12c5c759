package validation

import (
	"fmt"
	"slices"

	"github.com/agentic-research/infracfg/api"
	"github.com/agentic-research/infracfg/internal/selection"
	"github.com/agentic-research/infracfg/internal/store"
)

// MessageType is the class of a message.
type MessageType string

const (
	TypeError   MessageType = "error"
	TypeWarning MessageType = "warning"
	TypeInfo    MessageType = "info"
)

// Severity is the urgency attached to a message.
type Severity string

const (
	High   Severity = "high"
	Medium Severity = "medium"
	Low    Severity = "low"
)

// Message is a single user-facing validation finding.
type Message struct {
	Type     MessageType `json:"type"`
	Category string      `json:"category"`
	SubItem  string      `json:"subItem"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Severity Severity    `json:"severity"`
}

// DefaultLimit is the number of messages shown before truncation.
const DefaultLimit = 6

// Collect walks every position of snap in order and returns its messages.
func Collect(c *api.Catalog, snap store.Snapshot) []Message {
	var msgs []Message
	for _, slot := range snap.Slots {
		msgs = append(msgs, positionMessages(c, slot)...)
	}
	return msgs
}

func positionMessages(c *api.Catalog, slot store.Slot) []Message {
	label := c.SubItemLabel(slot.Category, slot.SubItem)
	at := func(t MessageType, sev Severity, title, text string) Message {
		return Message{Type: t, Category: slot.Category, SubItem: slot.SubItem, Title: title, Message: text, Severity: sev}
	}

	var msgs []Message
	switch StatusOf(slot.Entry) {
	case Incomplete:
		if c.HasRequiredElements(slot.SubItem) {
			msgs = append(msgs, at(TypeError, High, label+" required", "This section is mandatory and needs configuration"))
		} else {
			msgs = append(msgs, at(TypeInfo, Low, label+" available", "Optional section ready for configuration"))
		}
	case Error:
		for _, s := range slot.Entry.Selections {
			if !s.Configured {
				msgs = append(msgs, at(TypeError, High, s.Name()+" incomplete", "Required configuration options are missing"))
			}
		}
	case Warning:
		for _, s := range slot.Entry.Selections {
			if s.Quantity < 1 {
				msgs = append(msgs, at(TypeWarning, Medium, s.Name()+" quantity issue", "Quantity should be at least 1"))
			}
		}
		for _, s := range slot.Entry.Selections {
			for _, ref := range selection.Unresolved(s) {
				msgs = append(msgs, at(TypeWarning, Medium, s.Name()+" references unknown option",
					fmt.Sprintf("Configuration entry %s does not match the product", ref)))
			}
		}
	}
	return msgs
}

// Overall folds the session into one status. Unconfigured selections make it
// error and warning messages make it warning. A required position that is
// still empty or not fully configured makes it incomplete, even though
// Collect reports the empty case as an error message.
func Overall(c *api.Catalog, snap store.Snapshot) Status {
	for _, slot := range snap.Slots {
		if StatusOf(slot.Entry) == Error {
			return Error
		}
	}
	msgs := Collect(c, snap)
	if slices.ContainsFunc(msgs, func(m Message) bool { return m.Type == TypeWarning }) {
		return Warning
	}
	for _, slot := range snap.Slots {
		if c.HasRequiredElements(slot.SubItem) && !slot.Entry.Configured {
			return Incomplete
		}
	}
	return Valid
}

var typeRank = map[MessageType]int{TypeError: 0, TypeWarning: 1, TypeInfo: 2}

// Sort orders msgs error < warning < info, keeping the original order within
// a class.
func Sort(msgs []Message) {
	slices.SortStableFunc(msgs, func(a, b Message) int {
		return typeRank[a.Type] - typeRank[b.Type]
	})
}

// Truncate returns at most limit messages and how many were left out.
// A limit below 1 shows everything.
func Truncate(msgs []Message, limit int) ([]Message, int) {
	if limit < 1 || len(msgs) <= limit {
		return msgs, 0
	}
	return msgs[:limit], len(msgs) - limit
}
