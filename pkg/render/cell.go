// Package render turns raw row values into display elements, driven purely by
// the detected schema. The dispatch rules live in one ordered table so their
// priority is auditable and testable in isolation.
package render

import (
	"fmt"
	"strings"

	"github.com/GabrielASF2/lead-cental/pkg/schema"
)

// Kind is the display element category a cell resolves to.
type Kind string

const (
	KindPlaceholder Kind = "placeholder"
	KindText        Kind = "text"
	KindLink        Kind = "link"
	KindBadge       Kind = "badge"
)

// Cell is the structured display representation of one value. The UI decides
// the actual markup; this layer only decides what the value means.
type Cell struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text,omitempty"`
	Href     string `json:"href,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Size     string `json:"size,omitempty"`
	Emphasis bool   `json:"emphasis,omitempty"`
	Muted    bool   `json:"muted,omitempty"`
}

// countryCode is prefixed to contact links; the product targets Brazilian
// phone numbers.
const countryCode = "55"

// timestampLayout renders day/month hour:minute, the pt-BR dashboard format.
const timestampLayout = "02/01 15:04"

type rule struct {
	name    string
	matches func(value any, col schema.Descriptor) bool
	render  func(value any, col schema.Descriptor) Cell
}

// rules is evaluated top to bottom; the first match wins. Name checks are
// case-insensitive substring matches on the raw column name.
var rules = []rule{
	{
		name: "null_placeholder",
		matches: func(value any, _ schema.Descriptor) bool {
			return value == nil
		},
		render: func(_ any, _ schema.Descriptor) Cell {
			return Cell{Kind: KindPlaceholder, Text: "-", Muted: true}
		},
	},
	{
		name:    "contact_link",
		matches: nameContainsAny("telefone", "whatsapp", "phone"),
		render: func(value any, _ schema.Descriptor) Cell {
			text := stringify(value)
			return Cell{
				Kind: KindLink,
				Text: text,
				Href: "https://wa.me/" + countryCode + digitsOnly(text),
			}
		},
	},
	{
		name: "timestamp",
		matches: func(value any, col schema.Descriptor) bool {
			return col.Type == schema.TypeTimestamp || containsFold(col.Name, "created_at")
		},
		render: func(value any, _ schema.Descriptor) Cell {
			text := stringify(value)
			if t, ok := schema.ParseTimestamp(text); ok {
				text = t.Format(timestampLayout)
			}
			return Cell{Kind: KindText, Text: text, Muted: true}
		},
	},
	{
		name:    "category_badge",
		matches: nameContainsAny("campanha", "campaign", "categoria", "status"),
		render: func(value any, _ schema.Descriptor) Cell {
			return Cell{Kind: KindBadge, Text: stringify(value), Variant: "primary"}
		},
	},
	{
		name:    "product_badge",
		matches: nameContainsAny("produto", "product", "interesse", "interest"),
		render: func(value any, _ schema.Descriptor) Cell {
			return Cell{Kind: KindBadge, Text: stringify(value), Variant: "neutral", Size: "sm"}
		},
	},
	{
		name:    "email_link",
		matches: nameContainsAny("email"),
		render: func(value any, _ schema.Descriptor) Cell {
			text := stringify(value)
			return Cell{Kind: KindLink, Text: text, Href: "mailto:" + text}
		},
	},
	{
		name:    "person_name",
		matches: nameContainsAny("nome", "name"),
		render: func(value any, _ schema.Descriptor) Cell {
			return Cell{Kind: KindText, Text: stringify(value), Emphasis: true}
		},
	},
	{
		name: "plain_text",
		matches: func(any, schema.Descriptor) bool {
			return true
		},
		render: func(value any, _ schema.Descriptor) Cell {
			return Cell{Kind: KindText, Text: stringify(value)}
		},
	},
}

// RenderCell maps a value and its column descriptor to a display element.
// Pure; every input renders to something, nothing errors.
func RenderCell(value any, col schema.Descriptor) Cell {
	for _, r := range rules {
		if r.matches(value, col) {
			return r.render(value, col)
		}
	}
	// unreachable: the last rule matches everything
	return Cell{Kind: KindText, Text: stringify(value)}
}

func nameContainsAny(fragments ...string) func(any, schema.Descriptor) bool {
	return func(_ any, col schema.Descriptor) bool {
		for _, fragment := range fragments {
			if containsFold(col.Name, fragment) {
				return true
			}
		}
		return false
	}
}

func containsFold(name, fragment string) bool {
	return strings.Contains(strings.ToLower(name), fragment)
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
