// Package item defines the static data model for catalog entries.
package item

import (
	"github.com/xraph/storefront/types"
)

// Data is the static definition of a catalog entry. Behavioral attributes
// (purchase limit, expiry duration, hooks) live on the engine's Item type;
// Data is what catalog packs declare up front.
type Data struct {
	ID          string       `json:"id"`
	Category    string       `json:"category"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image,omitempty"`
	Price       types.Amount `json:"price"`

	// Badges maps a badge label to a display style.
	Badges map[string]string `json:"badges,omitempty"`

	// DefaultAvailable is the availability used when no custom
	// availability hook has an opinion.
	DefaultAvailable bool `json:"default_available"`
}

// View is the externally-serializable description of an item as seen by
// one user. Every field has passed through the hook system. Badges are
// omitted from the wire entirely when empty, never serialized as null.
type View struct {
	ID          string            `json:"id"`
	Category    string            `json:"category"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Image       string            `json:"image,omitempty"`
	Price       types.Amount      `json:"price"`
	Badges      map[string]string `json:"badges,omitempty"`
	Available   bool              `json:"available"`
}

// CategoryView is one category's slice of a user-facing shop view:
// the items in catalog insertion order plus the category subtitle.
type CategoryView struct {
	Category string `json:"category"`
	Subtitle string `json:"subtitle,omitempty"`
	Items    []View `json:"items"`
}
