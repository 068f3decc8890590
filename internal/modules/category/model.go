package category

import (
	"time"

	"github.com/google/uuid"
)

// Category is one node of the two-level storefront taxonomy. A category
// either has no parent (top-level) or a top-level parent; children are
// discovered by reverse lookup on ParentID, never by walking deeper.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Color     string     `json:"color,omitempty"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Node is a top-level category with its direct children, for the
// storefront navigation.
type Node struct {
	Category
	Subcategories []*Category `json:"subcategories"`
}

// AllSlug is the synthetic category matching every product.
const AllSlug = "all"
