package scanner

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Note is one entry of an astronote listing page.
type Note struct {
	Text    string
	Title   string
	Authors []string
	Link    string
}

// Table is an objects table from a note's detail page. Rows are keyed by header.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Layout knows the HTML schema of a listing and its detail pages.
// Keeping selectors behind this interface lets the schema change without
// touching the scraping workflow.
type Layout interface {
	Name() string
	ParseListing(doc *goquery.Document) ([]Note, error)
	ParseObjects(doc *goquery.Document) ([]Table, error)
}

// Registry keeps a mapping from layout names to their implementations.
type Registry struct {
	layouts map[string]Layout
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{layouts: map[string]Layout{}}
}

// Register adds or replaces a layout implementation.
func (r *Registry) Register(layout Layout) {
	if r.layouts == nil {
		r.layouts = map[string]Layout{}
	}
	r.layouts[layout.Name()] = layout
}

// Resolve returns a layout by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Layout, error) {
	if layout, ok := r.layouts[name]; ok {
		return layout, nil
	}
	return nil, fmt.Errorf("layout %s is not registered", name)
}
