// Package confluence fetches wiki pages over the Confluence REST API and
// normalizes their storage-format content for downstream analysis.
package confluence

import (
	"context"
	"time"
)

// Page is the standardized page record the loader works with.
type Page struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Space   string    `json:"space"`
	URL     string    `json:"url"`
	Labels  []string  `json:"labels"`
	Version int       `json:"version"`
	Updated time.Time `json:"updated"`
	Content string    `json:"content"`
}

// API is the page source the ingestion pipeline reads from. The real client
// and the offline mock both satisfy it.
type API interface {
	// GetPagesByIDs fetches the given pages and, when includeChildren is
	// set, their full child subtrees. Pages that fail to fetch are
	// skipped.
	GetPagesByIDs(ctx context.Context, pageIDs []string, includeChildren bool) ([]Page, error)

	// GetPageContent fetches a single page with content.
	GetPageContent(ctx context.Context, pageID string) (*Page, error)
}
