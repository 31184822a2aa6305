// Package extract drives the extraction pipeline for a single document: text
// acquisition, supplier resolution, service extraction with fallback parsing,
// and cleanup into the supplier's canonical table.
package extract

import (
	"context"

	"github.com/pharmadocs/invoice-tabulator/constants"
)

// TextResult is the outcome of pulling text out of one source file.
type TextResult struct {
	Text   string
	Format constants.Format
	// Pages is the number of pages read for paginated formats, 1 otherwise.
	Pages int
}

// TextExtractor turns a source file into plain invoice text.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (TextResult, error)
}
