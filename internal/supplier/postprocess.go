package supplier

import (
	"regexp"

	"github.com/pharmadocs/invoice-tabulator/internal/table"
)

var (
	reBatchInDesc  = regexp.MustCompile(`Batch:?\s*([A-Za-z0-9\-]+)`)
	reExpiryInDesc = regexp.MustCompile(`Expiry Date:?\s*(\d{1,2}[./\-]\d{1,2}[./\-]\d{2,4})`)
)

func identityPostProcess(t *table.Table) *table.Table {
	return t
}

// genamedPostProcess fills empty batch / expiry_date cells from markers
// embedded in the free-text description. Filling only empty cells keeps the
// function idempotent, and no columns are added, dropped, or reordered.
func genamedPostProcess(t *table.Table) *table.Table {
	if t == nil {
		return nil
	}
	for _, r := range t.Rows {
		desc := r["description"]
		if desc == "" {
			continue
		}
		if r["batch"] == "" {
			if m := reBatchInDesc.FindStringSubmatch(desc); m != nil {
				r["batch"] = m[1]
			}
		}
		if r["expiry_date"] == "" {
			if m := reExpiryInDesc.FindStringSubmatch(desc); m != nil {
				r["expiry_date"] = m[1]
			}
		}
	}
	return t
}
