package options

import (
	"context"
	"log"

	"github.com/prathibha999-pd/realvalueAI/valuation"
)

// Source is the one backend call the loader needs.
type Source interface {
	FormOptions(ctx context.Context) (*valuation.FormOptions, error)
}

// Load makes a single attempt to fetch the option catalog. On any failure, or
// on a success payload with an empty list, it substitutes the built-in
// fallback so the form is never left unusable. The second return value
// reports whether the fallback was used. There is no retry loop: one attempt
// per session.
func Load(ctx context.Context, src Source) (Catalog, bool) {
	opts, err := src.FormOptions(ctx)
	if err != nil {
		log.Printf("[WARN] form-options unavailable, using built-in catalog: %v", err)
		return Fallback(), true
	}
	cat := Catalog{
		Locations:     opts.Locations,
		PropertyTypes: opts.PropertyTypes,
		Statuses:      opts.Statuses,
	}
	if !cat.Complete() {
		log.Printf("[WARN] form-options returned an incomplete catalog, using built-in catalog")
		return Fallback(), true
	}
	return cat, false
}
