package listing

import (
	"fmt"

	"github.com/serviplace/searchapi/internal/domain"
	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
	"github.com/serviplace/searchapi/internal/domain/query"
)

// applyFilters keeps the services whose values fall inside every requested
// bound. rating and popularity read the lineage aggregates, so they follow
// the masterID, not the individual row.
func applyFilters(
	services []domcat.Service, filters map[string]query.Bounds, stats statsLookup,
) ([]domcat.Service, error) {
	if len(filters) == 0 {
		return services, nil
	}

	out := services[:0]
	for _, svc := range services {
		keep := true
		for key, bounds := range filters {
			v, err := filterValue(&svc, key, stats)
			if err != nil {
				return nil, err
			}
			if !bounds.Contains(v) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, svc)
		}
	}
	return out, nil
}

func filterValue(svc *domcat.Service, key string, stats statsLookup) (float64, error) {
	switch key {
	case query.KeyPrice:
		return svc.Price(), nil
	case query.KeyCreationDate:
		return float64(svc.CreatedAt().Unix()), nil
	case query.KeyRating:
		st, err := stats(svc.MasterID())
		if err != nil {
			return 0, err
		}
		return st.Rating(), nil
	case query.KeyPopularity:
		st, err := stats(svc.MasterID())
		if err != nil {
			return 0, err
		}
		return float64(st.Completed), nil
	default:
		// Query validation rejects unknown keys before we get here.
		return 0, fmt.Errorf("filter %q: %w", key, domain.ErrFilterNotSupported)
	}
}
