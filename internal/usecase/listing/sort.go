package listing

import (
	"fmt"
	"sort"

	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
	"github.com/serviplace/searchapi/internal/domain/query"
)

// applySort reorders services in place by the requested key. The sort is
// stable so equal keys keep their relevance order from the search phase.
func applySort(services []domcat.Service, spec query.Sort, stats statsLookup) error {
	keys := make([]float64, len(services))
	for i := range services {
		v, err := filterValue(&services[i], spec.By, stats)
		if err != nil {
			return fmt.Errorf("sort by %q: %w", spec.By, err)
		}
		keys[i] = v
	}

	indexed := make([]int, len(services))
	for i := range indexed {
		indexed[i] = i
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		if spec.Reverse {
			return keys[indexed[a]] > keys[indexed[b]]
		}
		return keys[indexed[a]] < keys[indexed[b]]
	})

	reordered := make([]domcat.Service, len(services))
	for i, idx := range indexed {
		reordered[i] = services[idx]
	}
	copy(services, reordered)
	return nil
}
