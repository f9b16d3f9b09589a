package search

import (
	"sort"
)

// ParamGrid maps a hyperparameter name to its candidate values.
type ParamGrid map[string][]any

// Combinations expands the grid into one params map per candidate. Keys are
// walked in sorted order and values in their declared order, so the expansion
// is identical across runs and tie-breaks on equal scores stay stable.
func (g ParamGrid) Combinations() []map[string]any {
	keys := make([]string, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	combos := []map[string]any{{}}
	for _, key := range keys {
		values := g[key]
		if len(values) == 0 {
			continue
		}
		next := make([]map[string]any, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, value := range values {
				expanded := make(map[string]any, len(combo)+1)
				for k, v := range combo {
					expanded[k] = v
				}
				expanded[key] = value
				next = append(next, expanded)
			}
		}
		combos = next
	}
	return combos
}

// Size is the number of candidates the grid expands to.
func (g ParamGrid) Size() int {
	size := 1
	for _, values := range g {
		if len(values) > 0 {
			size *= len(values)
		}
	}
	return size
}
