package standings

import "github.com/okian/standings/internal/domain/model"

// DefaultDimension is the overall ranking.
const DefaultDimension = "rank"

// GroupFunc assigns an entity to a sub-group. An empty key leaves the entity
// outside every group.
type GroupFunc func(model.Entity) string

// Dimension is one independently computed rank assignment.
type Dimension struct {
	Name string
	// Group restricts ranking to entities sharing a key. Nil ranks everyone together.
	Group GroupFunc
}

// Overall is the default dimension.
func Overall() Dimension { return Dimension{Name: DefaultDimension} }

// AssignRanks gives standard competition ranks to records that are already
// in sort order. Only records accepted by eligible are numbered; the rest
// are Unranked and do not take up a position. With a group function each
// group is ranked on its own and entities with no group are Unranked.
func AssignRanks(sorted []Record, eligible Filter, group GroupFunc) map[string]Rank {
	ranks := make(map[string]Rank, len(sorted))
	buckets := make(map[string][]int)
	var order []string

	for i, r := range sorted {
		ranks[r.ID] = Unranked
		if !eligible.accepts(r) {
			continue
		}
		k := ""
		if group != nil {
			if k = group(r.Entity); k == "" {
				continue
			}
		}
		if _, seen := buckets[k]; !seen {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], i)
	}

	for _, k := range order {
		rankSequence(sorted, buckets[k], ranks)
	}
	return ranks
}

// rankSequence walks indices in order, reusing the previous rank while keys
// stay equal and jumping to the 1-based position otherwise.
func rankSequence(sorted []Record, idx []int, ranks map[string]Rank) {
	counts := make(map[int]int, len(idx))
	positions := make([]int, len(idx))
	current := 0
	for n, i := range idx {
		if n == 0 || compareKeys(sorted[idx[n-1]].key, sorted[i].key) != 0 {
			current = n + 1
		}
		positions[n] = current
		counts[current]++
	}
	for n, i := range idx {
		ranks[sorted[i].ID] = Rank{Position: positions[n], Tied: counts[positions[n]] > 1}
	}
}
