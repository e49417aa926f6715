package scheduler

import "time"

// latestEnd returns the latest end date across all placed tasks, the date
// that closes the project.
func latestEnd(placed map[string]*placement, ids []string) time.Time {
	var end time.Time
	for _, id := range ids {
		if p := placed[id]; p.end.After(end) {
			end = p.end
		}
	}
	return end
}

// criticalPaths walks backwards from every task that finishes on the project
// end date, following the binding predecessor at each step. A predecessor is
// binding when the bound implied by its edge equals the successor's start;
// among several binding predecessors the one with the later end date wins,
// then the smaller identifier. One path per terminal, terminals in ascending
// identifier order, each path root first.
func criticalPaths(g *depGraph, placed map[string]*placement) [][]string {
	projectEnd := latestEnd(placed, g.ids)

	var paths [][]string
	for _, id := range g.ids {
		if !placed[id].end.Equal(projectEnd) {
			continue
		}
		paths = append(paths, walkBack(g, placed, id))
	}
	return paths
}

func walkBack(g *depGraph, placed map[string]*placement, terminal string) []string {
	reversed := []string{terminal}
	for cur := terminal; ; {
		next := bindingPredecessor(g, placed, cur)
		if next == "" {
			break
		}
		reversed = append(reversed, next)
		cur = next
	}

	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

func bindingPredecessor(g *depGraph, placed map[string]*placement, id string) string {
	p := placed[id]
	best := ""
	for _, e := range g.incoming[id] {
		if !p.bounds[e.from].Equal(p.start) {
			continue
		}
		if best == "" {
			best = e.from
			continue
		}
		candidate, current := placed[e.from], placed[best]
		if candidate.end.After(current.end) || (candidate.end.Equal(current.end) && e.from < best) {
			best = e.from
		}
	}
	return best
}

// totalDuration is the inclusive calendar-day span from the epoch to the
// latest end date. Both ends are normalized UTC midnights, so the division
// is exact.
func totalDuration(epoch time.Time, placed map[string]*placement, ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	return int(latestEnd(placed, ids).Sub(epoch).Hours()/24) + 1
}
