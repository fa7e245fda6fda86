package allocation

import (
	"sort"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
)

// greedyState names the phases of the greedy fill. Transitions depend only
// on the remaining budget relative to the smallest minimum-investment unit,
// so the procedure is deterministic for a given candidate set and budget.
type greedyState int

const (
	stateSeeding greedyState = iota
	stateTopKFilling
	stateDraining
	stateDone
)

// greedyRun holds the mutable state of one heuristic run
type greedyRun struct {
	candidates []contracts.Candidate // sorted by density descending, stable
	remaining  float64
	globalMin  float64 // smallest min invest across all candidates
	topK       int

	lines []contracts.AllocationLine
	index map[string]int // offering name -> position in lines
}

// runGreedy executes the three-pass heuristic: seed one lot per affordable
// candidate in density order, sweep the top-K repeatedly, then drain the
// remainder into whichever affordable candidate has the highest density.
func (e *Engine) runGreedy(candidates []contracts.Candidate, budget float64) *contracts.Allocation {
	sorted := make([]contracts.Candidate, len(candidates))
	copy(sorted, candidates)
	// Stable: ties keep original candidate order
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Density() > sorted[j].Density()
	})

	globalMin := sorted[0].MinInvest
	for _, c := range sorted[1:] {
		if c.MinInvest < globalMin {
			globalMin = c.MinInvest
		}
	}

	run := &greedyRun{
		candidates: sorted,
		remaining:  budget,
		globalMin:  globalMin,
		topK:       e.config.TopFillK,
		lines:      make([]contracts.AllocationLine, 0, len(sorted)),
		index:      make(map[string]int, len(sorted)),
	}

	for state := stateSeeding; state != stateDone; {
		switch state {
		case stateSeeding:
			run.seed()
			state = stateTopKFilling
		case stateTopKFilling:
			run.fillTopK()
			state = stateDraining
		case stateDraining:
			run.drain()
			state = stateDone
		}
	}

	sortByComposite(run.lines)

	return &contracts.Allocation{
		Lines:    run.lines,
		Leftover: run.remaining,
		Strategy: contracts.StrategyGreedy,
	}
}

// addLot records one lot for the candidate, merging into its existing line
func (r *greedyRun) addLot(c contracts.Candidate) {
	if pos, exists := r.index[c.Name]; exists {
		r.lines[pos].Lots++
		r.lines[pos].Invested += c.MinInvest
	} else {
		r.index[c.Name] = len(r.lines)
		r.lines = append(r.lines, contracts.AllocationLine{
			Name:      c.Name,
			Lots:      1,
			MinInvest: c.MinInvest,
			Invested:  c.MinInvest,
			Composite: c.Composite,
		})
	}
	r.remaining -= c.MinInvest
}

// seed gives one lot to each affordable candidate in density order
func (r *greedyRun) seed() {
	for _, c := range r.candidates {
		if r.remaining >= c.MinInvest {
			r.addLot(c)
		}
	}
}

// fillTopK repeatedly sweeps the top-K candidates by density, adding one
// lot per affordable candidate per sweep. Sweeping stops as soon as the
// remaining budget cannot buy any candidate's smallest unit, including
// mid-sweep.
func (r *greedyRun) fillTopK() {
	k := r.topK
	if k > len(r.candidates) {
		k = len(r.candidates)
	}
	top := r.candidates[:k]

	for r.remaining >= r.globalMin {
		added := false
		for _, c := range top {
			if r.remaining >= c.MinInvest {
				r.addLot(c)
				added = true
			}
			if r.remaining < r.globalMin {
				break
			}
		}
		if !added {
			break
		}
	}
}

// drain spends whatever is left one lot at a time on the highest-density
// affordable candidate.
func (r *greedyRun) drain() {
	for r.remaining >= r.globalMin {
		// Candidates are sorted by density, so the first affordable one
		// has maximum density.
		picked := false
		for _, c := range r.candidates {
			if c.MinInvest <= r.remaining {
				r.addLot(c)
				picked = true
				break
			}
		}
		if !picked {
			break
		}
	}
}
