package academic

import "sort"

// ScoreAccumulator sums score contributions for one label and keeps a
// deduplicated, capped list of evidence snippets.
type ScoreAccumulator struct {
	Score    float64
	Evidence []string
}

// Add records one contribution. maxEvidence <= 0 means unbounded.
func (a *ScoreAccumulator) Add(score float64, evidence string, maxEvidence int) {
	a.Score += score
	a.appendEvidence(evidence, maxEvidence)
}

// Merge folds other into a: scores sum, evidence is dedup-appended.
func (a *ScoreAccumulator) Merge(other ScoreAccumulator, maxEvidence int) {
	a.Score += other.Score
	for _, e := range other.Evidence {
		a.appendEvidence(e, maxEvidence)
	}
}

func (a *ScoreAccumulator) appendEvidence(evidence string, maxEvidence int) {
	if evidence == "" {
		return
	}
	if maxEvidence > 0 && len(a.Evidence) >= maxEvidence {
		return
	}
	for _, existing := range a.Evidence {
		if existing == evidence {
			return
		}
	}
	a.Evidence = append(a.Evidence, evidence)
}

// Tally maps label keys to their accumulators.
type Tally map[string]*ScoreAccumulator

func (t Tally) Add(key string, score float64, evidence string, maxEvidence int) {
	acc, ok := t[key]
	if !ok {
		acc = &ScoreAccumulator{}
		t[key] = acc
	}
	acc.Add(score, evidence, maxEvidence)
}

// Merge folds every accumulator of other into t.
func (t Tally) Merge(other Tally, maxEvidence int) {
	for key, acc := range other {
		dst, ok := t[key]
		if !ok {
			dst = &ScoreAccumulator{}
			t[key] = dst
		}
		dst.Merge(*acc, maxEvidence)
	}
}

// Max returns the highest score, or 0 for an empty tally.
func (t Tally) Max() float64 {
	var best float64
	for _, acc := range t {
		if acc.Score > best {
			best = acc.Score
		}
	}
	return best
}

// Ranked is one tally entry in rank order.
type Ranked struct {
	Key      string
	Score    float64
	Evidence []string
}

// Rank sorts by score descending, then key ascending, and keeps at most
// limit entries with a positive score.
func (t Tally) Rank(limit int) []Ranked {
	all := make([]Ranked, 0, len(t))
	for key, acc := range t {
		all = append(all, Ranked{Key: key, Score: acc.Score, Evidence: acc.Evidence})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].Key < all[j].Key
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := all[:0]
	for _, r := range all {
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}

// TopGap reports the gap between the two best scores. ok is false when
// fewer than two labels scored.
func (t Tally) TopGap() (gap float64, ok bool) {
	ranked := t.Rank(2)
	if len(ranked) < 2 {
		return 0, false
	}
	return ranked[0].Score - ranked[1].Score, true
}
