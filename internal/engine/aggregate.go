package engine

// Score is the retained evaluation of one move.
type Score struct {
	CpScore   int
	InfoDepth int
}

// Aggregation keeps one score per first move, in the order moves were first reported.
type Aggregation struct {
	order  []string
	byMove map[string]Score
}

// Aggregate folds the records of one search. Records shallower than minDepth are dropped and a
// later record for a move always replaces the earlier one, even when its score is worse.
func Aggregate(records []InfoRecord, minDepth int) *Aggregation {
	agg := &Aggregation{byMove: make(map[string]Score)}
	for _, rec := range records {
		if rec.Depth < minDepth {
			continue
		}
		agg.add(rec.Move(), Score{CpScore: rec.CpScore, InfoDepth: rec.Depth})
	}
	return agg
}

func (a *Aggregation) add(move string, s Score) {
	if _, ok := a.byMove[move]; !ok {
		a.order = append(a.order, move)
	}
	a.byMove[move] = s
}

func (a *Aggregation) Lookup(move string) (Score, bool) {
	s, ok := a.byMove[move]
	return s, ok
}

func (a *Aggregation) Len() int {
	return len(a.order)
}

// Moves returns the aggregated moves in first-seen order.
func (a *Aggregation) Moves() []string {
	return append([]string(nil), a.order...)
}
