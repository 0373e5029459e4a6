package domain

// Counts holds one number per mark.
type Counts struct {
	X int `json:"X"`
	O int `json:"O"`
}

// Of returns the count for mark c.
func (n Counts) Of(c Cell) int {
	switch c {
	case X:
		return n.X
	case O:
		return n.O
	default:
		return 0
	}
}

func (n *Counts) inc(c Cell) {
	switch c {
	case X:
		n.X++
	case O:
		n.O++
	}
}

// Tally counts wins per mark across matches. New matches leave it alone;
// only Reset clears it.
type Tally struct {
	wins Counts
}

// RecordWin credits one win to c. Calling it on a nil Tally does nothing.
func (t *Tally) RecordWin(c Cell) {
	if t == nil {
		return
	}
	t.wins.inc(c)
}

// Reset zeroes both counters.
func (t *Tally) Reset() { t.wins = Counts{} }

// Wins returns the current counters.
func (t *Tally) Wins() Counts { return t.wins }
