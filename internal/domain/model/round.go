package model

import (
	"fmt"
	"slices"
)

// Stage of a round within the tournament.
type Stage string

const (
	StagePreliminary Stage = "preliminary"
	StageElimination Stage = "elimination"
)

// Round describes one round of the tournament.
type Round struct {
	Seq    int
	Name   string
	Stage  Stage
	Silent bool // results are withheld from public displays
}

// RoundList is an ordered, index-addressable list of rounds in ascending
// sequence order. Lookups walk indices; there is no previous-round chain.
type RoundList struct {
	rounds []Round
}

// NewRoundList sorts rounds by sequence number and rejects duplicates.
func NewRoundList(rounds []Round) (RoundList, error) {
	sorted := slices.Clone(rounds)
	slices.SortStableFunc(sorted, func(a, b Round) int { return a.Seq - b.Seq })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Seq == sorted[i-1].Seq {
			return RoundList{}, fmt.Errorf("%w: %d", ErrDuplicateRound, sorted[i].Seq)
		}
	}
	return RoundList{rounds: sorted}, nil
}

// MustRoundList is NewRoundList for fixtures known to be valid.
func MustRoundList(rounds ...Round) RoundList {
	l, err := NewRoundList(rounds)
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of rounds.
func (l RoundList) Len() int { return len(l.rounds) }

// At returns the round at index i.
func (l RoundList) At(i int) Round { return l.rounds[i] }

// All returns a copy of the rounds in ascending order.
func (l RoundList) All() []Round { return slices.Clone(l.rounds) }

// Index returns the index of the round with the given sequence number.
func (l RoundList) Index(seq int) (int, bool) {
	i, found := slices.BinarySearchFunc(l.rounds, seq, func(r Round, s int) int { return r.Seq - s })
	return i, found
}

// Get returns the round with the given sequence number.
func (l RoundList) Get(seq int) (Round, bool) {
	i, ok := l.Index(seq)
	if !ok {
		return Round{}, false
	}
	return l.rounds[i], true
}

func (l RoundList) filter(keep func(Round) bool) RoundList {
	out := make([]Round, 0, len(l.rounds))
	for _, r := range l.rounds {
		if keep(r) {
			out = append(out, r)
		}
	}
	return RoundList{rounds: out}
}

// Until keeps rounds with a sequence number <= seq.
func (l RoundList) Until(seq int) RoundList {
	return l.filter(func(r Round) bool { return r.Seq <= seq })
}

// Preliminary keeps preliminary rounds.
func (l RoundList) Preliminary() RoundList {
	return l.filter(func(r Round) bool { return r.Stage == StagePreliminary })
}

// Visible keeps rounds that are not silent.
func (l RoundList) Visible() RoundList {
	return l.filter(func(r Round) bool { return !r.Silent })
}

// LatestVisible finds the most recent non-silent preliminary round whose
// results may be shown publicly. When releaseAll is false the current round
// itself is still in progress, so the search starts one round earlier.
func (l RoundList) LatestVisible(currentSeq int, releaseAll bool) (Round, bool) {
	i, found := l.Index(currentSeq)
	if !found {
		// Index is the insertion point; step back to the last round before it.
		i--
	} else if !releaseAll {
		i--
	}
	for ; i >= 0; i-- {
		r := l.rounds[i]
		if !r.Silent && r.Stage == StagePreliminary {
			return r, true
		}
	}
	return Round{}, false
}
