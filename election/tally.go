// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

// Tally selects the winning proposal: the strictly greatest VoteCount among
// proposals not marked in vetoed, scanning in ascending index order so the
// lowest index wins ties. It returns ErrNoEligibleProposals when there are no
// proposals or every proposal is vetoed.
//
// Tally has no side effects; the same inputs always yield the same index.
func Tally(proposals []Proposal, vetoed map[int]bool) (int, error) {
	winner := -1
	var best uint64
	for i, p := range proposals {
		if vetoed[i] {
			continue
		}
		if winner == -1 || p.VoteCount > best {
			winner = i
			best = p.VoteCount
		}
	}
	if winner == -1 {
		return -1, ErrNoEligibleProposals
	}
	return winner, nil
}
