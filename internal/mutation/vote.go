package mutation

import "github.com/parley-dev/parley/shared/domain"

// ApplyVote computes the next vote state from the previous one and the
// requested direction, with toggle semantics: voting the same direction again
// clears the vote, voting the opposite direction moves both counters.
//
// It is a pure function of its inputs so the same computation serves the
// optimistic local application and the reconciliation of a server response.
func ApplyVote(prev domain.Vote, likes, dislikes int, direction domain.Vote) (domain.Vote, int, int) {
	if direction != domain.VoteUp && direction != domain.VoteDown {
		return prev, likes, dislikes
	}

	// Retract the previous vote first.
	switch prev {
	case domain.VoteUp:
		likes--
	case domain.VoteDown:
		dislikes--
	}

	if direction == prev {
		// Same direction toggles the vote off.
		return domain.VoteNone, likes, dislikes
	}

	switch direction {
	case domain.VoteUp:
		likes++
	case domain.VoteDown:
		dislikes++
	}
	return direction, likes, dislikes
}
