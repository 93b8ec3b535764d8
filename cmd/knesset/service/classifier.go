package service

import (
	"context"
	"fmt"

	"github.com/karopastal/Open-Knesset/common/logger"
	"github.com/karopastal/Open-Knesset/common/models"
)

// Stand is a party's or bloc's computed position on one vote. A party whose
// members split below the threshold takes no stand, and no deviation flag
// is ever raised against a StandNone.
type Stand int

const (
	StandNone Stand = iota
	StandFor
	StandAgainst
)

func (s Stand) String() string {
	switch s {
	case StandFor:
		return "for"
	case StandAgainst:
		return "against"
	default:
		return "none"
	}
}

// blocStand computes the stand of a voting bloc from its for/against totals.
// A bloc stands for when its for-share strictly exceeds the threshold
// fraction of for+against, symmetrically for standing against.
func blocStand(forCount, againstCount int, threshold float64) Stand {
	total := float64(forCount + againstCount)
	switch {
	case float64(forCount) > threshold*total && forCount > 0:
		return StandFor
	case float64(againstCount) > threshold*total && againstCount > 0:
		return StandAgainst
	default:
		return StandNone
	}
}

// Classifier recomputes per-action deviation flags and vote-level aggregate
// counters for finalized votes. Classification is a full recompute and is
// idempotent over unchanged action data.
type Classifier struct {
	votes     VoteStore
	bills     BillStore
	members   MemberStore
	parties   PartyStore
	threshold float64
	log       *logger.Logger
}

// NewClassifier creates a vote classifier with the configured stand
// threshold.
func NewClassifier(votes VoteStore, bills BillStore, members MemberStore, parties PartyStore, threshold float64, log *logger.Logger) *Classifier {
	return &Classifier{
		votes:     votes,
		bills:     bills,
		members:   members,
		parties:   parties,
		threshold: threshold,
		log:       log,
	}
}

// Classify recomputes all VoteAction flags and the Vote's aggregates from
// scratch and persists them. Any unresolvable party aborts the whole vote.
func (c *Classifier) Classify(ctx context.Context, voteID int64) error {
	vote, err := c.votes.GetVote(ctx, voteID)
	if err != nil {
		return fmt.Errorf("load vote %d: %w", voteID, err)
	}

	actions, err := c.votes.ListActions(ctx, voteID)
	if err != nil {
		return fmt.Errorf("load actions for vote %d: %w", voteID, err)
	}

	parties, err := c.parties.ListParties(ctx)
	if err != nil {
		return fmt.Errorf("load parties: %w", err)
	}
	resolver := NewPartyResolver(parties)

	memberIDs := make([]int64, 0, len(actions))
	for _, a := range actions {
		memberIDs = append(memberIDs, a.MemberID)
	}
	members, err := c.members.GetMembers(ctx, memberIDs)
	if err != nil {
		return fmt.Errorf("load members for vote %d: %w", voteID, err)
	}

	proposers, err := c.proposersForVote(ctx, voteID)
	if err != nil {
		return fmt.Errorf("load proposers for vote %d: %w", voteID, err)
	}

	result, err := classify(vote, actions, members, resolver, proposers, c.threshold)
	if err != nil {
		return fmt.Errorf("classify vote %d: %w", voteID, err)
	}

	for _, a := range result.actions {
		if err := c.votes.SaveActionFlags(ctx, a); err != nil {
			return fmt.Errorf("save action %d: %w", a.ID, err)
		}
	}
	if err := c.votes.SaveAggregates(ctx, result.vote); err != nil {
		return fmt.Errorf("save aggregates for vote %d: %w", voteID, err)
	}

	c.log.Info("vote classified",
		"vote_id", voteID,
		"actions", len(result.actions),
		"against_party", result.vote.AgainstParty,
		"controversy", result.vote.Controversy,
	)

	return nil
}

// proposersForVote returns the set of members that proposed any bill this
// vote is about, across pre-votes, first votes and approval votes.
func (c *Classifier) proposersForVote(ctx context.Context, voteID int64) (map[int64]bool, error) {
	bills, err := c.bills.BillsForVote(ctx, voteID)
	if err != nil {
		return nil, err
	}
	proposers := make(map[int64]bool)
	for _, b := range bills {
		for _, id := range b.ProposerIDs {
			proposers[id] = true
		}
	}
	return proposers, nil
}

// classification holds the recomputed projections for one vote
type classification struct {
	vote    *models.Vote
	actions []*models.VoteAction
}

// classify is the pure classification pass: given a vote, its actions, the
// member and party snapshots and the proposers set, it recomputes every
// deviation flag and aggregate counter.
func classify(vote *models.Vote, actions []*models.VoteAction, members map[int64]*models.Member,
	resolver *PartyResolver, proposers map[int64]bool, threshold float64) (*classification, error) {

	date := vote.Date()

	// Party for/against tallies, resolving each member's party at the vote
	// date rather than their current one.
	actionParty := make(map[int64]*models.Party, len(actions))
	partyFor := make(map[int64]int)
	partyAgainst := make(map[int64]int)
	for _, a := range actions {
		member, exists := members[a.MemberID]
		if !exists {
			return nil, fmt.Errorf("action %d references unknown member %d: %w", a.ID, a.MemberID, ErrNoParty)
		}
		party, err := resolver.PartyAt(member, date)
		if err != nil {
			return nil, err
		}
		actionParty[a.MemberID] = party

		switch a.Type {
		case models.VoteFor:
			partyFor[party.ID]++
		case models.VoteAgainst:
			partyAgainst[party.ID]++
		}
	}

	// Party stands
	partyStand := make(map[int64]Stand)
	for _, p := range resolver.Parties() {
		partyStand[p.ID] = blocStand(partyFor[p.ID], partyAgainst[p.ID], threshold)
	}

	// Coalition/opposition stands, with membership resolved at vote date
	var coalitionFor, coalitionAgainst, oppositionFor, oppositionAgainst int
	for _, p := range resolver.Parties() {
		if p.IsCoalitionAt(date) {
			coalitionFor += partyFor[p.ID]
			coalitionAgainst += partyAgainst[p.ID]
		} else {
			oppositionFor += partyFor[p.ID]
			oppositionAgainst += partyAgainst[p.ID]
		}
	}
	coalitionStand := blocStand(coalitionFor, coalitionAgainst, threshold)
	oppositionStand := blocStand(oppositionFor, oppositionAgainst, threshold)

	// Per-action flags, recomputed from scratch
	result := &classification{vote: vote, actions: actions}
	var againstParty, againstCoalition, againstOpposition, againstOwnBill int
	var forCount, againstCount, abstainCount int

	for _, a := range actions {
		a.AgainstParty = false
		a.AgainstCoalition = false
		a.AgainstOpposition = false
		a.AgainstOwnBill = false

		party := actionParty[a.MemberID]
		a.PartyID = party.ID

		if deviates(partyStand[party.ID], a.Type) {
			a.AgainstParty = true
			againstParty++
		}

		if party.IsCoalitionAt(date) {
			if deviates(coalitionStand, a.Type) {
				a.AgainstCoalition = true
				againstCoalition++
			}
		} else {
			if deviates(oppositionStand, a.Type) {
				a.AgainstOpposition = true
				againstOpposition++
			}
		}

		if proposers[a.MemberID] && a.Type == models.VoteAgainst {
			a.AgainstOwnBill = true
			againstOwnBill++
		}

		switch a.Type {
		case models.VoteFor:
			forCount++
		case models.VoteAgainst:
			againstCount++
		case models.VoteAbstain:
			abstainCount++
		}
	}

	vote.VotesCount = len(actions)
	vote.ForVotesCount = forCount
	vote.AgainstVotesCount = againstCount
	vote.AbstainVotesCount = abstainCount
	vote.Controversy = min(forCount, againstCount)
	vote.AgainstParty = againstParty
	vote.AgainstCoalition = againstCoalition
	vote.AgainstOpposition = againstOpposition
	vote.AgainstOwnBill = againstOwnBill
	vote.VoteType = models.VoteTypeForTitle(vote.Title)

	return result, nil
}

// deviates reports whether an action disagrees with a computed stand
func deviates(stand Stand, typ models.VoteActionType) bool {
	return (stand == StandFor && typ == models.VoteAgainst) ||
		(stand == StandAgainst && typ == models.VoteFor)
}
