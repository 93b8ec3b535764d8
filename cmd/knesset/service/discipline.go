package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/karopastal/Open-Knesset/common/cache"
	"github.com/karopastal/Open-Knesset/common/logger"
	"github.com/karopastal/Open-Knesset/common/repository"
)

// Discipline computes voting-discipline statistics for members, parties and
// candidate lists from persisted vote-action flags. All results are derived
// on demand; nothing here is stored state.
//
// Results come as (value, ok): ok is false when the sample is too small for
// a meaningful percentage. That guard is a statistical-noise filter, not an
// error.
type Discipline struct {
	stats     StatsStore
	members   MemberStore
	parties   PartyStore
	knessets  KnessetStore
	cache     cache.Cache
	cacheTTL  time.Duration
	minSample int
	now       func() time.Time
	log       *logger.Logger
}

// NewDiscipline creates a discipline aggregator. cache may be nil to
// disable vote-count caching.
func NewDiscipline(stats StatsStore, members MemberStore, parties PartyStore, knessets KnessetStore,
	statsCache cache.Cache, cacheTTL time.Duration, minSample int, log *logger.Logger) *Discipline {
	return &Discipline{
		stats:     stats,
		members:   members,
		parties:   parties,
		knessets:  knessets,
		cache:     statsCache,
		cacheTTL:  cacheTTL,
		minSample: minSample,
		now:       time.Now,
		log:       log,
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// MemberVotesCount counts a member's actions excluding no-votes. The
// time-unbounded count is cached per member with a TTL; staleness up to the
// TTL is accepted, there is no invalidation on write.
func (d *Discipline) MemberVotesCount(ctx context.Context, memberID int64, from *time.Time) (int, error) {
	cacheKey := fmt.Sprintf("votes_count_%d", memberID)

	if from == nil && d.cache != nil {
		if raw, hit, err := d.cache.Get(ctx, cacheKey); err == nil && hit {
			if count, err := strconv.Atoi(string(raw)); err == nil {
				return count, nil
			}
		}
	}

	count, err := d.stats.CountActions(ctx, repository.ActionFilter{
		MemberID:      &memberID,
		From:          from,
		ExcludeNoVote: true,
	})
	if err != nil {
		return 0, fmt.Errorf("count votes for member %d: %w", memberID, err)
	}

	if from == nil && d.cache != nil {
		if err := d.cache.Set(ctx, cacheKey, []byte(strconv.Itoa(count)), d.cacheTTL); err != nil {
			d.log.Warn("caching votes count failed", "member_id", memberID, "error", err)
		}
	}

	return count, nil
}

// MemberDiscipline returns the percentage of a member's votes that did not
// deviate from their party's stand, in [0, 100]. ok is false below the
// minimum sample.
func (d *Discipline) MemberDiscipline(ctx context.Context, memberID int64, from *time.Time) (float64, bool, error) {
	total, err := d.MemberVotesCount(ctx, memberID, from)
	if err != nil {
		return 0, false, err
	}
	if total <= d.minSample {
		// not enough data
		return 0, false, nil
	}

	against, err := d.stats.CountActions(ctx, repository.ActionFilter{
		MemberID:     &memberID,
		From:         from,
		AgainstParty: true,
	})
	if err != nil {
		return 0, false, fmt.Errorf("count against-party for member %d: %w", memberID, err)
	}

	return round1(100 * float64(total-against) / float64(total)), true, nil
}

// MemberCoalitionDiscipline is MemberDiscipline against the member's bloc:
// the coalition stand if their current party sits in the coalition,
// otherwise the opposition stand.
func (d *Discipline) MemberCoalitionDiscipline(ctx context.Context, memberID int64, from *time.Time) (float64, bool, error) {
	total, err := d.MemberVotesCount(ctx, memberID, from)
	if err != nil {
		return 0, false, err
	}
	if total <= d.minSample {
		return 0, false, nil
	}

	member, err := d.members.GetMember(ctx, memberID)
	if err != nil {
		return 0, false, fmt.Errorf("load member %d: %w", memberID, err)
	}
	party, err := d.parties.GetParty(ctx, member.CurrentPartyID)
	if err != nil {
		return 0, false, fmt.Errorf("load party %d: %w", member.CurrentPartyID, err)
	}

	filter := repository.ActionFilter{MemberID: &memberID, From: from}
	if party.IsCoalition {
		filter.AgainstCoalition = true
	} else {
		filter.AgainstOpposition = true
	}

	against, err := d.stats.CountActions(ctx, filter)
	if err != nil {
		return 0, false, fmt.Errorf("count against-bloc for member %d: %w", memberID, err)
	}

	return round1(100 * float64(total-against) / float64(total)), true, nil
}

// MemberAverageVotesPerMonth returns the member's vote rate over their
// service time.
func (d *Discipline) MemberAverageVotesPerMonth(ctx context.Context, memberID int64) (float64, error) {
	member, err := d.members.GetMember(ctx, memberID)
	if err != nil {
		return 0, fmt.Errorf("load member %d: %w", memberID, err)
	}

	serviceDays := member.ServiceTimeDays(d.now())
	if serviceDays == 0 {
		return 0, nil
	}

	count, err := d.MemberVotesCount(ctx, memberID, nil)
	if err != nil {
		return 0, err
	}

	return 30.0 * float64(count) / serviceDays, nil
}

// PartyVotesCount counts a party's members' actions since the current
// Knesset convened, excluding no-votes.
func (d *Discipline) PartyVotesCount(ctx context.Context, partyID int64) (int, error) {
	start, err := d.currentKnessetStart(ctx)
	if err != nil {
		return 0, err
	}
	count, err := d.stats.CountActions(ctx, repository.ActionFilter{
		CurrentPartyID: &partyID,
		From:           &start,
		ExcludeNoVote:  true,
	})
	if err != nil {
		return 0, fmt.Errorf("count votes for party %d: %w", partyID, err)
	}
	return count, nil
}

// PartyDiscipline returns the party-discipline percentage for the current
// Knesset. ok is false below the minimum sample.
func (d *Discipline) PartyDiscipline(ctx context.Context, partyID int64) (float64, bool, error) {
	total, err := d.PartyVotesCount(ctx, partyID)
	if err != nil {
		return 0, false, err
	}
	if total <= d.minSample {
		return 0, false, nil
	}

	start, err := d.currentKnessetStart(ctx)
	if err != nil {
		return 0, false, err
	}
	against, err := d.stats.CountActions(ctx, repository.ActionFilter{
		CurrentPartyID: &partyID,
		From:           &start,
		AgainstParty:   true,
	})
	if err != nil {
		return 0, false, fmt.Errorf("count against-party for party %d: %w", partyID, err)
	}

	return round1(100 * float64(total-against) / float64(total)), true, nil
}

// PartyCoalitionDiscipline is PartyDiscipline against the party's bloc. For
// an opposition party this is actually opposition discipline.
func (d *Discipline) PartyCoalitionDiscipline(ctx context.Context, partyID int64) (float64, bool, error) {
	total, err := d.PartyVotesCount(ctx, partyID)
	if err != nil {
		return 0, false, err
	}
	if total <= d.minSample {
		return 0, false, nil
	}

	party, err := d.parties.GetParty(ctx, partyID)
	if err != nil {
		return 0, false, fmt.Errorf("load party %d: %w", partyID, err)
	}

	start, err := d.currentKnessetStart(ctx)
	if err != nil {
		return 0, false, err
	}
	filter := repository.ActionFilter{CurrentPartyID: &partyID, From: &start}
	if party.IsCoalition {
		filter.AgainstCoalition = true
	} else {
		filter.AgainstOpposition = true
	}

	against, err := d.stats.CountActions(ctx, filter)
	if err != nil {
		return 0, false, fmt.Errorf("count against-bloc for party %d: %w", partyID, err)
	}

	return round1(100 * float64(total-against) / float64(total)), true, nil
}

// PartyVotesPerSeat returns the party's vote count normalized by its seats.
// A party with no seats is invalid input, not a division crash.
func (d *Discipline) PartyVotesPerSeat(ctx context.Context, partyID int64) (float64, error) {
	party, err := d.parties.GetParty(ctx, partyID)
	if err != nil {
		return 0, fmt.Errorf("load party %d: %w", partyID, err)
	}
	if party.Seats <= 0 {
		return 0, fmt.Errorf("party %d: %w", partyID, ErrZeroSeats)
	}

	count, err := d.PartyVotesCount(ctx, partyID)
	if err != nil {
		return 0, err
	}

	return round1(float64(count) / float64(party.Seats)), nil
}

// ListVotesCount counts actions by a candidate list's members, excluding
// no-votes.
func (d *Discipline) ListVotesCount(ctx context.Context, memberIDs []int64) (int, error) {
	count, err := d.stats.CountActions(ctx, repository.ActionFilter{
		MemberIDs:     memberIDs,
		ExcludeNoVote: true,
	})
	if err != nil {
		return 0, fmt.Errorf("count votes for candidate list: %w", err)
	}
	return count, nil
}

// ListDiscipline returns the discipline percentage for a candidate list.
func (d *Discipline) ListDiscipline(ctx context.Context, memberIDs []int64) (float64, bool, error) {
	total, err := d.ListVotesCount(ctx, memberIDs)
	if err != nil {
		return 0, false, err
	}
	if total <= d.minSample {
		return 0, false, nil
	}

	against, err := d.stats.CountActions(ctx, repository.ActionFilter{
		MemberIDs:    memberIDs,
		AgainstParty: true,
	})
	if err != nil {
		return 0, false, fmt.Errorf("count against-party for candidate list: %w", err)
	}

	return round1(100 * float64(total-against) / float64(total)), true, nil
}

// ListVotesPerSeat returns the candidate list's vote count per member slot.
func (d *Discipline) ListVotesPerSeat(ctx context.Context, memberIDs []int64) (float64, error) {
	if len(memberIDs) == 0 {
		return 0, fmt.Errorf("candidate list is empty: %w", ErrZeroSeats)
	}

	count, err := d.ListVotesCount(ctx, memberIDs)
	if err != nil {
		return 0, err
	}

	return round1(float64(count) / float64(len(memberIDs))), nil
}

func (d *Discipline) currentKnessetStart(ctx context.Context) (time.Time, error) {
	knesset, err := d.knessets.CurrentKnesset(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("load current knesset: %w", err)
	}
	return knesset.StartDate, nil
}
