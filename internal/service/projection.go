package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/identity"
	"github.com/fencetrack/fencetrack/internal/normalize"
	"github.com/fencetrack/fencetrack/internal/repository"
)

// projectBouts materializes the reconciled record into bout rows. Insert is
// skip-on-conflict; the only in-place update allowed is filling a bout that
// was previously score-unknown. Complete bouts are immutable.
func projectBouts(ctx context.Context, repos *repository.Repositories, resolver *identity.Resolver, event *domain.Event, record *domain.EventRecord, observedAt time.Time) (int, error) {
	existing, err := repos.Bout.ListByEvent(ctx, event.ID)
	if err != nil {
		return 0, err
	}
	byIdentity := make(map[string]*domain.Bout, len(existing))
	for _, b := range existing {
		byIdentity[b.IdentityKey] = b
	}

	var batch []*domain.Bout
	written := 0
	add := func(candidate *domain.Bout) error {
		if err := candidate.Validate(); err != nil {
			// One malformed score line should not sink the event's commit;
			// it is logged and the bout is left for the next collection.
			log.Printf("skipping bout %s in %s: %v", candidate.IdentityKey, event.EventKey, err)
			return nil
		}
		prior, ok := byIdentity[candidate.IdentityKey]
		if !ok {
			batch = append(batch, candidate)
			written++
			return nil
		}
		if !prior.Complete() && candidate.Complete() {
			prior.Score1 = candidate.Score1
			prior.Score2 = candidate.Score2
			prior.WinnerID = candidate.WinnerID
			prior.ScoreUnknown = false
			if err := repos.Bout.Update(ctx, prior); err != nil {
				return err
			}
			written++
		}
		return nil
	}

	for _, round := range record.PoolRounds {
		for i := range round.Bouts {
			pb := &round.Bouts[i]
			p1, err := resolver.Resolve(ctx, pb.Player1, observedAt)
			if err != nil {
				return written, err
			}
			p2, err := resolver.Resolve(ctx, pb.Player2, observedAt)
			if err != nil {
				return written, err
			}
			s1, s2 := pb.Score1, pb.Score2
			bout := &domain.Bout{
				EventID: event.ID,
				Kind:    domain.BoutKindPool,
				IdentityKey: domain.PoolIdentityKey(round.PoolNumber,
					normalize.IdentityKey(pb.Player1.Name, pb.Player1.Team),
					normalize.IdentityKey(pb.Player2.Name, pb.Player2.Team)),
				PoolNumber: round.PoolNumber,
				Player1ID:  p1.ID,
				Player2ID:  p2.ID,
				Score1:     &s1,
				Score2:     &s2,
			}
			if winner := resolveWinner(pb.Winner, pb.Player1, p1, p2); winner != nil {
				bout.WinnerID = winner
			}
			if err := add(bout); err != nil {
				return written, err
			}
		}
	}

	deMatches := make([]*domain.DEMatch, 0)
	for _, round := range record.DERounds {
		for i := range round.Matches {
			deMatches = append(deMatches, &round.Matches[i])
		}
	}
	if record.ThirdPlace != nil {
		deMatches = append(deMatches, record.ThirdPlace)
	}
	for _, m := range deMatches {
		// Byes and empty placeholders are bracket structure, not bouts.
		if m.Player1.IsZero() || m.Player2.IsZero() {
			continue
		}
		p1, err := resolver.Resolve(ctx, m.Player1, observedAt)
		if err != nil {
			return written, err
		}
		p2, err := resolver.Resolve(ctx, m.Player2, observedAt)
		if err != nil {
			return written, err
		}
		bout := &domain.Bout{
			EventID:      event.ID,
			Kind:         domain.BoutKindDE,
			IdentityKey:  domain.DEIdentityKey(m.RoundName, m.MatchNumber),
			RoundName:    m.RoundName,
			MatchNumber:  m.MatchNumber,
			Player1ID:    p1.ID,
			Player2ID:    p2.ID,
			ScoreUnknown: m.ScoreUnknown,
		}
		if m.Scored() {
			s1, s2 := *m.Score1, *m.Score2
			bout.Score1 = &s1
			bout.Score2 = &s2
		}
		if winner := resolveWinner(m.Winner, m.Player1, p1, p2); winner != nil {
			bout.WinnerID = winner
		}
		if bout.WinnerID == nil && bout.ScoreUnknown {
			// Undecided placeholder: nothing observable yet, skip.
			continue
		}
		if err := add(bout); err != nil {
			return written, err
		}
	}

	if err := repos.Bout.InsertOrSkip(ctx, batch); err != nil {
		return written, err
	}
	return written, nil
}

func resolveWinner(winner, player1 domain.Mention, p1, p2 *domain.Player) *uuid.UUID {
	if winner.IsZero() {
		return nil
	}
	if normalize.Name(winner.Name) == normalize.Name(player1.Name) {
		id := p1.ID
		return &id
	}
	id := p2.ID
	return &id
}

func projectRankings(ctx context.Context, repos *repository.Repositories, resolver *identity.Resolver, event *domain.Event, record *domain.EventRecord, observedAt time.Time) (int, error) {
	if len(record.FinalRankings) == 0 {
		return 0, nil
	}
	seen := make(map[uuid.UUID]bool)
	rankings := make([]*domain.Ranking, 0, len(record.FinalRankings))
	for _, entry := range record.FinalRankings {
		if entry.Player.IsZero() {
			continue
		}
		player, err := resolver.Resolve(ctx, entry.Player, observedAt)
		if err != nil {
			return 0, err
		}
		if seen[player.ID] {
			continue
		}
		seen[player.ID] = true
		rankings = append(rankings, &domain.Ranking{
			EventID:  event.ID,
			PlayerID: player.ID,
			Position: entry.Rank,
		})
	}
	if err := repos.Ranking.UpsertMany(ctx, rankings); err != nil {
		return 0, err
	}
	return len(rankings), nil
}
