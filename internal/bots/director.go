// Package bots drives simulated players. When a round enters the voting
// phase the director schedules one delayed vote per bot, so lobbies padded
// with bots still reach the results phase.
package bots

import (
	"log"
	"sync"
	"time"

	"word-imposter/internal/game"
)

// VoteFunc casts a vote on behalf of a bot. The director treats errors as
// best-effort failures and only logs them.
type VoteFunc func(lobbyCode string, roundNumber int, voterID, targetID string) error

type Options struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Vote     VoteFunc

	// Rand and After are injectable for tests. Nil picks the production
	// defaults (shared PRNG, time.AfterFunc).
	Rand  game.Source
	After func(d time.Duration, fn func())
}

type scheduleKey struct {
	lobbyCode string
	round     int
	botID     string
}

type Director struct {
	opts Options

	mu        sync.Mutex
	scheduled map[scheduleKey]struct{}
}

func NewDirector(opts Options) *Director {
	if opts.MinDelay <= 0 {
		opts.MinDelay = time.Second
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	if opts.Rand == nil {
		opts.Rand = game.NewSource()
	}
	if opts.After == nil {
		opts.After = func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		}
	}
	return &Director{
		opts:      opts,
		scheduled: make(map[scheduleKey]struct{}),
	}
}

// VotingStarted schedules one vote per bot for the given round. Calling it
// again for the same round is a no-op per bot, so the poll loop can invoke it
// on every snapshot without double votes. Entries for earlier rounds of the
// lobby are pruned.
func (d *Director) VotingStarted(lobbyCode string, roundNumber int, botIDs, candidateIDs []string) {
	if len(botIDs) == 0 || len(candidateIDs) == 0 {
		return
	}

	d.mu.Lock()
	for key := range d.scheduled {
		if key.lobbyCode == lobbyCode && key.round != roundNumber {
			delete(d.scheduled, key)
		}
	}
	pending := make([]string, 0, len(botIDs))
	for _, botID := range botIDs {
		key := scheduleKey{lobbyCode: lobbyCode, round: roundNumber, botID: botID}
		if _, done := d.scheduled[key]; done {
			continue
		}
		d.scheduled[key] = struct{}{}
		pending = append(pending, botID)
	}
	delay := make(map[string]time.Duration, len(pending))
	target := make(map[string]string, len(pending))
	for _, botID := range pending {
		delay[botID] = d.pickDelay()
		target[botID] = d.pickTarget(botID, candidateIDs)
	}
	d.mu.Unlock()

	for _, botID := range pending {
		targetID := target[botID]
		if targetID == "" {
			continue
		}
		botID := botID
		d.opts.After(delay[botID], func() {
			if err := d.opts.Vote(lobbyCode, roundNumber, botID, targetID); err != nil {
				log.Printf("bot vote failed code=%s round=%d bot=%s err=%v", lobbyCode, roundNumber, botID, err)
			}
		})
	}
}

func (d *Director) pickDelay() time.Duration {
	spread := d.opts.MaxDelay - d.opts.MinDelay
	if spread <= 0 {
		return d.opts.MinDelay
	}
	return d.opts.MinDelay + time.Duration(d.opts.Rand.IntN(int(spread/time.Millisecond)+1))*time.Millisecond
}

func (d *Director) pickTarget(botID string, candidateIDs []string) string {
	others := make([]string, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if id != botID {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return ""
	}
	return others[d.opts.Rand.IntN(len(others))]
}
