package game

import (
	"context"
	"time"
)

// scheduleCleanup replaces the pending cleanup timer. Caller holds mu.
func (g *GameState) scheduleCleanup(d time.Duration, next func(uint64)) {
	if g.cleanupTimer != nil {
		g.cleanupTimer.Stop()
	}
	g.cleanupGen++
	gen := g.cleanupGen
	g.cleanupTimer = g.deps.Scheduler.AfterFunc(d, func() { next(gen) })
}

// cleanupTick drops players whose connection is gone. An empty presence set
// arms a delayed re-check instead of the next regular tick.
func (g *GameState) cleanupTick(gen uint64) {
	subscribers, seq, live, err := g.fetchSubscribers(gen)
	if !live {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyed || gen != g.cleanupGen {
		return
	}
	if err != nil {
		g.logger.Warn().Err(err).Msg("presence fetch failed")
		g.scheduleCleanup(g.deps.Timings.CleanupInterval, g.cleanupTick)
		return
	}

	g.prunePlayers(subscribers, seq)
	if len(subscribers) == 0 {
		g.scheduleCleanup(g.deps.Timings.CleanupTimeout, g.idleRecheck)
		return
	}
	g.scheduleCleanup(g.deps.Timings.CleanupInterval, g.cleanupTick)
}

// idleRecheck destroys the session if nobody came back during the grace period.
func (g *GameState) idleRecheck(gen uint64) {
	subscribers, seq, live, err := g.fetchSubscribers(gen)
	if !live {
		return
	}

	g.mu.Lock()
	if g.destroyed || gen != g.cleanupGen {
		g.mu.Unlock()
		return
	}
	if err != nil {
		g.logger.Warn().Err(err).Msg("presence re-check failed")
		g.scheduleCleanup(g.deps.Timings.CleanupInterval, g.cleanupTick)
		g.mu.Unlock()
		return
	}
	if len(subscribers) > 0 || g.joinSeq != seq {
		g.prunePlayers(subscribers, seq)
		g.scheduleCleanup(g.deps.Timings.CleanupInterval, g.cleanupTick)
		g.mu.Unlock()
		return
	}
	g.cleanupTimer = nil
	g.mu.Unlock()

	g.logger.Info().Msg("no subscribers left, destroying session")
	if g.onIdle != nil {
		g.onIdle(g)
	}
}

// fetchSubscribers queries presence without holding mu. seq is the join
// sequence at the moment the fetch started. live is false when the session
// was torn down or the loop rescheduled in the meantime.
func (g *GameState) fetchSubscribers(gen uint64) ([]string, uint64, bool, error) {
	g.mu.Lock()
	live := !g.destroyed && gen == g.cleanupGen
	seq := g.joinSeq
	g.mu.Unlock()
	if !live {
		return nil, 0, false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.deps.Timings.PublishTimeout)
	defer cancel()
	ids, err := g.deps.Broadcaster.Subscribers(ctx, g.channel)
	return ids, seq, true, err
}

// prunePlayers removes players missing from subscribers. Players who joined
// after the fetch started (joinSeq > seq) are kept. Caller holds mu.
func (g *GameState) prunePlayers(subscribers []string, seq uint64) {
	present := g.subscriberSet(subscribers)
	removed := 0
	for id, p := range g.players {
		if p.joinSeq > seq {
			continue
		}
		if _, ok := present[id]; !ok {
			delete(g.players, id)
			removed++
		}
	}
	if removed == 0 {
		return
	}
	g.logger.Info().Int("removed", removed).Msg("pruned disconnected players")
	g.publish(EventUpdatePlayers, UpdatePlayersPayload{Players: g.playerViews(true)})
}
