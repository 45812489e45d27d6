package selfplay

import (
	"tossholdem/common/defaultmap"
	"tossholdem/common/safemap"
	"tossholdem/game"
)

// StrategyCache memoizes a per-player root strategy row (one slice per
// hand, each a per-action probability) keyed by public state. Two distinct
// branches of the real game tree can converge on an identical
// game.PublicState (same street, board, and last action, reached through
// different betting histories); RecursiveStrategy/RecursiveStrategyToLeaf
// share one cache across a single top-level call and record every solved
// row into it. Whether a subgame root is re-solved is decided from their
// out map, not from this cache. Adapted from
// cfr.ActionsCache (cfr/actions_cache.go): same per-player
// Defaultmap-of-Safemap shape, keyed directly by the comparable
// game.PublicState value instead of a separately computed state hash,
// since PublicState here is already a small flat value type.
type StrategyCache struct {
	perPlayer defaultmap.DefaultSafemap[int, safemap.Safemap[game.PublicState, [][]float64]]
}

// NewStrategyCache returns an empty cache.
func NewStrategyCache() *StrategyCache {
	return &StrategyCache{
		perPlayer: defaultmap.New[int](func() safemap.Safemap[game.PublicState, [][]float64] {
			return safemap.New[game.PublicState, [][]float64]()
		}),
	}
}

// Get returns the cached strategy row for player at state, if present.
func (c *StrategyCache) Get(player int, state game.PublicState) ([][]float64, bool) {
	return c.perPlayer.Get(player).Get(state)
}

// Set records row as player's strategy at state.
func (c *StrategyCache) Set(player int, state game.PublicState, row [][]float64) {
	c.perPlayer.Get(player).Set(state, row)
}
