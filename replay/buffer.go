// Package replay is the training-example sink self-play writes to and the
// external value network trains from. Grounded on
// cfr.MemoryBuffer (cfr/memory.go): a per-player bucket of
// samples pruned oldest-first once it outgrows a configured cap. That
// buffer keeps everything in a Go map and persists it with encoding/json
// on demand; here the index is kept in modernc.org/sqlite (via
// github.com/jmoiron/sqlx), which runs age-based pruning and uniform random
// sampling, while the (often large) query/value payloads stay in an
// in-process map to avoid a blob round trip on every sample. Payloads are
// not persisted, so index rows left by an earlier process are not returned.
package replay

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Entry is one (query, values) training pair produced at a subgame root,
// the wire payload valuenet.TrainingExample carries onward to the network.
type Entry struct {
	GameID uuid.UUID
	Query  []float32
	Values []float32
}

// Sink is the contract self-play drivers push training examples through.
type Sink interface {
	Push(ctx context.Context, player int, entry Entry) error
}

type sampleRow struct {
	ID        int64     `db:"id"`
	Player    int       `db:"player"`
	GameID    string    `db:"game_id"`
	CreatedAt time.Time `db:"created_at"`
}

// PriorityBuffer is a per-player replay buffer with a sqlite index; samples
// are drawn uniformly at random, with no priority weighting.
type PriorityBuffer struct {
	db *sqlx.DB
	mu sync.RWMutex

	payloads map[int64]Entry

	maxSamples int
	pruneRatio float32
}

// NewPriorityBuffer opens (creating if absent) the sqlite index at path.
// maxSamples bounds how many samples a single player's bucket may hold
// before pruneRatio's oldest fraction is evicted, matching
// MemoryBuffer's maxSamples/pruneRatio knobs.
func NewPriorityBuffer(path string, maxSamples int, pruneRatio float32) (*PriorityBuffer, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player INTEGER NOT NULL,
		game_id TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("replay: create schema: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_samples_player ON samples(player)`); err != nil {
		return nil, fmt.Errorf("replay: create index: %w", err)
	}
	return &PriorityBuffer{
		db:         db,
		payloads:   make(map[int64]Entry),
		maxSamples: maxSamples,
		pruneRatio: pruneRatio,
	}, nil
}

// truncatedNow rounds to the start of the current minute (via
// github.com/jinzhu/now) so CreatedAt timestamps within the same minute
// compare equal, keeping prune's ORDER BY stable across bursts of pushes
// that land in the same tick.
func truncatedNow() time.Time {
	return now.New(time.Now()).BeginningOfMinute()
}

// Push inserts entry into player's bucket and prunes if the bucket has
// outgrown maxSamples.
func (b *PriorityBuffer) Push(ctx context.Context, player int, entry Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if entry.GameID == uuid.Nil {
		entry.GameID = uuid.New()
	}

	res, err := b.db.ExecContext(ctx,
		`INSERT INTO samples (player, game_id, created_at) VALUES (?, ?, ?)`,
		player, entry.GameID.String(), truncatedNow())
	if err != nil {
		return fmt.Errorf("replay: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("replay: last insert id: %w", err)
	}
	b.payloads[id] = entry

	var count int
	if err := b.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM samples WHERE player = ?`, player); err != nil {
		return fmt.Errorf("replay: count: %w", err)
	}
	if count > b.maxSamples {
		return b.pruneOldest(ctx, player)
	}
	return nil
}

// pruneOldest deletes the oldest pruneRatio fraction of player's bucket,
// mirroring MemoryBuffer.pruneOldSamples.
func (b *PriorityBuffer) pruneOldest(ctx context.Context, player int) error {
	var rows []sampleRow
	if err := b.db.SelectContext(ctx, &rows,
		`SELECT id, player, game_id, created_at FROM samples WHERE player = ? ORDER BY created_at ASC`, player); err != nil {
		return fmt.Errorf("replay: select for prune: %w", err)
	}
	removeCount := int(float32(len(rows)) * b.pruneRatio)
	for i := 0; i < removeCount && i < len(rows); i++ {
		if _, err := b.db.ExecContext(ctx, `DELETE FROM samples WHERE id = ?`, rows[i].ID); err != nil {
			return fmt.Errorf("replay: delete: %w", err)
		}
		delete(b.payloads, rows[i].ID)
	}
	return nil
}

// Count returns how many samples player currently has buffered.
func (b *PriorityBuffer) Count(ctx context.Context, player int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var count int
	err := b.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM samples WHERE player = ?`, player)
	return count, err
}

// Sample draws up to batchSize entries uniformly at random from player's
// bucket, in the spirit of MemoryBuffer.GetSamples.
func (b *PriorityBuffer) Sample(ctx context.Context, player int, batchSize int) ([]Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var ids []int64
	if err := b.db.SelectContext(ctx, &ids,
		`SELECT id FROM samples WHERE player = ? ORDER BY RANDOM() LIMIT ?`, player, batchSize); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("replay: sample select: %w", err)
	}

	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := b.payloads[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Close releases the underlying sqlite handle.
func (b *PriorityBuffer) Close() error {
	return b.db.Close()
}

var _ Sink = (*PriorityBuffer)(nil)
