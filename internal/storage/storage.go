// Package storage keeps session snapshots and finished-game statistics in an
// in-memory BadgerDB instance.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyStats          = "stats"
	prefixSnapshot    = "snapshot/"
	prefixPositionHit = "position/"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("not found")

// Outcome is the result of a finished game.
type Outcome int

const (
	WhiteWins Outcome = iota
	BlackWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	}
	return "*"
}

// Snapshot is the stored view of a session after its latest move.
type Snapshot struct {
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	FEN       string    `json:"fen"`
	State     string    `json:"state"`
	Winner    string    `json:"winner,omitempty"`
	Moves     []string  `json:"moves"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameStats aggregates finished games.
type GameStats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	ByState     map[string]int `json:"by_state"`
	TotalPlies  int            `json:"total_plies"`
	LongestGame int            `json:"longest_game"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		ByState: make(map[string]int),
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Outcome Outcome
	// State is the terminal status name, e.g. "checkmate".
	State string
	Plies int
}

// Options configures Open.
type Options struct {
	// InMemory keeps all data in RAM. It is the only supported mode.
	InMemory bool
}

// Storage wraps BadgerDB.
type Storage struct {
	db *badger.DB

	// mu serializes read-modify-write updates.
	mu sync.Mutex
}

// Open creates a storage instance.
func Open(o Options) (*Storage, error) {
	if !o.InMemory {
		return nil, errors.New("storage: only in-memory mode is supported")
	}

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSnapshot stores snap under its session ID, replacing any previous one.
func (s *Storage) SaveSnapshot(snap *Snapshot) error {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixSnapshot+snap.SessionID), data)
	})
}

// LoadSnapshot returns the snapshot stored for sessionID, or ErrNotFound.
func (s *Storage) LoadSnapshot(sessionID string) (*Snapshot, error) {
	snap := &Snapshot{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixSnapshot + sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("snapshot %s: %w", sessionID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, snap)
		})
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// DeleteSnapshot removes the snapshot of sessionID. Deleting a missing
// snapshot is not an error.
func (s *Storage) DeleteSnapshot(sessionID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixSnapshot + sessionID))
	})
}

// ListSnapshots returns every stored snapshot in key order.
func (s *Storage) ListSnapshots() ([]*Snapshot, error) {
	var out []*Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixSnapshot)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			snap := &Snapshot{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, snap)
			}); err != nil {
				return err
			}
			out = append(out, snap)
		}
		return nil
	})

	return out, err
}

// RecordPosition counts one more visit of the position with the given hash
// and returns the updated count.
func (s *Storage) RecordPosition(hash uint64) (int, error) {
	key := []byte(fmt.Sprintf("%s%016x", prefixPositionHit, hash))
	var count int

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &count)
			}); err != nil {
				return err
			}
		}

		count++
		data, err := json.Marshal(count)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})

	return count, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordResult records a completed game and updates statistics
func (s *Storage) RecordResult(result GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlies += result.Plies
	if result.Plies > stats.LongestGame {
		stats.LongestGame = result.Plies
	}
	if result.State != "" {
		stats.ByState[result.State]++
	}

	switch result.Outcome {
	case WhiteWins:
		stats.WhiteWins++
	case BlackWins:
		stats.BlackWins++
	default:
		stats.Draws++
	}

	return s.SaveStats(stats)
}

// AveragePlies returns the mean game length in plies.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}
