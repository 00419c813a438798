// Package dump implements the trivial disk dump spec §1's Non-goals
// name as the one persistence surface the library core carries
// ("persistence of in-memory state to disk beyond a trivial dump"): a
// one-table SQLite database holding a CBOR-encoded snapshot of a
// Froidure-Pin enumerator's state, keyed by run ID. A dump is
// write-only — nothing in this package reads a snapshot back to seed
// or resume a Runner.
package dump

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	_ "modernc.org/sqlite"

	"github.com/ehrlich-b/semigroups/fpsemigroup"
	"github.com/ehrlich-b/semigroups/present"
)

// Snapshot is the CBOR-encoded payload stored per dump: the element
// count, the defining relations discovered so far, and the
// currently-known right Cayley graph (spec §3 EnumeratorState, minus
// the factorisation parents and left graph, which are reconstructible
// from the right graph and rules and not worth persisting in a
// "trivial" dump).
type Snapshot struct {
	ElementCount int            `cbor:"element_count"`
	Rules        []present.Rule `cbor:"rules"`
	RightGraph   [][]int        `cbor:"right_graph"`
}

// Store is a handle to the dump database.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the dump database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dump db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS dumps (
		run_id     TEXT PRIMARY KEY,
		dumped_at  DATETIME NOT NULL,
		snapshot   BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create dumps table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Dump snapshots fp's currently-enumerated state and writes it under
// runID, overwriting any prior dump for the same run. It never blocks
// on further enumeration: RightGraphRow reads only what has already
// been discovered.
func (s *Store) Dump(runID string, fp *fpsemigroup.FroidurePin) error {
	n := fp.CurrentSize()
	snap := Snapshot{
		ElementCount: n,
		Rules:        fp.Rules(),
		RightGraph:   make([][]int, n),
	}
	for i := 0; i < n; i++ {
		snap.RightGraph[i] = fp.RightGraphRow(i)
	}
	blob, err := cbor.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO dumps (run_id, dumped_at, snapshot) VALUES (?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET dumped_at = excluded.dumped_at, snapshot = excluded.snapshot`,
		runID, time.Now().UTC(), blob,
	)
	if err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	return nil
}

// Load reads back a previously written snapshot by run ID, for offline
// inspection only — never to seed a live enumerator.
func (s *Store) Load(runID string) (Snapshot, time.Time, error) {
	var blob []byte
	var dumpedAt time.Time
	err := s.db.QueryRow(`SELECT dumped_at, snapshot FROM dumps WHERE run_id = ?`, runID).
		Scan(&dumpedAt, &blob)
	if err != nil {
		return Snapshot{}, time.Time{}, fmt.Errorf("load dump %s: %w", runID, err)
	}
	var snap Snapshot
	if err := cbor.Unmarshal(blob, &snap); err != nil {
		return Snapshot{}, time.Time{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, dumpedAt, nil
}
