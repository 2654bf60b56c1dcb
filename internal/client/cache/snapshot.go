package cache

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
	"github.com/dmitrijs2005/paperkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
	"golang.org/x/crypto/blake2b"
)

// SnapshotKey is the fixed key the catalog snapshot is stored under.
const SnapshotKey = "allPapers"

// envelope is the stored shape. Checksum covers the raw Items bytes so a
// truncated or hand-edited value is detected on load.
type envelope struct {
	Checksum string          `json:"checksum"`
	Items    json.RawMessage `json:"items"`
}

// Store persists the catalog snapshot.
type Store struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log.With("component", "cache")}
}

// Load returns the last saved snapshot. The boolean is false when nothing was
// ever saved or the stored value is unreadable; freshness is not checked.
func (s *Store) Load(ctx context.Context) ([]models.PaperSummary, bool) {
	items, err := s.read(ctx)
	if errors.Is(err, metadata.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.log.Warn(ctx, "treating cached snapshot as absent", "key", SnapshotKey, "error", err)
		return nil, false
	}
	return items, true
}

// Save overwrites the snapshot with items. Failures are logged, not returned.
func (s *Store) Save(ctx context.Context, items []models.PaperSummary) {
	if err := s.write(ctx, items); err != nil {
		s.log.Warn(ctx, "dropping snapshot write", "key", SnapshotKey, "items", len(items), "error", err)
		return
	}
	s.log.Debug(ctx, "snapshot saved", "key", SnapshotKey, "items", len(items))
}

func (s *Store) read(ctx context.Context) ([]models.PaperSummary, error) {
	raw, err := s.repo.Get(ctx, SnapshotKey)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCacheRead, err)
	}
	return decode(raw)
}

func (s *Store) write(ctx context.Context, items []models.PaperSummary) error {
	raw, err := encode(items)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	if err := s.repo.Set(ctx, SnapshotKey, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

func encode(items []models.PaperSummary) ([]byte, error) {
	if items == nil {
		items = []models.PaperSummary{}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Checksum: checksum(body), Items: body})
}

// decode accepts the checksummed envelope and, for snapshots written by older
// clients, a bare JSON array.
func decode(raw []byte) ([]models.PaperSummary, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrCacheRead)
	}

	body := raw
	if raw[0] == '{' {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCacheRead, err)
		}
		if env.Checksum != checksum(env.Items) {
			return nil, fmt.Errorf("%w: checksum mismatch", ErrCacheRead)
		}
		body = env.Items
	}

	var items []models.PaperSummary
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheRead, err)
	}
	return items, nil
}

func checksum(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}
