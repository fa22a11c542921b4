package prefs

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/boltdb/bolt"

	"github.com/parley-dev/parley/internal/navigation"
	"github.com/parley-dev/parley/shared/domain"
	"github.com/parley-dev/parley/shared/logger"
)

// Persisted UI state: active tab, sort preferences, navigation position.
// Every read falls back to a documented default when the key is absent or
// does not deserialize, so a corrupt state file can never break startup.

const schemaVersion = 1

var (
	bucketName = []byte("prefs")

	keyVersion    = []byte("schema_version")
	keyActiveTab  = []byte("active_tab")
	keyThreadSort = []byte("thread_sort")
	keyReplySort  = []byte("reply_sort")
	keyPosition   = []byte("nav_position")
)

// Defaults per key.
const (
	DefaultTab = "forum"
)

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the state file and migrates the schema. A version
// mismatch wipes the bucket: persisted UI state is a cache of convenience,
// not data.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		stored, _ := strconv.Atoi(string(b.Get(keyVersion)))
		if stored != schemaVersion {
			if stored != 0 {
				logger.Log.Info("resetting persisted ui state",
					"component", "prefs", "from_version", stored, "to_version", schemaVersion)
			}
			if err := tx.DeleteBucket(bucketName); err != nil {
				return err
			}
			if b, err = tx.CreateBucket(bucketName); err != nil {
				return err
			}
		}
		return b.Put(keyVersion, []byte(strconv.Itoa(schemaVersion)))
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state file: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) put(key, value []byte) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, value)
	})
	if err != nil {
		logger.Log.Error("persisting ui state failed", "component", "prefs", "key", string(key), "error", err)
	}
}

func (s *Store) get(key []byte) []byte {
	var out []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(key); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out
}

func (s *Store) ActiveTab() string {
	if v := s.get(keyActiveTab); len(v) > 0 {
		return string(v)
	}
	return DefaultTab
}

func (s *Store) SaveActiveTab(tab string) {
	s.put(keyActiveTab, []byte(tab))
}

func (s *Store) ThreadSort() domain.ThreadSort {
	switch v := domain.ThreadSort(s.get(keyThreadSort)); v {
	case domain.SortPopular, domain.SortRecent, domain.SortNew:
		return v
	}
	return domain.SortPopular
}

func (s *Store) SaveThreadSort(v domain.ThreadSort) {
	s.put(keyThreadSort, []byte(v))
}

func (s *Store) ReplySort() domain.ReplySort {
	switch v := domain.ReplySort(s.get(keyReplySort)); v {
	case domain.ReplySortPopular, domain.ReplySortNew:
		return v
	}
	return domain.ReplySortPopular
}

func (s *Store) SaveReplySort(v domain.ReplySort) {
	s.put(keyReplySort, []byte(v))
}

// SavePosition implements navigation.PositionStore.
func (s *Store) SavePosition(p navigation.Position) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	s.put(keyPosition, raw)
}

// LoadPosition implements navigation.PositionStore. Corrupt payloads report
// absence so navigation falls back to the list view.
func (s *Store) LoadPosition() (navigation.Position, bool) {
	raw := s.get(keyPosition)
	if len(raw) == 0 {
		return navigation.Position{}, false
	}
	var p navigation.Position
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warn("corrupt persisted position ignored", "component", "prefs", "error", err)
		return navigation.Position{}, false
	}
	return p, true
}
