package persistence

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"time"

	bolt "go.etcd.io/bbolt"

	"frontier.dev/internal/models"
)

var (
	savesBucket = []byte("saves")
	metaBucket  = []byte("saves_meta")
)

// BoltStore keeps saves in a local bbolt file, one key per slot
type BoltStore struct {
	db     *bolt.DB
	logger *log.Logger
}

// NewBoltStore opens or creates the save file at path
func NewBoltStore(path string, logger *log.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = log.Default()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{savesBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &BoltStore{db: db, logger: logger}, nil
}

// meta is the fixed-size record stored next to each payload
func encodeMeta(version uint16, at time.Time) []byte {
	buf := make([]byte, 10)
	binary.BigEndian.PutUint16(buf[0:], version)
	binary.BigEndian.PutUint64(buf[2:], uint64(at.UnixNano()))
	return buf
}

func decodeMeta(buf []byte) (int, time.Time) {
	if len(buf) != 10 {
		return 0, time.Time{}
	}
	version := binary.BigEndian.Uint16(buf[0:])
	at := time.Unix(0, int64(binary.BigEndian.Uint64(buf[2:])))
	return int(version), at
}

// Save writes a world to a slot, replacing what it held
func (s *BoltStore) Save(ctx context.Context, slot string, state *models.WorldState) error {
	payload, err := encodeBytes(state)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(savesBucket).Put([]byte(slot), payload); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put([]byte(slot), encodeMeta(StateVersion, time.Now()))
	})
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	s.logger.Printf("[SAVE] Slot %s: %d bytes", slot, len(payload))
	return nil
}

// Load reads the world of a slot
func (s *BoltStore) Load(ctx context.Context, slot string) (*models.WorldState, error) {
	var payload []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(savesBucket).Get([]byte(slot))
		if value == nil {
			return fmt.Errorf("slot %s: %w", slot, ErrNotFound)
		}
		// values are only valid inside the transaction
		payload = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeBytes(payload)
}

// List returns the stored saves ordered by slot name
func (s *BoltStore) List(ctx context.Context) ([]SaveInfo, error) {
	var saves []SaveInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		return tx.Bucket(savesBucket).ForEach(func(k, v []byte) error {
			version, at := decodeMeta(meta.Get(k))
			saves = append(saves, SaveInfo{Slot: string(k), Version: version, Size: len(v), UpdatedAt: at})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	return saves, ctx.Err()
}

// Delete removes a slot
func (s *BoltStore) Delete(ctx context.Context, slot string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		saves := tx.Bucket(savesBucket)
		if saves.Get([]byte(slot)) == nil {
			return fmt.Errorf("slot %s: %w", slot, ErrNotFound)
		}
		if err := saves.Delete([]byte(slot)); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Delete([]byte(slot))
	})
}

// Close closes the save file
func (s *BoltStore) Close() error {
	s.logger.Println("[SAVE] Closing save file...")
	return s.db.Close()
}
