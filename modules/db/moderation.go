package db

import (
	"encoding/json"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"main/modules/gate"
)

const moderationBucket = "moderation"

// ModerationStore persists gate records in the shared bolt database,
// one JSON document per user id. It satisfies gate.RecordStore.
type ModerationStore struct{}

func NewModerationStore() (*ModerationStore, error) {
	db, err := GetDB()
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(moderationBucket))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ModerationStore{}, nil
}

func moderationKey(userID int64) []byte {
	return []byte(strconv.FormatInt(userID, 10))
}

func (s *ModerationStore) Get(userID int64) (*gate.Record, bool, error) {
	db, err := GetDB()
	if err != nil {
		return nil, false, err
	}

	var rec *gate.Record
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(moderationBucket))
		if b == nil {
			return nil
		}
		data := b.Get(moderationKey(userID))
		if data == nil {
			return nil
		}
		var r gate.Record
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		rec = &r
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return rec, rec != nil, nil
}

func (s *ModerationStore) Upsert(rec *gate.Record) error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(moderationBucket))
		if err != nil {
			return err
		}
		rec.UpdatedAt = time.Now()
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = rec.UpdatedAt
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(moderationKey(rec.UserID), data)
	})
}

// Update applies mutate inside one write transaction, so concurrent
// updates to different fields of the same record cannot tear. A
// missing record starts zeroed with just the user id set.
func (s *ModerationStore) Update(userID int64, mutate func(*gate.Record)) error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(moderationBucket))
		if err != nil {
			return err
		}
		rec := gate.Record{UserID: userID, CreatedAt: time.Now()}
		if data := b.Get(moderationKey(userID)); data != nil {
			if err := json.Unmarshal(data, &rec); err != nil {
				return err
			}
		}
		mutate(&rec)
		rec.UpdatedAt = time.Now()
		data, err := json.Marshal(&rec)
		if err != nil {
			return err
		}
		return b.Put(moderationKey(userID), data)
	})
}
