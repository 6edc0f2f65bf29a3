package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var (
	pricesBucket = []byte("prices")
	currentKey   = []byte("current")
	updatedAtKey = []byte("updated_at")
)

// BoltStorage persists the price table and the time it last changed in a bolt
// database file so both survive restarts.
type BoltStorage struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenBolt opens (or creates) the database at path and seeds it with the
// default price table when no table has been stored yet.
func OpenBolt(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	s := &BoltStorage{
		db: db,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}

	err = db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(pricesBucket)
		if err != nil {
			return err
		}
		if bucket.Get(currentKey) != nil {
			return nil
		}
		return putPrices(bucket, defaultPrices, s.now())
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialise prices bucket: %w", err)
	}

	return s, nil
}

// GetPrices returns the stored price table.
func (s *BoltStorage) GetPrices() ([]float64, error) {
	var prices []float64

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(pricesBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", pricesBucket)
		}
		data := bucket.Get(currentKey)
		if data == nil {
			return fmt.Errorf("no price table stored")
		}
		return json.Unmarshal(data, &prices)
	})
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}

	return clonePrices(prices), nil
}

// SetPrices validates and stores the provided price table.
func (s *BoltStorage) SetPrices(prices []float64) error {
	if err := ValidatePrices(prices); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(pricesBucket)
		if err != nil {
			return err
		}
		return putPrices(bucket, prices, s.now())
	})
	if err != nil {
		return fmt.Errorf("write prices: %w", err)
	}
	return nil
}

// PricesUpdatedAt returns when the stored table last changed. The zero time is
// returned for databases written before the timestamp was recorded.
func (s *BoltStorage) PricesUpdatedAt() (time.Time, error) {
	var updatedAt time.Time

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(pricesBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", pricesBucket)
		}
		data := bucket.Get(updatedAtKey)
		if data == nil {
			return nil
		}
		return updatedAt.UnmarshalText(data)
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("read prices timestamp: %w", err)
	}
	return updatedAt, nil
}

// Close releases the database file lock.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}

func putPrices(bucket *bolt.Bucket, prices []float64, at time.Time) error {
	data, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	stamp, err := at.MarshalText()
	if err != nil {
		return err
	}
	if err := bucket.Put(currentKey, data); err != nil {
		return err
	}
	return bucket.Put(updatedAtKey, stamp)
}
