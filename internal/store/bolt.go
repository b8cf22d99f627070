package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/jask/widgetd/internal/widget"
)

const bucketWidgets = "widgets"

// Bolt persists widgets as JSON values in a single bbolt bucket keyed by id.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens or creates the bbolt file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketWidgets))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize widgets bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (s *Bolt) Get(_ context.Context, id string) (widget.Widget, bool, error) {
	var (
		w  widget.Widget
		ok bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketWidgets)).Get([]byte(id))
		if v == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(v, &w)
	})
	return w, ok, err
}

func (s *Bolt) Put(ctx context.Context, widgets ...widget.Widget) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketWidgets))
		for _, w := range widgets {
			v, err := json.Marshal(w)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(w.ID), v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Bolt) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketWidgets)).Delete([]byte(id))
	})
}

func (s *Bolt) All(_ context.Context) ([]widget.Widget, error) {
	var out []widget.Widget
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketWidgets))
		out = make([]widget.Widget, 0, b.Stats().KeyN)
		return b.ForEach(func(_, v []byte) error {
			var w widget.Widget
			if err := json.Unmarshal(v, &w); err != nil {
				return err
			}
			out = append(out, w)
			return nil
		})
	})
	return out, err
}

// Reset recreates the widgets bucket.
func (s *Bolt) Reset(_ context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketWidgets)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketWidgets))
		return err
	})
}

func (s *Bolt) Close() error { return s.db.Close() }
