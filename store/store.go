// Package store persists session records, the daily diary and the recovery
// checkpoint in a bbolt database
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/timeutil"
)

const (
	sessionBucket = "sessions"
	diaryBucket   = "diary"
	runtimeBucket = "runtime"
	metaBucket    = "meta"
)

var checkpointKey = []byte("checkpoint")

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
	now func() time.Time
}

var _ engine.Store = (*Client)(nil)

// AppendSession adds rec to the session log. Records are keyed by the time
// the run started.
func (c *Client) AppendSession(rec *engine.SessionRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).
			Put(timeutil.ToKey(rec.StartedAt), value)
	})
}

// MergeDiary adds delta to the diary entry of delta.Day within a single
// transaction.
func (c *Client) MergeDiary(delta *engine.DiaryDelta) error {
	return c.Update(func(tx *bolt.Tx) error {
		return mergeDiary(tx.Bucket([]byte(diaryBucket)), delta, c.now())
	})
}

func mergeDiary(b *bolt.Bucket, delta *engine.DiaryDelta, at time.Time) error {
	var entry engine.DiaryEntry

	if v := b.Get([]byte(delta.Day)); len(v) > 0 {
		if err := json.Unmarshal(v, &entry); err != nil {
			return errCorruptDiary.Fmt(delta.Day).Wrap(err)
		}
	}

	entry.Merge(delta, at)

	value, err := json.Marshal(&entry)
	if err != nil {
		return err
	}

	return b.Put([]byte(delta.Day), value)
}

// SaveCheckpoint replaces the recovery checkpoint.
func (c *Client) SaveCheckpoint(cp *engine.Checkpoint) error {
	value, err := json.Marshal(cp)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(runtimeBucket)).Put(checkpointKey, value)
	})
}

// ClearCheckpoint removes the recovery checkpoint if there is one.
func (c *Client) ClearCheckpoint() error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(runtimeBucket)).Delete(checkpointKey)
	})
}

// Checkpoint returns the saved checkpoint, or nil if there is none.
func (c *Client) Checkpoint() (*engine.Checkpoint, error) {
	var cp *engine.Checkpoint

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(runtimeBucket)).Get(checkpointKey)
		if len(v) == 0 {
			return nil
		}

		cp = &engine.Checkpoint{}

		return json.Unmarshal(v, cp)
	})
	if err != nil {
		return nil, errCorruptCheckpoint.Wrap(err)
	}

	return cp, nil
}

// GetSessions returns the session records that overlap the period between
// startTime and endTime. If labels is not empty, only records with one of
// the labels are returned.
func (c *Client) GetSessions(
	startTime, endTime time.Time,
	labels []string,
) ([]*engine.SessionRecord, error) {
	var sessions []*engine.SessionRecord

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()
		lower := timeutil.ToKey(startTime)
		upper := timeutil.ToKey(endTime)

		cur.Seek(lower)

		// the previous record may have started before the period but
		// ended within it
		k, v := cur.Prev()
		if k != nil {
			var rec engine.SessionRecord

			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}

			if !rec.EndedAt.After(startTime) {
				k, v = cur.Next()
			}
		} else {
			k, v = cur.Seek(lower)
		}

		for ; k != nil && bytes.Compare(k, upper) <= 0; k, v = cur.Next() {
			var rec engine.SessionRecord

			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}

			if len(labels) > 0 && !slices.Contains(labels, rec.Label) {
				continue
			}

			sessions = append(sessions, &rec)
		}

		return nil
	})

	return sessions, err
}

// GetDiary returns the diary entries for the days between startDay and endDay
// inclusive, in chronological order. An empty startDay starts at the first
// recorded day.
func (c *Client) GetDiary(startDay, endDay string) ([]*engine.DiaryEntry, error) {
	var entries []*engine.DiaryEntry

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(diaryBucket)).Cursor()

		k, v := cur.First()
		if startDay != "" {
			k, v = cur.Seek([]byte(startDay))
		}

		for ; k != nil && string(k) <= endDay; k, v = cur.Next() {
			var entry engine.DiaryEntry

			if err := json.Unmarshal(v, &entry); err != nil {
				return errCorruptDiary.Fmt(string(k)).Wrap(err)
			}

			entries = append(entries, &entry)
		}

		return nil
	})

	return entries, err
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{
		DB:  db,
		now: time.Now,
	}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{
			sessionBucket,
			diaryBucket,
			runtimeBucket,
			metaBucket,
		} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return c.migrate(tx)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}
