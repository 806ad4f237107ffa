package store

import (
	"encoding/json"
	"strconv"

	"go.etcd.io/bbolt"

	"github.com/ayoisaiah/cadence/engine"
)

const schemaVersion = 1

var versionKey = []byte("schema_version")

// migrate brings a database written by an older release up to date.
func (c *Client) migrate(tx *bbolt.Tx) error {
	meta := tx.Bucket([]byte(metaBucket))

	version, _ := strconv.Atoi(string(meta.Get(versionKey)))
	if version >= schemaVersion {
		return nil
	}

	if version < 1 {
		if err := c.rebuildDiary(tx); err != nil {
			return err
		}
	}

	return meta.Put(versionKey, []byte(strconv.Itoa(schemaVersion)))
}

// rebuildDiary derives the diary from the session log for databases that
// predate it. An existing diary is left alone.
func (c *Client) rebuildDiary(tx *bbolt.Tx) error {
	diary := tx.Bucket([]byte(diaryBucket))

	if k, _ := diary.Cursor().First(); k != nil {
		return nil
	}

	cur := tx.Bucket([]byte(sessionBucket)).Cursor()

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		var rec engine.SessionRecord

		err := json.Unmarshal(v, &rec)
		if err != nil {
			return err
		}

		delta := &engine.DiaryDelta{
			Day:       rec.Day,
			Label:     rec.Label,
			ActiveSec: rec.ActiveSec,
			BreakSec:  rec.BreakSec,
			Pomodoros: rec.WorkIntervalsCompleted,
		}

		err = mergeDiary(diary, delta, rec.EndedAt)
		if err != nil {
			return err
		}
	}

	return nil
}
