// Package store keeps the history of activations in a bbolt database.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/autoblock/internal/apperr"
	"github.com/ayoisaiah/autoblock/internal/osutil"
	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

const activationBucket = "activations"

var (
	errDatabaseLocked = &apperr.Error{
		Message: "the history database is in use by another autoblock process",
	}

	errOpenDatabase = &apperr.Error{
		Message: "unable to open history database at %s",
	}
)

// DB is the activation history.
type DB interface {
	// SaveActivation creates or overwrites a record, assigning an ID and a
	// start time if they are unset.
	SaveActivation(a *Activation) error
	// Activations returns records that started within [since, until],
	// oldest first. A zero until means no upper bound.
	Activations(since, until time.Time) ([]Activation, error)
	// DeleteActivations removes records that started before t and returns
	// how many were removed.
	DeleteActivations(before time.Time) (int, error)
	Close() error
}

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// SaveActivation stores a in the activations bucket, keyed by its start
// time in UTC.
func (c *Client) SaveActivation(a *Activation) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if a.StartedAt.IsZero() {
		a.StartedAt = time.Now()
	}

	value, err := json.Marshal(a)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(activationBucket)).Put(a.key(), value)
	})
}

func (c *Client) Activations(since, until time.Time) ([]Activation, error) {
	var result []Activation

	minKey := timeutil.ToKey(since.UTC())

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(activationBucket)).Cursor()

		var maxKey []byte
		if !until.IsZero() {
			maxKey = timeutil.ToKey(until.UTC())
		}

		for k, v := cur.Seek(minKey); k != nil; k, v = cur.Next() {
			if maxKey != nil && bytes.Compare(k, maxKey) > 0 {
				break
			}

			var a Activation

			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}

			result = append(result, a)
		}

		return nil
	})

	return result, err
}

func (c *Client) DeleteActivations(before time.Time) (int, error) {
	var n int

	maxKey := timeutil.ToKey(before.UTC())

	err := c.Update(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(activationBucket)).Cursor()

		for k, _ := cur.First(); k != nil && bytes.Compare(k, maxKey) < 0; k, _ = cur.Next() {
			if err := cur.Delete(); err != nil {
				return err
			}

			n++
		}

		return nil
	})

	return n, err
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	db, err := bolt.Open(
		pathToDB,
		osutil.PrivatePermission,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errDatabaseLocked
		}

		return nil, errOpenDatabase.Fmt(pathToDB).Wrap(err)
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(activationBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errOpenDatabase.Fmt(dbPath).Wrap(err)
	}

	return &Client{
		db,
	}, nil
}
