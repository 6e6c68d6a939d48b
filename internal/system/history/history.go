// Released under an MIT license. See LICENSE.

// Package history keeps REPL input in a bbolt database.
package history

import (
	"encoding/binary"
	"io"
	"strings"
	"time"

	"github.com/joomcode/errorx"
	bolt "go.etcd.io/bbolt"
)

const bucketCmd = "cmd"

// Limit is the number of most recent entries handed to the line editor.
const Limit = 1000

// Store is a persistent, ordered list of commands.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errorx.Decorate(err, "opening history %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))

		return err
	})
	if err != nil {
		db.Close()

		return nil, errorx.Decorate(err, "initializing history %s", path)
	}

	return &Store{db: db}, nil
}

// AddCmd appends cmd and returns its sequence number.
func (s *Store) AddCmd(cmd string) (int, error) {
	var seq uint64

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))

		var err error

		seq, err = b.NextSequence()
		if err != nil {
			return err
		}

		return b.Put(marshalSeq(seq), []byte(cmd))
	})

	return int(seq), err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Cmds returns up to n of the most recent commands, oldest first.
func (s *Store) Cmds(n int) ([]string, error) {
	var cmds []string

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()

		for k, v := c.Last(); k != nil && len(cmds) < n; k, v = c.Prev() {
			cmds = append(cmds, string(v))
		}

		return nil
	})

	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}

	return cmds, err
}

// Load passes the most recent commands, one per line, to read.
func (s *Store) Load(read func(r io.Reader) (int, error)) error {
	cmds, err := s.Cmds(Limit)
	if err != nil {
		return err
	}

	if len(cmds) == 0 {
		return nil
	}

	_, err = read(strings.NewReader(strings.Join(cmds, "\n") + "\n"))

	return err
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)

	return b
}
