package scout

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps identities in an embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens dir, or an in-memory database when dir is empty.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Load(_ context.Context, token string) (string, error) {
	var name string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key(token)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			name = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrUnknownScout
	}
	if err != nil {
		return "", fmt.Errorf("badger get: %w", err)
	}
	return name, nil
}

func (s *BadgerStore) Save(_ context.Context, token, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key(token)), []byte(name))
	})
}

func (s *BadgerStore) Close() error { return s.db.Close() }
