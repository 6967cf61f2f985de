package storage

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

const badgerDirName = "badger"

// Badger stores keys in an embedded badger database.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens the database directory at path.
func OpenBadger(path string) (*Badger, error) {
	return openBadger(badger.DefaultOptions(path).WithLogger(nil))
}

func openBadger(opts badger.Options) (*Badger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, unavailable("badger open", err)
	}
	return &Badger{db: db}, nil
}

func (store *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("badger get "+key, err)
	}
	return out, nil
}

func (store *Badger) Put(_ context.Context, key string, value []byte) error {
	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return unavailable("badger put "+key, err)
	}
	return nil
}

func (store *Badger) Close() error { return store.db.Close() }
