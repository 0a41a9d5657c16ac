package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"deepchess/experiments/metrics"

	"github.com/dgraph-io/badger/v4"
)

var ErrNotFound = errors.New("game not found")

const (
	gamePrefix = "game/"
	movePrefix = "move/"
)

// Store keeps tournament games and their moves in BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens the database in dir, or an in-memory one when dir is empty.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open game store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

func moveKey(id string, step int) []byte {
	return []byte(fmt.Sprintf("%s%s/%05d", movePrefix, id, step))
}

// SaveGame writes the game and its moves in one transaction.
func (s *Store) SaveGame(game metrics.GameRecord, moves []metrics.MoveRecord) error {
	if game.ID == "" {
		return errors.New("game record has no id")
	}
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(gameKey(game.ID), data); err != nil {
			return err
		}
		for _, move := range moves {
			value, err := json.Marshal(move)
			if err != nil {
				return err
			}
			if err := txn.Set(moveKey(game.ID, move.Step), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Game(id string) (metrics.GameRecord, error) {
	var game metrics.GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &game)
		})
	})
	return game, err
}

// Games lists every stored game ordered by id.
func (s *Store) Games() ([]metrics.GameRecord, error) {
	var games []metrics.GameRecord
	err := s.scan([]byte(gamePrefix), func(val []byte) error {
		var game metrics.GameRecord
		if err := json.Unmarshal(val, &game); err != nil {
			return err
		}
		games = append(games, game)
		return nil
	})
	return games, err
}

// Moves lists the moves of a game in playing order.
func (s *Store) Moves(id string) ([]metrics.MoveRecord, error) {
	var moves []metrics.MoveRecord
	err := s.scan([]byte(movePrefix+id+"/"), func(val []byte) error {
		var move metrics.MoveRecord
		if err := json.Unmarshal(val, &move); err != nil {
			return err
		}
		moves = append(moves, move)
		return nil
	})
	return moves, err
}

func (s *Store) scan(prefix []byte, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}
