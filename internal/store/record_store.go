package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/annel0/aicup-bot/internal/record"
	"github.com/dgraph-io/badger/v3"
)

var (
	// ErrNotReady возвращается после Close
	ErrNotReady = errors.New("store: хранилище не готово")
	// ErrNotFound возвращается, если записи нет
	ErrNotFound = errors.New("store: запись не найдена")
)

// RecordStore хранит решения в BadgerDB.
// Ключи имеют вид decision/<match>/<tick>/<unit>, значения: JSON записи.
type RecordStore struct {
	db      *badger.DB
	mutex   sync.RWMutex
	isReady bool
}

// NewRecordStore открывает хранилище в каталоге dbPath.
// Пустой путь означает хранилище в памяти.
func NewRecordStore(dbPath string) (*RecordStore, error) {
	opts := badger.DefaultOptions(dbPath)
	if dbPath == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &RecordStore{db: db, isReady: true}, nil
}

// Close закрывает хранилище
func (s *RecordStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	return s.db.Close()
}

// Save сохраняет одно решение
func (s *RecordStore) Save(rec record.Record) error {
	return s.SaveBatch([]record.Record{rec})
}

// SaveBatch сохраняет решения одной транзакцией записи
func (s *RecordStore) SaveBatch(records []record.Record) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}

	for _, rec := range records {
		if err := record.ValidateMatchID(rec.MatchID); err != nil {
			return err
		}
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("сериализация решения %d/%d: %w", rec.Tick, rec.UnitID, err)
		}
		if err := wb.Set(rec.Key(), data); err != nil {
			return fmt.Errorf("запись решения %d/%d: %w", rec.Tick, rec.UnitID, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("сохранение пакета решений: %w", err)
	}
	return nil
}

// Get возвращает решение юнита на тике
func (s *RecordStore) Get(matchID string, tick, unitID int) (record.Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var rec record.Record
	if !s.isReady {
		return rec, ErrNotReady
	}
	if err := record.ValidateMatchID(matchID); err != nil {
		return rec, err
	}

	key := record.Record{MatchID: matchID, Tick: tick, UnitID: unitID}.Key()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("чтение решения %s/%d/%d: %w", matchID, tick, unitID, err)
	}
	return rec, nil
}

// LoadMatch возвращает все решения матча в порядке тиков
func (s *RecordStore) LoadMatch(matchID string) ([]record.Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrNotReady
	}
	if err := record.ValidateMatchID(matchID); err != nil {
		return nil, err
	}

	var records []record.Record
	prefix := record.MatchPrefix(matchID)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec record.Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("ключ %s: %w", it.Item().Key(), err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("загрузка матча %s: %w", matchID, err)
	}
	return records, nil
}

// Matches возвращает идентификаторы всех сохранённых матчей
func (s *RecordStore) Matches() ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrNotReady
	}

	seen := make(map[string]struct{})
	root := []byte("decision/")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = root
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(root); it.ValidForPrefix(root); it.Next() {
			rest := bytes.TrimPrefix(it.Item().Key(), root)
			if i := bytes.IndexByte(rest, '/'); i > 0 {
				seen[string(rest[:i])] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("список матчей: %w", err)
	}

	matches := make([]string, 0, len(seen))
	for id := range seen {
		matches = append(matches, id)
	}
	sort.Strings(matches)
	return matches, nil
}

// DeleteMatch удаляет все решения матча
func (s *RecordStore) DeleteMatch(matchID string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}
	if err := record.ValidateMatchID(matchID); err != nil {
		return err
	}

	var keys [][]byte
	prefix := record.MatchPrefix(matchID)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("удаление матча %s: %w", matchID, err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("удаление матча %s: %w", matchID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("удаление матча %s: %w", matchID, err)
	}
	return nil
}
