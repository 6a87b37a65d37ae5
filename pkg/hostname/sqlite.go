package hostname

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// hostnameRecord is the persisted row. A NULL hostname marks a failed lookup.
type hostnameRecord struct {
	IP         string    `gorm:"primaryKey"`
	Hostname   *string   `gorm:"default:null"`
	ResolvedAt time.Time `gorm:"not null;index"`
}

func (hostnameRecord) TableName() string {
	return "hostnames"
}

type sqliteStore struct {
	path    string
	db      *gorm.DB
	openErr error
}

var errNotOpen = errors.New("hostname cache database is not open")

// NewSQLiteStore opens (creating if needed) the SQLite database at path.
// A file that cannot be opened as a database is not an error here: Load
// reports it and the next Save replaces the file.
func NewSQLiteStore(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	s := &sqliteStore{path: path}
	s.openErr = s.open()
	return s, nil
}

func (s *sqliteStore) open() error {
	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		s.db = nil
		return err
	}
	s.db = db
	return nil
}

func (s *sqliteStore) Load() (map[string]Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, s.openErr)
	}
	if err := s.db.AutoMigrate(&hostnameRecord{}); err != nil {
		return nil, err
	}

	var records []hostnameRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(records))
	for _, record := range records {
		if record.IP == "" {
			continue
		}
		entry := Entry{IP: record.IP, ResolvedAt: record.ResolvedAt}
		if record.Hostname != nil {
			entry.Hostname = *record.Hostname
			entry.Resolved = true
		}
		entries[record.IP] = entry
	}
	return entries, nil
}

// Save writes every entry. A corrupt database is rebuilt from scratch and
// the write is retried once; any other failure is returned as is.
func (s *sqliteStore) Save(entries map[string]Entry) error {
	err := s.save(entries)
	if err == nil || !isCorrupt(err) {
		return err
	}
	if rerr := s.rebuild(); rerr != nil {
		return fmt.Errorf("could not rebuild hostname cache %s after %v: %w", s.path, err, rerr)
	}
	return s.save(entries)
}

func (s *sqliteStore) save(entries map[string]Entry) error {
	if s.db == nil {
		return errNotOpen
	}
	if err := s.db.AutoMigrate(&hostnameRecord{}); err != nil {
		return err
	}

	records := make([]hostnameRecord, 0, len(entries))
	for ip, entry := range entries {
		record := hostnameRecord{IP: ip, ResolvedAt: entry.ResolvedAt}
		if entry.Resolved {
			name := entry.Hostname
			record.Hostname = &name
		}
		records = append(records, record)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&hostnameRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(records, 500).Error
	})
}

func (s *sqliteStore) Clear() error {
	if s.db == nil {
		return s.rebuild()
	}
	err := s.db.AutoMigrate(&hostnameRecord{})
	if err == nil {
		err = s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&hostnameRecord{}).Error
	}
	if err != nil && isCorrupt(err) {
		return s.rebuild()
	}
	return err
}

// corruptMessages are the SQLite errors for a file that is not a usable database
var corruptMessages = []string{
	"file is not a database",
	"database disk image is malformed",
	"SQLITE_NOTADB",
	"SQLITE_CORRUPT",
}

// isCorrupt reports whether err means the cache file itself is damaged.
// Busy or locked databases are not corrupt.
func isCorrupt(err error) bool {
	if errors.Is(err, errNotOpen) {
		return true
	}
	msg := err.Error()
	for _, corrupt := range corruptMessages {
		if strings.Contains(msg, corrupt) {
			return true
		}
	}
	return false
}

// rebuild throws the database file away and starts over with an empty one
func (s *sqliteStore) rebuild() error {
	if err := s.Close(); err != nil {
		return err
	}
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if s.openErr = s.open(); s.openErr != nil {
		return s.openErr
	}
	return s.db.AutoMigrate(&hostnameRecord{})
}

func (s *sqliteStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type memoryStore struct {
	entries map[string]Entry
}

// NewMemoryStore returns a Store that keeps entries for the life of the
// process only. It backs runs with cache persistence turned off.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]Entry)}
}

func (m *memoryStore) Load() (map[string]Entry, error) {
	out := make(map[string]Entry, len(m.entries))
	for ip, entry := range m.entries {
		out[ip] = entry
	}
	return out, nil
}

func (m *memoryStore) Save(entries map[string]Entry) error {
	m.entries = make(map[string]Entry, len(entries))
	for ip, entry := range entries {
		m.entries[ip] = entry
	}
	return nil
}

func (m *memoryStore) Clear() error {
	m.entries = make(map[string]Entry)
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}
