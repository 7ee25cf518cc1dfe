package photoframe

import (
	"database/sql"
	"fmt"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// CacheDB stores converted output keyed by the SHA-1 of the source file and
// the conversion settings, so unchanged images are not converted again.
type CacheDB struct {
	db *sql.DB
}

// NewCacheDB opens, creating if necessary, the cache database in file.
func NewCacheDB(file string) (*CacheDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Workers share the one connection, sqlite only allows a single writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (source_id INTEGER NOT NULL, settings TEXT NOT NULL, data BLOB NOT NULL, UNIQUE(source_id, settings), FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &CacheDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *CacheDB) Close() error {
	return db.db.Close()
}

func (db *CacheDB) addSource(sha string) (int64, error) {
	if _, err := db.db.Exec("INSERT OR IGNORE INTO source (sha1) VALUES (?)", sha); err != nil {
		return 0, err
	}

	var id int64
	if err := db.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Get returns the cached output for the source with the given SHA-1 and
// settings, or nil if there is none.
func (db *CacheDB) Get(sha, settings string) ([]byte, error) {
	var data []byte
	switch err := db.db.QueryRow("SELECT c.data FROM conversion AS c JOIN source AS s ON c.source_id = s.id WHERE s.sha1 = ? AND c.settings = ?", sha, settings).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}

// Put stores the output for the source with the given SHA-1 and settings,
// replacing any previous entry.
func (db *CacheDB) Put(sha, settings string, data []byte) error {
	id, err := db.addSource(sha)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO conversion (source_id, settings, data) VALUES (?, ?, ?)", id, settings, data); err != nil {
		return err
	}
	return nil
}

// Len returns the number of cached conversions.
func (db *CacheDB) Len() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM conversion").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Clear removes every cached conversion.
func (db *CacheDB) Clear() error {
	if _, err := db.db.Exec("DELETE FROM conversion"); err != nil {
		return err
	}

	if _, err := db.db.Exec("DELETE FROM source"); err != nil {
		return err
	}

	return nil
}
