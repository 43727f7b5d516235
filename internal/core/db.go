package core

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

// EncryptedDB wraps a SQLCipher-encrypted SQLite database.
type EncryptedDB struct {
	db        *sql.DB
	dbPath    string
	encrypted bool
}

// OpenEncryptedDB opens a SQLCipher-encrypted database.
// If passphrase is empty, opens without encryption.
// If the database exists and passphrase is wrong, returns an error.
func OpenEncryptedDB(dbPath string, passphrase string) (*EncryptedDB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var dsn string
	encrypted := passphrase != ""
	if encrypted {
		dsn = fmt.Sprintf("file:%s?_pragma_key=%s&_journal_mode=WAL&_synchronous=NORMAL", dbPath, url.QueryEscape(passphrase))
	} else {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", dbPath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A wrong key only shows up on first read.
	if encrypted {
		var count int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&count); err != nil {
			db.Close()
			return nil, fmt.Errorf("invalid passphrase or corrupted database: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &EncryptedDB{
		db:        db,
		dbPath:    dbPath,
		encrypted: encrypted,
	}, nil
}

// DB returns the underlying database connection.
func (edb *EncryptedDB) DB() *sql.DB {
	return edb.db
}

// Close closes the database connection.
func (edb *EncryptedDB) Close() error {
	return edb.db.Close()
}

// IsEncrypted returns whether the database is encrypted.
func (edb *EncryptedDB) IsEncrypted() bool {
	return edb.encrypted
}

// Path returns the database file path.
func (edb *EncryptedDB) Path() string {
	return edb.dbPath
}
