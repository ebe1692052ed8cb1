package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupManager creates and restores backups of the advisor database.
// Backups are full SQLite copies taken with VACUUM INTO, optionally
// encrypted with a passphrase.
type BackupManager struct {
	dbPath string
}

// NewBackupManager creates a backup manager for the database at dbPath.
func NewBackupManager(dbPath string) *BackupManager {
	return &BackupManager{dbPath: dbPath}
}

// BackupOptions controls a single backup run.
type BackupOptions struct {
	// Dir is the destination directory. Defaults to a "backups"
	// subdirectory next to the database.
	Dir string

	// Name is the backup file name without extension. Defaults to a
	// timestamped name.
	Name string

	// Passphrase, when set, encrypts the backup file.
	Passphrase string
}

// Backup writes a backup and returns its path. Encrypted backups use
// the ".db.enc" extension, plain ones ".db".
func (bm *BackupManager) Backup(opts BackupOptions) (string, error) {
	dir := opts.Dir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(bm.dbPath), "backups")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := opts.Name
	if name == "" {
		name = "backup_" + time.Now().Format("20060102_150405")
	}
	plainPath := filepath.Join(dir, name+".db")

	src, err := sql.Open("sqlite", bm.dbPath)
	if err != nil {
		return "", fmt.Errorf("open source database: %w", err)
	}
	defer func() { _ = src.Close() }()

	// VACUUM INTO is atomic and needs no exclusive lock.
	if _, err := src.Exec(fmt.Sprintf("VACUUM INTO %q", plainPath)); err != nil {
		return "", fmt.Errorf("vacuum into backup: %w", err)
	}

	if opts.Passphrase == "" {
		return plainPath, nil
	}

	encPath := plainPath + ".enc"
	if err := bm.encryptBackup(plainPath, encPath, opts.Passphrase); err != nil {
		_ = os.Remove(plainPath)
		return "", err
	}
	if err := os.Remove(plainPath); err != nil {
		return "", fmt.Errorf("remove plaintext backup: %w", err)
	}
	return encPath, nil
}

func (bm *BackupManager) encryptBackup(srcPath, destPath, passphrase string) error {
	plaintext, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	encrypted, err := encryptData(plaintext, passphrase)
	if err != nil {
		return fmt.Errorf("encrypt backup: %w", err)
	}
	out := append([]byte(encryptionMagic), encrypted...)
	if err := os.WriteFile(destPath, out, 0o600); err != nil {
		return fmt.Errorf("write encrypted backup: %w", err)
	}
	return nil
}

// Restore replaces the database with the given backup file. Encrypted
// backups require the passphrase they were written with.
func (bm *BackupManager) Restore(backupPath, passphrase string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	if len(data) >= len(encryptionMagic) && string(data[:len(encryptionMagic)]) == encryptionMagic {
		data, err = decryptData(data[len(encryptionMagic):], passphrase)
		if err != nil {
			return fmt.Errorf("decrypt backup: %w", err)
		}
	}

	tmpPath := bm.dbPath + ".restore"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write restored database: %w", err)
	}
	if err := verifySQLite(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("verify restored database: %w", err)
	}
	if err := os.Rename(tmpPath, bm.dbPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}

// IsEncrypted reports whether the file at path is an encrypted backup.
func IsEncrypted(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(encryptionMagic))
	n, err := f.Read(header)
	if err != nil && n < len(encryptionMagic) {
		return false, nil
	}
	return string(header[:n]) == encryptionMagic, nil
}

func verifySQLite(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check: %s", result)
	}
	return nil
}
