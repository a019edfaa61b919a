package store

import (
	"database/sql"
)

// SetMetadata upserts a key-value pair in the exam_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO exam_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM exam_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func importKey(path string) string {
	return "import:" + path
}

// GetImportedFileHash returns the content hash recorded for a question file,
// or an empty string if the file was never imported.
func (s *Store) GetImportedFileHash(path string) (string, error) {
	return s.GetMetadata(importKey(path))
}

// SetImportedFileHash records the content hash of an imported question file.
func (s *Store) SetImportedFileHash(path, hash string) error {
	return s.SetMetadata(importKey(path), hash)
}
