package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pavelanni/assessor/internal/model"
	"github.com/pavelanni/assessor/internal/store"
)

// decodeFile unmarshals JSON or YAML depending on the file extension.
func decodeFile(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

func loadQuestions(db *store.Store, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		hash := sha256sum(data)
		storedHash, err := db.GetImportedFileHash(path)
		if err != nil {
			return fmt.Errorf("check import status for %s: %w", path, err)
		}

		if storedHash == hash {
			slog.Info("questions file unchanged, skipping", "path", path)
			continue
		}
		if storedHash != "" {
			slog.Warn("questions file changed since last import, skipping to keep stored question IDs stable",
				"path", path)
			continue
		}

		var questions []model.QuestionImport
		if err := decodeFile(path, data, &questions); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		imported := 0
		for i, qi := range questions {
			if !qi.Type.Known() {
				slog.Warn("skipping question with unknown type", "path", path, "index", i, "type", qi.Type)
				continue
			}
			_, err := db.InsertQuestion(model.Question{
				Type:           qi.Type,
				Topic:          qi.Topic,
				Subtopic:       qi.Subtopic,
				Difficulty:     qi.Difficulty,
				Text:           qi.Text,
				Options:        qi.Options,
				CorrectAnswer:  qi.CorrectAnswer,
				ExpectedOutput: qi.ExpectedOutput,
				Keywords:       qi.Keywords,
				Marks:          qi.Marks,
			})
			if err != nil {
				return fmt.Errorf("insert question from %s: %w", path, err)
			}
			imported++
		}

		if err := db.SetImportedFileHash(path, hash); err != nil {
			return fmt.Errorf("record import for %s: %w", path, err)
		}
		slog.Info("imported questions", "path", path, "count", imported)
	}

	return nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
