package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
)

// FileLoader читает отчет reporting агента как резервный источник новостей
type FileLoader struct {
	path     string
	listKeys []string
}

func NewFileLoader(path string, listKeys []string) *FileLoader {
	return &FileLoader{path: path, listKeys: listKeys}
}

// Load принимает список новостей или объект с ключом news.
// При любой ошибке возвращается пустой список.
func (l *FileLoader) Load() []map[string]any {
	log := logger.Get()

	data, err := os.ReadFile(l.path)
	if err != nil {
		log.Warn().Err(err).Str("path", l.path).Msg("failed to read report file")
		return []map[string]any{}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		log.Info().Str("path", l.path).Msg("report file is empty")
		return []map[string]any{}
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		log.Warn().Err(err).Str("path", l.path).Msg("failed to parse report file")
		return []map[string]any{}
	}

	var list []any
	switch v := parsed.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range l.listKeys {
			if items, ok := v[key].([]any); ok {
				list = items
				break
			}
		}
	}

	items := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			items = append(items, m)
		}
	}

	log.Info().
		Str("path", l.path).
		Int("items", len(items)).
		Msg("report file loaded")

	return items
}

// Write сохраняет отчет, создавая каталог при необходимости
func Write(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}
