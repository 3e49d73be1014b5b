package normalize

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
)

type Kind int

const (
	// Ничего разобрать не удалось
	KindEmpty Kind = iota
	// Новости из текстового поля, их еще нужно прогнать через selector
	KindItems
	// Новости пришли уже структурой, сохраняются как есть
	KindDirect
	// SQL выражение, которое надо выполнить напрямую
	KindStatement
)

func (k Kind) String() string {
	switch k {
	case KindItems:
		return "items"
	case KindDirect:
		return "direct"
	case KindStatement:
		return "statement"
	default:
		return "empty"
	}
}

// Outcome - результат разбора вывода задачи
type Outcome struct {
	Kind      Kind
	Items     []Record
	Statement string
	// Имя стратегии, которая сработала
	Strategy string
}

// Strategy пробует разобрать очищенный текст. ok=false значит "не мое, пробуйте дальше".
type Strategy interface {
	Name() string
	Parse(text string) (Outcome, bool)
}

// FallbackSource отдает новости из ранее сохраненного отчета
type FallbackSource interface {
	Load() []map[string]any
}

// JSONStrategy разбирает текст, начинающийся с { или [
type JSONStrategy struct {
	listKeys          []string
	completionPhrases []string
}

func NewJSONStrategy(listKeys, completionPhrases []string) *JSONStrategy {
	return &JSONStrategy{listKeys: listKeys, completionPhrases: completionPhrases}
}

func (s *JSONStrategy) Name() string { return "json" }

func (s *JSONStrategy) Parse(text string) (Outcome, bool) {
	if !looksLikeJSON(text) {
		return Outcome{}, false
	}

	payload := trimTrailing(text, s.completionPhrases)

	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		logger.Get().Warn().
			Err(err).
			Int("length", len(payload)).
			Msg("failed to parse json payload")
		return Outcome{}, false
	}

	return Outcome{Kind: KindItems, Items: s.unwrap(parsed), Strategy: s.Name()}, true
}

// Из объекта достаем список по ключу news, список берем как есть, остальное - пусто
func (s *JSONStrategy) unwrap(parsed any) []Record {
	switch v := parsed.(type) {
	case map[string]any:
		for _, key := range s.listKeys {
			if list, ok := v[key].([]any); ok {
				return records(list)
			}
		}
		return []Record{}
	case []any:
		return records(v)
	default:
		return []Record{}
	}
}

// CleanJSON чистит ответ модели так же, как JSON стратегия перед разбором:
// убирает ```, фразу о завершении и хвост после последней закрывающей скобки.
func CleanJSON(text string, completionPhrases []string) string {
	text = StripFences(text)
	if !looksLikeJSON(text) {
		return text
	}

	return trimTrailing(text, completionPhrases)
}

func looksLikeJSON(text string) bool {
	return strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[")
}

// После json модель часто дописывает фразу вроде "I now can give a great answer".
// Отрезаем ее и все, что идет после последней закрывающей скобки.
func trimTrailing(text string, phrases []string) string {
	closer := "}"
	if strings.HasPrefix(text, "[") {
		closer = "]"
	}

	text = cutPhrases(text, phrases)

	if i := strings.LastIndex(text, closer); i >= 0 {
		text = text[:i+1]
	}

	return text
}

func cutPhrases(text string, phrases []string) string {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if i := strings.Index(text, phrase); i > 0 {
			text = text[:i]
		}
	}

	return strings.TrimSpace(text)
}

var insertNewsRe = regexp.MustCompile(`(?i)INSERT\s+INTO\s+news\b`)

// SQLStatementStrategy ищет в тексте INSERT INTO news
type SQLStatementStrategy struct {
	completionPhrases []string
}

func NewSQLStatementStrategy(completionPhrases []string) *SQLStatementStrategy {
	return &SQLStatementStrategy{completionPhrases: completionPhrases}
}

func (s *SQLStatementStrategy) Name() string { return "sql" }

func (s *SQLStatementStrategy) Parse(text string) (Outcome, bool) {
	loc := insertNewsRe.FindStringIndex(text)
	if loc == nil {
		return Outcome{}, false
	}

	stmt := cutPhrases(text[loc[0]:], s.completionPhrases)
	stmt = strings.TrimRight(stmt, "` \n\t")
	if !strings.HasSuffix(stmt, ";") {
		stmt += ";"
	}

	return Outcome{Kind: KindStatement, Statement: stmt, Strategy: s.Name()}, true
}

// FileStrategy берет новости из отчета, если в тексте не нашлось ни json, ни sql
type FileStrategy struct {
	source FallbackSource
}

func NewFileStrategy(source FallbackSource) *FileStrategy {
	return &FileStrategy{source: source}
}

func (s *FileStrategy) Name() string { return "file" }

func (s *FileStrategy) Parse(string) (Outcome, bool) {
	if s.source == nil {
		return Outcome{}, false
	}

	items := s.source.Load()
	if len(items) == 0 {
		return Outcome{}, false
	}

	out := make([]Record, 0, len(items))
	for _, item := range items {
		out = append(out, Record(item))
	}

	return Outcome{Kind: KindItems, Items: out, Strategy: s.Name()}, true
}

func records(list []any) []Record {
	out := make([]Record, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}

	return out
}
