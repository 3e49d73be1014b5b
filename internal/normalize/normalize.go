package normalize

import (
	"fmt"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
)

// Dumper - результат задачи, который умеет отдать себя в виде map или списка
type Dumper interface {
	Dump() any
}

// Normalizer превращает вывод задачи в список новостей, SQL выражение или пустой результат
type Normalizer struct {
	// Ключ, в котором лежит текст ответа модели
	rawField string
	// Стратегии пробуются по порядку, первая сработавшая побеждает
	strategies []Strategy
}

func New(rawField string, strategies ...Strategy) *Normalizer {
	return &Normalizer{
		rawField:   rawField,
		strategies: strategies,
	}
}

// Normalize никогда не возвращает ошибку: все, что не разобралось, логируется и дает KindEmpty
func (n *Normalizer) Normalize(output any) Outcome {
	log := logger.Get()

	if d, ok := output.(Dumper); ok {
		output = d.Dump()
	}

	switch v := output.(type) {
	case []map[string]any:
		items := make([]Record, 0, len(v))
		for _, m := range v {
			items = append(items, Record(m))
		}
		return Outcome{Kind: KindDirect, Items: items, Strategy: "list"}
	case []Record:
		return Outcome{Kind: KindDirect, Items: v, Strategy: "list"}
	case []any:
		return Outcome{Kind: KindDirect, Items: records(v), Strategy: "list"}
	case Record:
		return n.normalizeMap(v)
	case map[string]any:
		return n.normalizeMap(Record(v))
	case nil:
		log.Warn().Msg("task output is empty")
		return Outcome{Kind: KindEmpty}
	default:
		log.Warn().
			Str("type", typeName(output)).
			Msg("unsupported task output")
		return Outcome{Kind: KindEmpty}
	}
}

func (n *Normalizer) normalizeMap(m Record) Outcome {
	raw, ok := m[n.rawField].(string)
	if !ok {
		return Outcome{Kind: KindDirect, Items: []Record{m}, Strategy: "map"}
	}

	return n.ParseText(raw)
}

// ParseText чистит текст от ``` и прогоняет его через стратегии
func (n *Normalizer) ParseText(raw string) Outcome {
	log := logger.Get()
	text := StripFences(raw)

	for _, s := range n.strategies {
		outcome, ok := s.Parse(text)
		if !ok {
			log.Debug().Str("strategy", s.Name()).Msg("strategy did not match")
			continue
		}

		log.Info().
			Str("strategy", s.Name()).
			Stringer("kind", outcome.Kind).
			Int("items", len(outcome.Items)).
			Msg("task output parsed")

		return outcome
	}

	log.Warn().Int("length", len(raw)).Msg("no json, sql or report data found in task output")

	return Outcome{Kind: KindEmpty}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v)
}
