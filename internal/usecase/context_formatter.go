package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cisnr-assistant/internal/domain"
)

// ErrNonNumericScore reports score metadata that cannot be rendered
// with three decimal places.
var ErrNonNumericScore = errors.New("score metadata is not numeric")

// FormatDocuments renders retrieved documents into the context block
// of the generation prompt. Each document becomes a numbered block:
//
//	Document N:
//	<trimmed content>
//	[Source: <source> | Score: <score>]
//
// The annotation line is omitted entirely when a document has no
// metadata. Blocks are joined by one blank line; input order is
// preserved. An empty input yields an empty string, which is a valid
// state (no matching context found).
func FormatDocuments(docs []domain.Document) (string, error) {
	if len(docs) == 0 {
		return "", nil
	}

	blocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		var b strings.Builder
		fmt.Fprintf(&b, "Document %d:\n%s", i+1, strings.TrimSpace(doc.Content))
		if len(doc.Metadata) > 0 {
			annotation, err := formatAnnotation(doc.Metadata)
			if err != nil {
				return "", fmt.Errorf("document %d: %w", i+1, err)
			}
			b.WriteString("\n")
			b.WriteString(annotation)
		}
		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n\n"), nil
}

func formatAnnotation(metadata map[string]any) (string, error) {
	source := "unknown"
	if v, ok := metadata[domain.MetadataSource]; ok {
		source = fmt.Sprintf("%v", v)
	}

	raw, ok := metadata[domain.MetadataScore]
	if !ok {
		return fmt.Sprintf("[Source: %s]", source), nil
	}
	score, err := scoreValue(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("[Source: %s | Score: %.3f]", source, score), nil
}

// scoreValue normalizes the numeric types seen across index backends:
// JSON decoding yields float64 or json.Number, pgx yields float64,
// adapters may hand over float32 or int.
func scoreValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNonNumericScore, v.String())
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNonNumericScore, raw)
	}
}
