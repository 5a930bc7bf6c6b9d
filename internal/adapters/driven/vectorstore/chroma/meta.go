package chroma

import (
	"time"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

// Chroma metadata values are restricted to scalars, so fragment
// metadata travels as a flat string/number map. Timestamps are stored
// as RFC 3339 strings.

func metaToMap(m domain.FragmentMeta) map[string]any {
	out := map[string]any{
		"filename":        m.Filename,
		"fragment_index":  m.FragmentIndex,
		"fragment_length": m.FragmentLength,
		"total_pages":     m.TotalPages,
		"content_preview": m.ContentPreview,
	}
	if m.DocumentTitle != "" {
		out["document_title"] = m.DocumentTitle
	}
	if m.DocumentAuthor != "" {
		out["document_author"] = m.DocumentAuthor
	}
	if m.DocumentSubject != "" {
		out["document_subject"] = m.DocumentSubject
	}
	if !m.ProcessedAt.IsZero() {
		out["processed_at"] = m.ProcessedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func metaFromMap(raw map[string]any) domain.FragmentMeta {
	m := domain.FragmentMeta{
		Filename:        asString(raw["filename"]),
		FragmentIndex:   asInt(raw["fragment_index"]),
		FragmentLength:  asInt(raw["fragment_length"]),
		TotalPages:      asInt(raw["total_pages"]),
		DocumentTitle:   asString(raw["document_title"]),
		DocumentAuthor:  asString(raw["document_author"]),
		DocumentSubject: asString(raw["document_subject"]),
		ContentPreview:  asString(raw["content_preview"]),
	}
	if ts := asString(raw["processed_at"]); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			m.ProcessedAt = parsed
		}
	}
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt tolerates the JSON decoder handing back float64 for numbers.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
