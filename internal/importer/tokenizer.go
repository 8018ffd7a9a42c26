// Package importer implements the bulk member import pipeline: a CSV
// tokenizer and row decoder, per-row validation and normalization, the
// multi-entity write sequence, and the per-row result report returned to the
// operator.
//
// The pipeline is strictly single-pass and sequential. Each row is fully
// resolved (validated, persisted or rejected) before the next row begins,
// and a failure in one row never affects another. There is no batch-wide
// transaction: partial success is the contract, and re-uploading a fixed
// file relies on the duplicate check to skip rows that already landed.
package importer

import "strings"

// SplitFields splits one physical line of CSV text into its field values,
// honoring double-quote escaping:
//
//   - a quote outside a quoted run opens it and is dropped
//   - "" inside a quoted run emits one literal quote
//   - a quote inside a quoted run closes it
//   - a comma outside a quoted run ends the current field
//
// Multi-line quoted fields are not supported; callers split the file into
// lines before tokenizing (see Decode).
func SplitFields(line string) []string {
	var (
		fields   []string
		buf      strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && !inQuotes:
			inQuotes = true
		case c == '"' && inQuotes:
			if i+1 < len(line) && line[i+1] == '"' {
				buf.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
		case c == ',' && !inQuotes:
			fields = append(fields, buf.String())
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}

	// The final field is flushed unconditionally, closed quote or not.
	return append(fields, buf.String())
}

// QuoteField renders a value as a single CSV field, quoting only when the
// value contains a comma, quote, or leading/trailing space. Used by the
// template generator; SplitFields(QuoteField(v)) recovers v exactly.
func QuoteField(v string) string {
	if !strings.ContainsAny(v, `",`) && strings.TrimSpace(v) == v {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
