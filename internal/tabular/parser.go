// Package tabular turns loosely formatted comma-separated text into
// header-keyed rows.
//
// Lines are split on every literal comma. Quoted fields containing commas
// are not supported and will split into extra tokens; this is an accepted
// limitation of the format, not something the parser tries to repair.
package tabular

import (
	"fmt"
	"io"
	"strings"
)

const byteOrderMark = "\uFEFF"

// ReasonInsufficientRows is reported when the input lacks a header line
// plus at least one data line.
const ReasonInsufficientRows = "insufficient rows"

// ParseError reports input that cannot be turned into rows.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Reason)
}

// RawRow maps a header to the raw value of one data line. Missing
// fields hold the empty string.
type RawRow map[string]string

// Get returns the value for header, or "" when absent.
func (r RawRow) Get(header string) string {
	return r[header]
}

// Parse splits rawText into rows keyed by the first non-empty line.
//
// Blank and whitespace-only lines are dropped. Every header and value is
// trimmed and loses one pair of surrounding double quotes. Short lines are
// padded with empty values; tokens beyond the header count are dropped.
func Parse(rawText string) ([]RawRow, error) {
	lines := nonEmptyLines(rawText)
	if len(lines) < 2 {
		return nil, &ParseError{Reason: ReasonInsufficientRows}
	}

	headers := splitLine(strings.TrimPrefix(lines[0], byteOrderMark))

	rows := make([]RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitLine(line)
		row := make(RawRow, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) ([]RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ParseReader: read input: %w", err)
	}
	return Parse(string(data))
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		// A BOM alone on a line still counts as blank.
		if strings.TrimSpace(strings.TrimPrefix(line, byteOrderMark)) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = cleanToken(p)
	}
	return parts
}

func cleanToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 2 && strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`) {
		tok = tok[1 : len(tok)-1]
	}
	return tok
}
