package llm

import (
	"regexp"
	"strings"
)

// A repairStrategy is a pure text transform. Strategies are applied cumulatively
// in order, with a strict parse retried after each one, so the cheap fixes run
// before the aggressive character scans.
type repairStrategy struct {
	name  string
	apply func(string) string
}

var repairStrategies = []repairStrategy{
	{name: "strip-trailing-commas", apply: stripTrailingCommas},
	{name: "escape-control-chars", apply: escapeControlChars},
	{name: "escape-interior-quotes", apply: escapeInteriorQuotes},
}

// StrategyAttempt records the outcome of one parse attempt for diagnostics.
// "strict" is the initial attempt before any repair ran.
type StrategyAttempt struct {
	Strategy string
	Err      error
}

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

func stripTrailingCommas(text string) string {
	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// escapeControlChars rewrites bare newlines, carriage returns, and tabs inside
// string literals as their JSON escape sequences. The scan tracks string
// boundary state byte by byte; a backslash suppresses interpretation of the
// following byte, so an escaped backslash followed by a real quote still
// toggles the string state correctly.
func escapeControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			b.WriteByte(c)
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			b.WriteByte(c)
			continue
		}
		if inString {
			switch c {
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				b.WriteByte(c)
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// escapeInteriorQuotes handles model output like "text with "quotes" inside".
// While inside a string literal, a quote that is not followed by a structural
// delimiter is judged to be unescaped content rather than the terminator, and
// gets escaped. This is deliberately aggressive and only runs after the safer
// repairs have failed.
func escapeInteriorQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			b.WriteByte(c)
			escaped = true
			continue
		}
		if c == '"' {
			if inString && !terminatesString(text, i+1) {
				b.WriteString(`\"`)
				continue
			}
			inString = !inString
			b.WriteByte(c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// terminatesString judges whether a quote at position pos-1 legitimately ends a
// string literal: the next non-space byte within a short lookahead window must
// be a structural delimiter (or the end of input).
func terminatesString(text string, pos int) bool {
	const window = 20
	end := pos + window
	if end > len(text) {
		end = len(text)
	}
	for i := pos; i < end; i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case ',', ':', '}', ']':
			return true
		default:
			return false
		}
	}
	// Nothing but whitespace up to the end of input also ends the string.
	return end == len(text)
}
