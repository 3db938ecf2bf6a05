package blocker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseSettings parses the brace-enclosed key/value dump printed by the
// tool's print-settings command:
//
//	{
//	    BlockIsRunning = 1;
//	    BlockEndDate = "2022-12-30 22:25:27 +0000";
//	    HostBlacklist = ( "example.com" );
//	}
//
// Anything before the opening brace or after its matching closing brace is
// ignored. Whitespace outside quoted strings is insignificant. Nested
// parenthesised or braced values are returned as their raw text.
func ParseSettings(dump string) (map[string]string, error) {
	open := strings.IndexByte(dump, '{')
	if open < 0 {
		return nil, ErrMalformedOutput.Fmt("no opening brace")
	}

	body, err := enclosed(dump[open:])
	if err != nil {
		return nil, err
	}

	entries, err := splitTopLevel(body, ';')
	if err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(entries))

	for _, entry := range entries {
		entry = compact(entry)
		if entry == "" {
			continue
		}

		parts, err := splitTopLevel(entry, '=')
		if err != nil {
			return nil, err
		}

		if len(parts) != 2 || parts[0] == "" {
			return nil, ErrMalformedOutput.Fmt("entry " + quote(entry) + " is not key = value")
		}

		settings[parts[0]] = parts[1]
	}

	return settings, nil
}

// scanner tracks quoting and bracket nesting while walking a dump.
type scanner struct {
	open    []rune
	quoted  bool
	escaped bool
}

var closers = map[rune]rune{'}': '{', ')': '('}

// step consumes r and reports whether it is a structural character at the
// top level, that is outside quotes and brackets.
func (s *scanner) step(r rune) (topLevel bool, err error) {
	if s.quoted {
		switch {
		case s.escaped:
			s.escaped = false
		case r == '\\':
			s.escaped = true
		case r == '"':
			s.quoted = false
		}

		return false, nil
	}

	switch r {
	case '"':
		s.quoted = true
		return false, nil
	case '{', '(':
		s.open = append(s.open, r)
		return false, nil
	case '}', ')':
		n := len(s.open)
		if n == 0 || s.open[n-1] != closers[r] {
			return false, ErrMalformedOutput.Fmt("unbalanced " + string(r))
		}

		s.open = s.open[:n-1]

		return false, nil
	}

	return len(s.open) == 0, nil
}

func (s *scanner) nested() bool {
	return s.quoted || len(s.open) > 0
}

// enclosed returns the text between the opening brace at s[0] and its
// matching closing brace.
func enclosed(s string) (string, error) {
	var sc scanner

	for i, r := range s {
		if _, err := sc.step(r); err != nil {
			return "", err
		}

		if !sc.nested() {
			return s[1:i], nil
		}
	}

	return "", ErrMalformedOutput.Fmt("unbalanced braces")
}

// splitTopLevel splits s at every top-level occurrence of sep.
func splitTopLevel(s string, sep rune) ([]string, error) {
	var (
		sc    scanner
		parts []string
		start int
	)

	for i, r := range s {
		top, err := sc.step(r)
		if err != nil {
			return nil, err
		}

		if top && r == sep {
			parts = append(parts, s[start:i])
			start = i + len(string(sep))
		}
	}

	if sc.nested() {
		return nil, ErrMalformedOutput.Fmt("unterminated value")
	}

	return append(parts, s[start:]), nil
}

// compact removes whitespace outside quoted strings.
func compact(s string) string {
	var (
		b  strings.Builder
		sc scanner
	)

	for _, r := range s {
		wasQuoted := sc.quoted

		// errors are caught by splitTopLevel before compact runs
		_, _ = sc.step(r)

		if !wasQuoted && !sc.quoted && unicode.IsSpace(r) {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// quote shortens s to its first 40 runes for error messages.
func quote(s string) string {
	const max = 40

	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max]) + "..."
	}

	return `"` + s + `"`
}
