package mssqlkit

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxDatabaseNameLength is the longest database name accepted, in
// characters after trimming.
const MaxDatabaseNameLength = 123

// DatabaseName is a validated SQL Server database name. It is immutable
// once constructed; the zero value is not a valid name and is rejected by
// every operation that accepts one. Build instances with
// NormalizeDatabaseName.
type DatabaseName struct {
	name     string
	fold     string
	reserved bool
}

// NormalizeDatabaseName validates raw against the engine's identifier
// rules and returns the normalized (trimmed) name. The name must be
// 1-123 characters after trimming, start with a letter or underscore,
// and contain only letters, digits, and the characters @ $ # _.
// Unicode letters are accepted; anything resembling punctuation is not,
// which is what makes the result safe to interpolate into statement text.
func NormalizeDatabaseName(raw string) (DatabaseName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return DatabaseName{}, &Error{
			Code:    CodeInvalidIdentifier,
			Message: "database name is empty or whitespace",
			Op:      "NormalizeDatabaseName",
		}
	}

	runes := []rune(name)
	if len(runes) > MaxDatabaseNameLength {
		return DatabaseName{}, &Error{
			Code:    CodeInvalidIdentifier,
			Message: fmt.Sprintf("database name is %d characters, the limit is %d", len(runes), MaxDatabaseNameLength),
			Op:      "NormalizeDatabaseName",
		}
	}

	if !isNameStart(runes[0]) {
		return DatabaseName{}, &Error{
			Code:    CodeInvalidIdentifier,
			Message: fmt.Sprintf("database name must start with a letter or underscore, not %q", runes[0]),
			Op:      "NormalizeDatabaseName",
		}
	}

	for i, r := range runes[1:] {
		if !isNamePart(r) {
			return DatabaseName{}, &Error{
				Code:    CodeInvalidIdentifier,
				Message: fmt.Sprintf("database name contains invalid character %q at position %d", r, i+2),
				Op:      "NormalizeDatabaseName",
			}
		}
	}

	return DatabaseName{
		name:     name,
		fold:     strings.ToLower(name),
		reserved: IsReservedKeyword(name),
	}, nil
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isNamePart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '@' || r == '$' || r == '#' || r == '_'
}

// String returns the normalized name. It is safe inside an N'...' string
// literal because the character whitelist admits no quotes.
func (n DatabaseName) String() string {
	return n.name
}

// Identifier returns the form safe to interpolate unquoted into DDL:
// bracket-escaped when the name collides with a reserved keyword, the
// plain name otherwise.
func (n DatabaseName) Identifier() string {
	if n.reserved {
		return "[" + n.name + "]"
	}
	return n.name
}

// IsReserved reports whether the name collides with a reserved keyword
// and therefore escapes in Identifier.
func (n DatabaseName) IsReserved() bool {
	return n.reserved
}

// IsZero reports whether n is the invalid zero value.
func (n DatabaseName) IsZero() bool {
	return n.name == ""
}

// Equal compares two names the way the engine does: ignoring case.
func (n DatabaseName) Equal(o DatabaseName) bool {
	return n.fold == o.fold
}

// Fold returns the case-folded form, suitable as a map key when names
// that differ only in case must collide.
func (n DatabaseName) Fold() string {
	return n.fold
}

// MarshalText implements encoding.TextMarshaler, so layouts serialize
// their name as the plain string.
func (n DatabaseName) MarshalText() ([]byte, error) {
	return []byte(n.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Deserialized names
// go through the validator, an invalid name cannot enter through JSON.
func (n *DatabaseName) UnmarshalText(text []byte) error {
	parsed, err := NormalizeDatabaseName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
