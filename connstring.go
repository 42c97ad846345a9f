package mssqlkit

import (
	"net/url"
	"strings"

	"github.com/microsoft/go-mssqldb/msdsn"
)

// TargetDatabase returns the catalog named by the connection string, or an
// empty string when it does not name one. URL, ADO and ODBC forms are all
// accepted.
func TargetDatabase(dsn string) (string, error) {
	params, err := msdsn.Parse(dsn)
	if err != nil {
		return "", &Error{
			Code:    CodeConnectionFailed,
			Message: "invalid connection string",
			Op:      "TargetDatabase",
			Cause:   err,
		}
	}
	return params.Database, nil
}

// URLWithDatabase returns the connection string pointed at the given catalog,
// leaving every other setting in place. The original form of the string is
// preserved, re-rendering through the driver would drop settings such as
// encryption parameters.
func URLWithDatabase(dsn, name string) (string, error) {
	if _, err := msdsn.Parse(dsn); err != nil {
		return "", &Error{
			Code:    CodeConnectionFailed,
			Message: "invalid connection string",
			Op:      "URLWithDatabase",
			Cause:   err,
		}
	}

	if u, err := url.Parse(dsn); err == nil && u.Scheme == "sqlserver" {
		q := u.Query()
		q.Set("database", name)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	return semicolonWithDatabase(dsn, name), nil
}

// AdminURL returns the connection string pointed at the admin database,
// which is where every administrative statement must run.
func AdminURL(dsn string) (string, error) {
	return URLWithDatabase(dsn, AdminDatabase)
}

// semicolonWithDatabase rewrites the database key of an ADO or ODBC style
// string, appending one when the string has none.
func semicolonWithDatabase(dsn, name string) string {
	parts := splitParameters(dsn)
	out := make([]string, 0, len(parts)+1)
	replaced := false
	for _, part := range parts {
		key, _, found := strings.Cut(part, "=")
		if found {
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "database", "initial catalog":
				if replaced {
					continue
				}
				out = append(out, key+"="+name)
				replaced = true
				continue
			}
		}
		out = append(out, part)
	}
	if !replaced {
		out = append(out, "database="+name)
	}
	return strings.Join(out, ";")
}

// splitParameters splits a semicolon form connection string into its
// parameters. A semicolon inside a braced value belongs to the value, and a
// doubled closing brace inside one is a literal brace, not the end of the
// value.
func splitParameters(dsn string) []string {
	var parts []string
	start := 0
	braced := false
	inKey := true
	atValue := false
	for i := 0; i < len(dsn); i++ {
		c := dsn[i]
		switch {
		case braced:
			if c == '}' {
				if i+1 < len(dsn) && dsn[i+1] == '}' {
					i++ // escaped brace
				} else {
					braced = false
				}
			}
		case c == ';':
			parts = append(parts, dsn[start:i])
			start = i + 1
			inKey = true
			atValue = false
		case c == '=' && inKey:
			inKey = false
			atValue = true
		case c == '{' && atValue:
			braced = true
			atValue = false
		default:
			// A brace opens a value only as its first character, leading
			// spaces aside. Anything else makes the value a bare one.
			if c != ' ' {
				atValue = false
			}
		}
	}
	return append(parts, dsn[start:])
}
