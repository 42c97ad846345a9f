package mssqlkit

import "strings"

// quoteLiteral renders s as an N'...' Unicode string literal with embedded
// quotes doubled.
func quoteLiteral(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}
