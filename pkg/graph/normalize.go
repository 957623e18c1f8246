package graph

import "strings"

// Normalize turns a text span into a node key: lowercased, trimmed and with
// whitespace runs collapsed to single spaces. Blank input yields "".
func Normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}
