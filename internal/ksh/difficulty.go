package ksh

import "strings"

// difficultyNames maps the raw "difficulty" header value of a KSH file to its display name.
var difficultyNames = map[string]string{
	"novice":    "Novice",
	"challenge": "Advanced",
	"extended":  "Exhaust",
	"infinite":  "Maximum",
}

// shortnames maps a lowercased display name to its three letter code.
var shortnames = map[string]string{
	"novice":   "NOV",
	"advanced": "ADV",
	"exhaust":  "EXH",
	"maximum":  "MXM",
	"infinite": "INF",
	"gravity":  "GRV",
	"heavenly": "HVN",
	"vivid":    "VVD",
}

// DifficultyName resolves a raw KSH difficulty key. Keys are case-sensitive.
func DifficultyName(key string) (string, bool) {
	name, ok := difficultyNames[key]
	return name, ok
}

// Shortname resolves a display name (any case) to its three letter code.
func Shortname(displayName string) (string, bool) {
	code, ok := shortnames[strings.ToLower(displayName)]
	return code, ok
}
