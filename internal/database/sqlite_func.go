package database

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// sqlite's built-in lower() folds ASCII only. Name searches compare
// LOWER(name) LIKE LOWER(?), so both drivers need to fold the same way.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	}
	return args[0], nil // NULL and numbers pass through
}
