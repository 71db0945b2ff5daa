package database

import (
	"embed"
	"fmt"
)

//go:embed schema/*.sql
var schemaFS embed.FS

func schemaFor(driver string) (string, error) {
	b, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema for driver %q: %w", driver, err)
	}
	return string(b), nil
}
