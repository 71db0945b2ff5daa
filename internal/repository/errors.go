// Package repository contains the SQL data access for venues, artists and
// shows. The sentinel errors below let handlers tell a missing row or a
// dangling reference apart from an infrastructure failure.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrInvalidReference is returned when a write points at a venue or artist
// that does not exist. Handlers should turn it into a form error.
var ErrInvalidReference = errors.New("invalid reference")

// mysqlNoReferencedRow is ER_NO_REFERENCED_ROW_2.
const mysqlNoReferencedRow = 1452

// isForeignKeyViolation recognises foreign key failures from both drivers.
func isForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlNoReferencedRow
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}

// likePattern turns a search term into a substring LIKE pattern for use with
// ESCAPE '!'. Case folding is left to LOWER() in the query so that the
// column and the term are folded by the same function.
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
