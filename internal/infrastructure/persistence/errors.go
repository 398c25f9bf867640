package persistence

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// isForeignKeyViolation reports a referential-integrity failure on either
// driver. The sqlite translator maps only SQLITE_CONSTRAINT_FOREIGNKEY;
// RESTRICT actions surface as SQLITE_CONSTRAINT_TRIGGER instead.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintTrigger
	}
	return false
}
