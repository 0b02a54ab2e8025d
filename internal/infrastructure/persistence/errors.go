package persistence

import (
	"errors"
	"strings"

	"github.com/erp/catalog/internal/domain/shared"
	"gorm.io/gorm"
)

// translateWriteError maps constraint violations raised on insert or update
func translateWriteError(err error, kind string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.Errorf(shared.ErrDuplicateName, "%s name is already in use", kind)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.Errorf(shared.ErrDanglingReference, "%s references a record that does not exist", kind)
	}
	return err
}

// translateDeleteError maps a foreign key violation on delete to HasDependents
func translateDeleteError(err error, kind string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.Errorf(shared.ErrHasDependents, "%s is still referenced by other records", kind)
	}
	return err
}

func translateReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowercase LIKE pattern matching s anywhere, with wildcards in s escaped.
// Use with `LIKE ? ESCAPE '\'`.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
