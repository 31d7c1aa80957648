package persistence

import (
	"errors"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ErrInvalidReference is returned when a row points at a missing parent
var ErrInvalidReference = shared.NewDomainError("INVALID_REFERENCE", "Referenced record does not exist")

// translateError maps gorm errors onto domain errors. It relies on
// gorm.Config.TranslateError being enabled.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	default:
		return err
	}
}
