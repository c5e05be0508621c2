package service

import (
	"errors"

	"berrypay/internal/apperror"

	"gorm.io/gorm"
)

// orNotFound turns a missing row into a client-facing 404 and passes
// every other error through.
func orNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(message)
	}
	return err
}
