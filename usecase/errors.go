package usecase

import (
	"errors"

	"github.com/taskledger/backend/domain"
)

// StoreError classifies unexpected storage failures as internal errors,
// leaving already classified domain errors untouched.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeInternal, "unexpected store error", err)
}
