package services

import "generator-backoffice/internal/core/domain"

// storeError keeps business rules signalled by a procedure and wraps any other store failure
func storeError(err error, code, message string) error {
	if domain.KindOf(err) == domain.KindBusinessRule {
		return err
	}
	return domain.Internal(code, message, err)
}
