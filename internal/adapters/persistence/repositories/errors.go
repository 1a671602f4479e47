package repositories

import (
	"errors"
	"strings"

	"generator-backoffice/internal/core/domain"

	"github.com/go-sql-driver/mysql"
)

// erSignalException is the server error raised by SIGNAL SQLSTATE '45000'
const erSignalException = 1644

// translate turns a business rule signalled by a procedure into a domain error.
// Procedures put the machine-readable code in MESSAGE_TEXT; any other error is returned as is.
func translate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != erSignalException {
		return err
	}
	code := strings.TrimSpace(me.Message)
	if code == "" {
		return err
	}
	return &domain.Error{Kind: domain.KindBusinessRule, Code: code, Err: err}
}
