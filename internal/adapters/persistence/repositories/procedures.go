package repositories

import (
	"fmt"
	"strings"
)

// procedure is the fixed schema of a stored procedure: its name, IN parameters in call order,
// and OUT parameters that are read back through session variables.
type procedure struct {
	name string
	in   []string
	out  []string
}

var (
	procUserSignIn = procedure{
		name: "sp_UserSignIn",
		in:   []string{"p_Email", "p_PasswordHash"},
		out: []string{
			"p_UserId", "p_Username", "p_FullName", "p_PhoneNumber",
			"p_Role", "p_IsActive", "p_GeneratorOwnerId",
		},
	}
	procGetUsers = procedure{
		name: "sp_GetUsers",
	}
	procGetOwnerCustomers = procedure{
		name: "sp_GetOwnerCustomers",
		in:   []string{"p_GeneratorOwnerId"},
	}
)

// callSQL renders CALL name(?, ..., @out, ...)
func (p procedure) callSQL() string {
	args := make([]string, 0, len(p.in)+len(p.out))
	for range p.in {
		args = append(args, "?")
	}
	for _, o := range p.out {
		args = append(args, "@"+o)
	}
	return fmt.Sprintf("CALL %s(%s)", p.name, strings.Join(args, ", "))
}

// selectOutSQL renders the SELECT that reads the OUT session variables back
func (p procedure) selectOutSQL() string {
	cols := make([]string, len(p.out))
	for i, o := range p.out {
		cols[i] = fmt.Sprintf("@%s AS %s", o, o)
	}
	return "SELECT " + strings.Join(cols, ", ")
}

// bind checks the argument count against the schema
func (p procedure) bind(args ...any) ([]any, error) {
	if len(args) != len(p.in) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", p.name, len(p.in), len(args))
	}
	return args, nil
}

// SignInParams are the IN parameters of sp_UserSignIn
type SignInParams struct {
	Email        string
	PasswordHash string
}

func (p SignInParams) args() []any {
	return []any{p.Email, p.PasswordHash}
}

// GetOwnerCustomersParams are the IN parameters of sp_GetOwnerCustomers
type GetOwnerCustomersParams struct {
	GeneratorOwnerID int64
}

func (p GetOwnerCustomersParams) args() []any {
	return []any{p.GeneratorOwnerID}
}
