// Package policy holds the static session policy: named rules mapping to the role sets
// allowed through them. Evaluation is plain set membership, roles do not inherit.
package policy

import (
	"fmt"

	"generator-backoffice/internal/core/domain"
)

// Policy names
const (
	AdminOnly       = "AdminOnly"
	TenantOwnerOnly = "TenantOwnerOnly"
	AnyStaff        = "AnyStaff"
)

// Rule maps a policy name to the roles it admits
type Rule struct {
	Name  string
	Roles []domain.Role
}

// Table is an immutable set of rules keyed by name
type Table struct {
	rules map[string]map[domain.Role]struct{}
}

// NewTable builds a table, rejecting duplicate names and empty role sets
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{rules: make(map[string]map[domain.Role]struct{}, len(rules))}
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("policy name is required")
		}
		if _, dup := t.rules[r.Name]; dup {
			return nil, fmt.Errorf("duplicate policy %q", r.Name)
		}
		if len(r.Roles) == 0 {
			return nil, fmt.Errorf("policy %q has no roles", r.Name)
		}
		set := make(map[domain.Role]struct{}, len(r.Roles))
		for _, role := range r.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("policy %q references unknown role %q", r.Name, role)
			}
			set[role] = struct{}{}
		}
		t.rules[r.Name] = set
	}
	return t, nil
}

// Default returns the back office policy table
func Default() *Table {
	t, err := NewTable(
		Rule{Name: AdminOnly, Roles: []domain.Role{domain.RoleAdmin}},
		Rule{Name: TenantOwnerOnly, Roles: []domain.Role{domain.RoleTenantOwner}},
		Rule{Name: AnyStaff, Roles: []domain.Role{domain.RoleAdmin, domain.RoleTenantOwner}},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Has reports whether a policy with this name exists
func (t *Table) Has(name string) bool {
	_, ok := t.rules[name]
	return ok
}

// Allows reports whether any of roles is admitted by the named policy.
// Unknown policies admit nobody.
func (t *Table) Allows(name string, roles []domain.Role) bool {
	set, ok := t.rules[name]
	if !ok {
		return false
	}
	for _, role := range roles {
		if _, ok := set[role]; ok {
			return true
		}
	}
	return false
}
