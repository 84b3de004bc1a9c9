package auth

import "fmt"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Permission is a single bit of a role's permission mask.
type Permission uint16

const (
	PermReadCatalog Permission = 1 << iota
	PermManageCatalog
	PermReadMembers
	PermManageMembers
	PermBorrow
	PermManageLoans
)

var rolePermissions = map[Role]Permission{
	RoleUser:  PermReadCatalog | PermReadMembers | PermBorrow,
	RoleAdmin: PermReadCatalog | PermManageCatalog | PermReadMembers | PermManageMembers | PermBorrow | PermManageLoans,
}

func (r Role) Permissions() Permission {
	return rolePermissions[r]
}

func (r Role) Can(p Permission) bool {
	return p != 0 && r.Permissions()&p == p
}
