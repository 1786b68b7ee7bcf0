package domain

import "strings"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return r, true
	}
	return "", false
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID uint // zero for service tokens
	Role   Role
}

// CanAccess reports whether the actor may see or act on a record owned by ownerID.
// Customers are limited to their own records.
func (a Actor) CanAccess(ownerID uint) bool {
	if a.Role == RoleCustomer {
		return a.UserID != 0 && a.UserID == ownerID
	}
	return a.Role == RoleAdmin || a.Role == RoleStaff
}
