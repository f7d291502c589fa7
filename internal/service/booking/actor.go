package booking

import "welfaredesk/backend/internal/service/svcerr"

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

type Actor struct {
	ID   string
	Role Role
}

func (a Actor) Staff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

func requireStaff(a Actor) error {
	if a.ID == "" {
		return svcerr.Forbidden("sign in to continue")
	}
	if !a.Staff() {
		return svcerr.Forbidden("only staff can manage appointments")
	}
	return nil
}
