package entity

type UserRole string

const (
	RoleAdmin          UserRole = "ADMIN"
	RolePassenger      UserRole = "PASSENGER"
	RoleAirportStaff   UserRole = "AIRPORT_STAFF"
	RoleBorderGuard    UserRole = "BORDER_GUARD"
	RoleCustomsOfficer UserRole = "CUSTOMS_OFFICER"
)

var AllRoles = []UserRole{RoleAdmin, RolePassenger, RoleAirportStaff, RoleBorderGuard, RoleCustomsOfficer}

func (r UserRole) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	Base
	Username     string   `db:"username"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	FirstName    string   `db:"first_name"`
	LastName     string   `db:"last_name"`
}
