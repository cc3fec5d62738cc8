package domain

// Role names one of the three account directories.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole accepts the exact role strings used on the wire.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s), true
	}
	return "", false
}

type Admin struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Doctor carries its bookable slots as raw "HH:MM" strings.
type Doctor struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Speciality     string   `json:"speciality"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Password       string   `json:"-"`
	AvailableTimes []string `json:"available_times"`
}

// HasSlot reports whether raw is one of the configured slot strings, compared literally.
func (d *Doctor) HasSlot(raw string) bool {
	for _, s := range d.AvailableTimes {
		if s == raw {
			return true
		}
	}
	return false
}

type Patient struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"-"`
}

// IsWildcard reports whether a filter criterion means "match everything".
// Only the exact sentinels count; "ALL" is an ordinary search term.
func IsWildcard(s string) bool {
	switch s {
	case "", "null", "all":
		return true
	}
	return false
}
