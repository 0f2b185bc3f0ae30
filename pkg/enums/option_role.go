package enums

import "fmt"

// OptionGroupRole tags an option group as the size selector or a plain
// supplement group. The role is resolved once at catalog load time: the first
// required single-select group by display order is the size group.
type OptionGroupRole string

const (
	OptionGroupRoleSize       OptionGroupRole = "size"
	OptionGroupRoleSupplement OptionGroupRole = "supplement"
)

var validOptionGroupRoles = []OptionGroupRole{
	OptionGroupRoleSize,
	OptionGroupRoleSupplement,
}

// String implements fmt.Stringer.
func (o OptionGroupRole) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OptionGroupRole.
func (o OptionGroupRole) IsValid() bool {
	for _, candidate := range validOptionGroupRoles {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOptionGroupRole converts raw input into an OptionGroupRole.
func ParseOptionGroupRole(value string) (OptionGroupRole, error) {
	for _, candidate := range validOptionGroupRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid option group role %q", value)
}
