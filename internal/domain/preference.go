// internal/domain/preference.go

package domain

import "fmt"

// Theme is the UI color scheme. The zero value is ThemeLight.
type Theme uint8

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Theme) UnmarshalText(b []byte) error {
	parsed, err := ParseTheme(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch s {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
}

// UserRole is the role picked on the role selection screen. RoleNone means
// nothing was picked yet.
type UserRole uint8

const (
	RoleNone UserRole = iota
	RoleRider
	RoleDriver
)

func (r UserRole) String() string {
	switch r {
	case RoleRider:
		return "rider"
	case RoleDriver:
		return "driver"
	default:
		return ""
	}
}

func (r UserRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *UserRole) UnmarshalText(b []byte) error {
	parsed, err := ParseUserRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseUserRole accepts "rider", "driver", and "" (or "none") for RoleNone.
func ParseUserRole(s string) (UserRole, error) {
	switch s {
	case "", "none":
		return RoleNone, nil
	case "rider":
		return RoleRider, nil
	case "driver":
		return RoleDriver, nil
	default:
		return RoleNone, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Stable storage keys
const (
	ThemeKey = "theme"
	RoleKey  = "user_role"
)
