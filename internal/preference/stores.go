package preference

import "github.com/nisargarh/Cab-booking-sub001/internal/domain"

// ThemeStore is the light/dark preference.
type ThemeStore struct {
	*Store[domain.Theme]
}

func NewThemeStore(def domain.Theme, storage domain.PreferenceStorage, opts ...Option) *ThemeStore {
	return &ThemeStore{Store: New(domain.ThemeKey, def, storage, opts...)}
}

// Toggle flips between light and dark and returns the new theme.
func (s *ThemeStore) Toggle() domain.Theme {
	return s.Update(domain.Theme.Opposite)
}

// RoleStore is the selected user role; it starts at RoleNone.
type RoleStore struct {
	*Store[domain.UserRole]
}

func NewRoleStore(storage domain.PreferenceStorage, opts ...Option) *RoleStore {
	return &RoleStore{Store: New(domain.RoleKey, domain.RoleNone, storage, opts...)}
}
