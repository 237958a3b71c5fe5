package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/internal/metrics"
	"github.com/nisargarh/Cab-booking-sub001/internal/preference"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

type preferenceService struct {
	theme *preference.ThemeStore
	role  *preference.RoleStore
	stats *metrics.Metrics
}

func NewPreferenceService(theme *preference.ThemeStore, role *preference.RoleStore, stats *metrics.Metrics) domain.PreferenceService {
	if stats == nil {
		stats = metrics.NewMetrics(logger.GetLogger())
	}
	return &preferenceService{
		theme: theme,
		role:  role,
		stats: stats,
	}
}

func (s *preferenceService) Get(ctx context.Context) domain.Preferences {
	return domain.Preferences{Theme: s.theme.Get(), Role: s.role.Get()}
}

func (s *preferenceService) SetTheme(ctx context.Context, theme domain.Theme) domain.Preferences {
	s.theme.Set(theme)
	s.written(domain.ThemeKey, theme.String())
	return s.Get(ctx)
}

func (s *preferenceService) ToggleTheme(ctx context.Context) domain.Preferences {
	theme := s.theme.Toggle()
	s.written(domain.ThemeKey, theme.String())
	return s.Get(ctx)
}

func (s *preferenceService) SetRole(ctx context.Context, role domain.UserRole) domain.Preferences {
	s.role.Set(role)
	s.written(domain.RoleKey, role.String())
	return s.Get(ctx)
}

// Subscribe reports the combined preferences whenever either store changes.
func (s *preferenceService) Subscribe(listener func(domain.Preferences)) func() {
	unsubTheme := s.theme.Subscribe(func(domain.Theme) { listener(s.Get(context.Background())) })
	unsubRole := s.role.Subscribe(func(domain.UserRole) { listener(s.Get(context.Background())) })
	return func() {
		unsubTheme()
		unsubRole()
	}
}

func (s *preferenceService) written(key, value string) {
	s.stats.IncrementPreferenceWrites()
	logger.WithFields(logrus.Fields{"key": key, "value": value}).Debug("Preference updated")
}
