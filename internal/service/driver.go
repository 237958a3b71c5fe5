package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/internal/driver"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

// AcceptedRide is the trip the driver took plus its verification session.
type AcceptedRide struct {
	Ride    driver.RideRequest `json:"ride"`
	Session *domain.OTPSession `json:"otp_session"`
}

// DriverService drives the dashboard and opens a verification session for
// every accepted ride. The trip starts when that session is verified and
// the session is closed when the trip completes.
type DriverService struct {
	dashboard *driver.Dashboard
	otp       OTPService

	mu          sync.Mutex
	tripSession string
}

func NewDriverService(dashboard *driver.Dashboard, otp OTPService) *DriverService {
	s := &DriverService{
		dashboard: dashboard,
		otp:       otp,
	}
	otp.OnVerified(s.startTrip)
	return s
}

func (s *DriverService) startTrip(ctx context.Context, session *domain.OTPSession) {
	if err := s.dashboard.StartTrip(ctx, session.RideID); err != nil {
		logger.WithFields(logrus.Fields{
			"session_id": session.ID,
			"ride_id":    session.RideID,
		}).WithError(err).Warn("Verified session does not match the current trip")
	}
}

func (s *DriverService) Snapshot(ctx context.Context) driver.Snapshot {
	return s.dashboard.Snapshot()
}

func (s *DriverService) GoOnline(ctx context.Context) (driver.Snapshot, error) {
	err := s.dashboard.GoOnline(ctx)
	return s.dashboard.Snapshot(), err
}

func (s *DriverService) GoOffline(ctx context.Context) (driver.Snapshot, error) {
	err := s.dashboard.GoOffline(ctx)
	return s.dashboard.Snapshot(), err
}

func (s *DriverService) Toggle(ctx context.Context) (driver.Snapshot, error) {
	_, err := s.dashboard.Toggle(ctx)
	return s.dashboard.Snapshot(), err
}

func (s *DriverService) Accept(ctx context.Context) (*AcceptedRide, error) {
	ride, err := s.dashboard.Accept(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.otp.Create(ctx, ride.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to open verification for ride %s: %w", ride.ID, err)
	}

	s.mu.Lock()
	s.tripSession = session.ID
	s.mu.Unlock()
	return &AcceptedRide{Ride: ride, Session: session}, nil
}

func (s *DriverService) Decline(ctx context.Context) (driver.Snapshot, error) {
	err := s.dashboard.Decline(ctx)
	return s.dashboard.Snapshot(), err
}

// CompleteTrip ends a verified trip and closes its verification session.
func (s *DriverService) CompleteTrip(ctx context.Context) (driver.Snapshot, error) {
	if err := s.dashboard.CompleteTrip(ctx); err != nil {
		return s.dashboard.Snapshot(), err
	}

	s.mu.Lock()
	id := s.tripSession
	s.tripSession = ""
	s.mu.Unlock()

	if id != "" {
		if err := s.otp.Close(ctx, id); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			logger.WithFields(logrus.Fields{"session_id": id}).WithError(err).Warn("Failed to close trip verification session")
		}
	}
	return s.dashboard.Snapshot(), nil
}

func (s *DriverService) Subscribe(listener func(driver.Snapshot)) func() {
	return s.dashboard.Subscribe(listener)
}
