// internal/service/otp.go

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/internal/metrics"
	"github.com/nisargarh/Cab-booking-sub001/internal/otp"
	"github.com/nisargarh/Cab-booking-sub001/internal/scheduler"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
	promMetrics "github.com/nisargarh/Cab-booking-sub001/pkg/metrics"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

// OTPConfig configures verification sessions. An empty StaticCode draws a
// random code per session.
type OTPConfig struct {
	StaticCode      string
	Cooldown        int
	TickInterval    time.Duration
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	TestMode        bool
}

type otpSession struct {
	id        string
	rideID    string
	code      string
	createdAt time.Time

	mu        sync.Mutex
	challenge *otp.Challenge
	ticker    *scheduler.Ticker
	lastSeen  time.Time
	stopped   bool
	navigated bool
}

// tick runs on the session ticker goroutine.
func (s *otpSession) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.challenge.Tick()
	}
}

// stopTicker releases the countdown. It must be called without s.mu held,
// since Cancel waits for a running tick.
func (s *otpSession) stopTicker() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()
	s.ticker.Cancel()
}

func (s *otpSession) viewLocked(includeCode bool) *domain.OTPSession {
	digits := s.challenge.Digits()
	view := &domain.OTPSession{
		ID:               s.id,
		RideID:           s.rideID,
		Digits:           digits[:],
		State:            s.challenge.State().String(),
		SecondsRemaining: s.challenge.SecondsRemaining(),
		CanResend:        s.challenge.CanResend(),
		FailedAttempts:   s.challenge.FailedAttempts(),
		CreatedAt:        s.createdAt,
	}
	if includeCode {
		view.Code = s.code
	}
	return view
}

// sessionFeedback turns challenge outcomes into logs and counters.
type sessionFeedback struct {
	sessionID string
	stats     *metrics.Metrics
}

func (f sessionFeedback) Success() {
	f.stats.IncrementOTPVerified()
	promMetrics.RecordOTPVerification(true)
	logger.WithFields(logrus.Fields{"session_id": f.sessionID}).Info("Trip-start code verified")
}

func (f sessionFeedback) Failure() {
	f.stats.IncrementOTPInvalid()
	promMetrics.RecordOTPVerification(false)
	logger.WithFields(logrus.Fields{"session_id": f.sessionID}).Info("Trip-start code rejected")
}

// VerifiedHook runs once per session, after its code was accepted.
type VerifiedHook func(ctx context.Context, session *domain.OTPSession)

type otpService struct {
	cfg       OTPConfig
	navigator domain.Navigator
	stats     *metrics.Metrics
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*otpSession
	hooks    []VerifiedHook

	janitor      *scheduler.Ticker
	shutdownOnce sync.Once
}

// OTPService is the session manager plus its lifecycle hooks.
type OTPService interface {
	domain.OTPService
	OnVerified(hook VerifiedHook)
	Sweep() int
	Shutdown()
}

func NewOTPService(cfg OTPConfig, navigator domain.Navigator, stats *metrics.Metrics) (OTPService, error) {
	if err := utils.ValidateStaticCode(cfg.StaticCode); err != nil {
		return nil, err
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = otp.DefaultCooldown
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if stats == nil {
		stats = metrics.NewMetrics(logger.GetLogger())
	}

	s := &otpService{
		cfg:       cfg,
		navigator: navigator,
		stats:     stats,
		now:       time.Now,
		sessions:  make(map[string]*otpSession),
	}

	if cfg.SessionTTL > 0 && cfg.CleanupInterval > 0 {
		s.janitor = scheduler.NewTicker(cfg.CleanupInterval, func() { s.Sweep() })
		s.janitor.Start()
	}
	return s, nil
}

// OnVerified registers hook for every session verified from now on.
func (s *otpService) OnVerified(hook VerifiedHook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

func (s *otpService) nextCode() (string, error) {
	if s.cfg.StaticCode != "" {
		return s.cfg.StaticCode, nil
	}
	return utils.GenerateCode(otp.CodeLength)
}

// Create opens a session with a fresh challenge and starts its countdown.
func (s *otpService) Create(ctx context.Context, rideID string) (*domain.OTPSession, error) {
	code, err := s.nextCode()
	if err != nil {
		return nil, fmt.Errorf("failed to create verification code: %w", err)
	}

	id := uuid.New().String()
	challenge, err := otp.NewChallenge(code,
		otp.WithCooldown(s.cfg.Cooldown),
		otp.WithFeedback(sessionFeedback{sessionID: id, stats: s.stats}),
	)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &otpSession{
		id:        id,
		rideID:    rideID,
		code:      code,
		createdAt: now,
		challenge: challenge,
		lastSeen:  now,
	}
	sess.ticker = scheduler.NewTicker(s.cfg.TickInterval, sess.tick)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	sess.ticker.Start()

	s.stats.IncrementSessionsCreated()
	promMetrics.ActiveOTPSessions.Inc()

	fields := logrus.Fields{"session_id": id, "ride_id": rideID, "code": utils.MaskCode(code)}
	if s.cfg.TestMode {
		fields["code"] = code
		logger.WithFields(fields).Warn("Test Mode: verification code exposed")
	} else {
		logger.WithFields(fields).Info("Verification session created")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked(s.cfg.TestMode), nil
}

func (s *otpService) Get(ctx context.Context, id string) (*domain.OTPSession, error) {
	return s.withSession(ctx, id, func(*otpSession) error { return nil })
}

// EnterDigit fills or clears one slot. A completed entry is evaluated
// immediately; a mismatch returns ErrMismatch together with the cleared
// session.
func (s *otpService) EnterDigit(ctx context.Context, id string, index int, digit string) (*domain.OTPSession, error) {
	return s.withSession(ctx, id, func(sess *otpSession) error {
		return sess.challenge.EnterDigit(index, digit)
	})
}

func (s *otpService) Verify(ctx context.Context, id string) (*domain.OTPSession, error) {
	return s.withSession(ctx, id, func(sess *otpSession) error {
		return sess.challenge.Verify()
	})
}

func (s *otpService) Resend(ctx context.Context, id string) (*domain.OTPSession, error) {
	return s.withSession(ctx, id, func(sess *otpSession) error {
		err := sess.challenge.Resend()
		promMetrics.RecordOTPResend(err == nil)
		if err == nil {
			s.stats.IncrementOTPResends()
			logger.WithFields(logrus.Fields{"session_id": sess.id}).Info("Verification code resent")
		}
		return err
	})
}

// Close ends the session the way leaving the screen does.
func (s *otpService) Close(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrMissingSessionID
	}
	if !s.remove(id) {
		return domain.ErrSessionNotFound
	}
	logger.WithFields(logrus.Fields{"session_id": id}).Debug("Verification session closed")
	return nil
}

// Sweep closes sessions idle for longer than the session TTL and returns
// how many it closed.
func (s *otpService) Sweep() int {
	if s.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.SessionTTL)

	s.mu.RLock()
	var idle []string
	for id, sess := range s.sessions {
		sess.mu.Lock()
		if sess.lastSeen.Before(cutoff) {
			idle = append(idle, id)
		}
		sess.mu.Unlock()
	}
	s.mu.RUnlock()

	closed := 0
	for _, id := range idle {
		if s.remove(id) {
			closed++
			s.stats.IncrementSessionsExpired()
		}
	}
	if closed > 0 {
		logger.WithFields(logrus.Fields{"count": closed}).Info("Closed idle verification sessions")
	}
	return closed
}

// Shutdown stops the janitor and closes every session.
func (s *otpService) Shutdown() {
	s.shutdownOnce.Do(func() {
		if s.janitor != nil {
			s.janitor.Cancel()
		}

		s.mu.RLock()
		ids := make([]string, 0, len(s.sessions))
		for id := range s.sessions {
			ids = append(ids, id)
		}
		s.mu.RUnlock()

		for _, id := range ids {
			s.remove(id)
		}
	})
}

func (s *otpService) remove(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return false
	}

	sess.stopTicker()
	s.stats.SessionClosed()
	promMetrics.ActiveOTPSessions.Dec()
	return true
}

func (s *otpService) lookup(id string) (*otpSession, error) {
	if id == "" {
		return nil, domain.ErrMissingSessionID
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// withSession runs fn under the session lock and returns the resulting
// view. The first time the challenge is seen verified the countdown is
// released, the client is sent to the trip screen and the verified hooks
// run.
func (s *otpService) withSession(ctx context.Context, id string, fn func(*otpSession) error) (*domain.OTPSession, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.lastSeen = s.now()
	opErr := fn(sess)
	view := sess.viewLocked(s.cfg.TestMode)
	navigate := sess.challenge.Verified() && !sess.navigated
	if navigate {
		sess.navigated = true
	}
	sess.mu.Unlock()

	if navigate {
		sess.stopTicker()
		if s.navigator != nil {
			s.navigator.Navigate(ctx, domain.RouteTripStarted, map[string]string{
				"session_id": sess.id,
				"ride_id":    sess.rideID,
			})
		}

		s.mu.RLock()
		hooks := append([]VerifiedHook(nil), s.hooks...)
		s.mu.RUnlock()
		for _, hook := range hooks {
			hook(ctx, view)
		}
	}
	return view, opErr
}
