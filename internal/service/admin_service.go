package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shift-report/config"
	"shift-report/internal/dto"
	"shift-report/internal/repository"
	"shift-report/pkg/jwt"
)

var (
	ErrInvalidAccessPhrase = errors.New("wrong access phrase")
	ErrSessionInvalid      = errors.New("admin session missing, expired or ended")
	ErrUnknownResetTarget  = errors.New("unknown reset target")
)

// Reset targets. Each one clears a whole table.
const (
	ResetLocations = "locations"
	ResetReports   = "reports"
)

var resetTargets = []string{ResetLocations, ResetReports}

// AdminService admin session lifecycle and destructive actions.
//
// Every call that acts on behalf of an admin takes the session explicitly;
// per-session state (logout, armed confirmations) lives in the SessionStore.
type AdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	// Authenticate turns a bearer token into the request's session.
	Authenticate(ctx context.Context, token string) (*dto.AdminSession, error)
	Logout(ctx context.Context, sess *dto.AdminSession) error
	// RequestReset first call arms target; the second one deletes every row of it.
	RequestReset(ctx context.Context, sess *dto.AdminSession, target string) (*dto.ResetResponse, error)
	// CancelReset disarms every target of the session without deleting.
	CancelReset(ctx context.Context, sess *dto.AdminSession) error
}

type adminService struct {
	cfg    *config.AdminConfig
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	store  SessionStore
	now    func() time.Time
	logger *zap.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(
	cfg *config.AdminConfig,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	store SessionStore,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

func (s *adminService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if !s.phraseMatches(req.AccessPhrase) {
		s.logger.Warn("admin login rejected")
		return nil, ErrInvalidAccessPhrase
	}

	token, claims, err := s.jwtMgr.GenerateSessionToken()
	if err != nil {
		s.logger.Error("sign session token failed", zap.Error(err))
		return nil, err
	}

	expiresAt := claims.ExpiresAt.Time
	s.logger.Info("admin session started", zap.String("session_id", claims.SessionID()))

	return &dto.AdminLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
	}, nil
}

// phraseMatches bcrypt hash wins over the plain phrase when both are set.
func (s *adminService) phraseMatches(phrase string) bool {
	if phrase == "" {
		return false
	}
	if s.cfg.AccessPhraseHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AccessPhraseHash), []byte(phrase)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.AccessPhrase), []byte(phrase)) == 1
}

func (s *adminService) Authenticate(ctx context.Context, token string) (*dto.AdminSession, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	revoked, err := s.store.IsSessionRevoked(ctx, claims.SessionID())
	if err != nil {
		s.logger.Error("check session revocation failed", zap.Error(err))
		return nil, err
	}
	if revoked {
		return nil, ErrSessionInvalid
	}

	return &dto.AdminSession{ID: claims.SessionID(), ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *adminService) Logout(ctx context.Context, sess *dto.AdminSession) error {
	if err := s.store.DisarmConfirmations(ctx, sess.ID, resetTargets...); err != nil {
		s.logger.Error("disarm on logout failed", zap.String("session_id", sess.ID), zap.Error(err))
		return err
	}
	if err := s.store.RevokeSession(ctx, sess.ID, s.remaining(sess)); err != nil {
		s.logger.Error("revoke session failed", zap.String("session_id", sess.ID), zap.Error(err))
		return err
	}
	s.logger.Info("admin session ended", zap.String("session_id", sess.ID))
	return nil
}

func (s *adminService) RequestReset(ctx context.Context, sess *dto.AdminSession, target string) (*dto.ResetResponse, error) {
	if target != ResetLocations && target != ResetReports {
		return nil, ErrUnknownResetTarget
	}

	armed, err := s.store.IsConfirmationArmed(ctx, sess.ID, target)
	if err != nil {
		s.logger.Error("read confirmation failed", zap.String("session_id", sess.ID), zap.Error(err))
		return nil, err
	}

	if !armed {
		if err := s.store.ArmConfirmation(ctx, sess.ID, target, s.remaining(sess)); err != nil {
			s.logger.Error("arm confirmation failed", zap.String("session_id", sess.ID), zap.Error(err))
			return nil, err
		}
		return &dto.ResetResponse{Target: target, Confirmed: false}, nil
	}

	var deleted int64
	switch target {
	case ResetLocations:
		deleted, err = s.repo.LocationPing.DeleteAll(ctx)
	case ResetReports:
		deleted, err = s.repo.Report.DeleteAll(ctx)
	}
	if err != nil {
		// flag stays armed so the admin can retry the second step
		s.logger.Error("reset failed", zap.String("target", target), zap.Error(err))
		return nil, err
	}

	if err := s.store.DisarmConfirmations(ctx, sess.ID, target); err != nil {
		s.logger.Error("disarm confirmation failed", zap.String("session_id", sess.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Warn("table cleared",
		zap.String("target", target),
		zap.Int64("deleted", deleted),
		zap.String("session_id", sess.ID))

	return &dto.ResetResponse{Target: target, Confirmed: true, Deleted: deleted}, nil
}

func (s *adminService) CancelReset(ctx context.Context, sess *dto.AdminSession) error {
	if err := s.store.DisarmConfirmations(ctx, sess.ID, resetTargets...); err != nil {
		s.logger.Error("cancel reset failed", zap.String("session_id", sess.ID), zap.Error(err))
		return err
	}
	return nil
}

// remaining lifetime of sess, at least one second so state is never written without expiry.
func (s *adminService) remaining(sess *dto.AdminSession) time.Duration {
	d := sess.ExpiresAt.Sub(s.now())
	if d < time.Second {
		return time.Second
	}
	return d
}
