package auth

import (
	"context"
	"time"

	"github.com/Kyz7/wip/internal/admin"
	"github.com/Kyz7/wip/internal/metrics"
	"github.com/Kyz7/wip/internal/models"
	"github.com/Kyz7/wip/internal/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const MinPasswordLength = 8

// AdminStore is the persistence the manager needs. *admin.Repository
// implements it.
type AdminStore interface {
	FindByID(ctx context.Context, id uint) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	CheckEmailNicknameUnique(ctx context.Context, email, nickname string) error
	Create(ctx context.Context, a *models.Admin) error
	RecordSession(ctx context.Context, a *models.Admin, hashedRefreshToken, jti string) error
	RotateSession(ctx context.Context, a *models.Admin, prevJTI, hashedRefreshToken, jti string) error
	ClearSession(ctx context.Context, a *models.Admin) error
}

// LoginNotifier is told about every successful login. It must not block.
type LoginNotifier interface {
	SendLoginAlarm(email, nickname string, at time.Time)
}

type SignupInput struct {
	Email    string
	Password string
	Nickname string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResult struct {
	Admin models.AdminInfo `json:"admin"`
	TokenPair
}

// Manager runs signup, login, refresh and logout. Each admin has at most one
// live session, identified by its rotation id (jti); issuing a new pair
// invalidates every older one.
type Manager struct {
	admins   AdminStore
	tokens   *utils.TokenCodec
	notifier LoginNotifier
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewManager(admins AdminStore, tokens *utils.TokenCodec, notifier LoginNotifier, log logrus.FieldLogger, m *metrics.Metrics) *Manager {
	return &Manager{
		admins:   admins,
		tokens:   tokens,
		notifier: notifier,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

func (m *Manager) Signup(ctx context.Context, in SignupInput) (*models.AdminInfo, error) {
	log := m.log.WithFields(logrus.Fields{"email": in.Email, "action": "signup"})

	if len([]rune(in.Password)) < MinPasswordLength {
		m.metrics.AuthEvent("signup", metrics.OutcomeFailure)
		return nil, ErrPasswordTooShort
	}

	if err := m.admins.CheckEmailNicknameUnique(ctx, in.Email, in.Nickname); err != nil {
		m.metrics.AuthEvent("signup", metrics.OutcomeFailure)
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		m.metrics.AuthEvent("signup", metrics.OutcomeFailure)
		return nil, errors.Wrap(err, "hash password")
	}

	a := models.NewAdmin(in.Email, hashed, in.Nickname)
	if err := m.admins.Create(ctx, a); err != nil {
		m.metrics.AuthEvent("signup", metrics.OutcomeFailure)
		return nil, err
	}

	m.metrics.AuthEvent("signup", metrics.OutcomeSuccess)
	log.WithField("admin_id", a.ID).Info("admin signed up")
	info := a.Info()
	return &info, nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := m.log.WithFields(logrus.Fields{"email": email, "action": "login"})

	a, err := m.admins.FindByEmail(ctx, email)
	if err != nil {
		m.metrics.AuthEvent("login", metrics.OutcomeFailure)
		if errors.Is(err, admin.ErrNotFound) {
			log.Info("login for unknown email")
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, a.Password) {
		m.metrics.AuthEvent("login", metrics.OutcomeFailure)
		log.WithField("admin_id", a.ID).Info("login with wrong password")
		return nil, ErrUnauthorized
	}

	jti := uuid.NewString()
	pair, hashedRefresh, err := m.issuePair(a, jti)
	if err != nil {
		m.metrics.AuthEvent("login", metrics.OutcomeFailure)
		return nil, err
	}

	if err := m.admins.RecordSession(ctx, a, hashedRefresh, jti); err != nil {
		m.metrics.AuthEvent("login", metrics.OutcomeFailure)
		return nil, err
	}

	m.notifier.SendLoginAlarm(a.Email, a.Nickname, m.now())
	m.metrics.AuthEvent("login", metrics.OutcomeSuccess)
	log.WithField("admin_id", a.ID).Info("admin logged in")

	return &LoginResult{Admin: a.Info(), TokenPair: *pair}, nil
}

// Refresh trades a refresh token for a new pair. The token must hash to the
// stored one, decode with the refresh secret, and carry this admin's id and
// current rotation id. Every failure is ErrInvalidRefreshToken.
func (m *Manager) Refresh(ctx context.Context, adminID uint, refreshToken string) (*TokenPair, error) {
	log := m.log.WithFields(logrus.Fields{"admin_id": adminID, "action": "refresh"})

	a, err := m.admins.FindByID(ctx, adminID)
	if err != nil {
		m.metrics.AuthEvent("refresh", metrics.OutcomeFailure)
		if errors.Is(err, admin.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	reject := func(reason string) (*TokenPair, error) {
		m.metrics.AuthEvent("refresh", metrics.OutcomeFailure)
		log.WithField("reason", reason).Info("refresh rejected")
		return nil, ErrInvalidRefreshToken
	}

	if !a.HasSession() {
		return reject("no active session")
	}
	if !utils.CheckPasswordHash(refreshToken, *a.HashedRefreshToken) {
		return reject("hash mismatch")
	}

	principal, err := m.tokens.Decode(refreshToken, utils.RefreshToken)
	if err != nil {
		return reject(err.Error())
	}
	prevJTI := *a.UUIDJti
	if principal.AdminID != a.ID || principal.JTI != prevJTI {
		return reject("claims do not match session")
	}

	jti := uuid.NewString()
	pair, hashedRefresh, err := m.issuePair(a, jti)
	if err != nil {
		m.metrics.AuthEvent("refresh", metrics.OutcomeFailure)
		return nil, err
	}

	if err := m.admins.RotateSession(ctx, a, prevJTI, hashedRefresh, jti); err != nil {
		if errors.Is(err, admin.ErrStaleSession) {
			return reject("concurrent rotation")
		}
		m.metrics.AuthEvent("refresh", metrics.OutcomeFailure)
		return nil, err
	}

	m.metrics.AuthEvent("refresh", metrics.OutcomeSuccess)
	log.Info("session rotated")
	return pair, nil
}

// Logout ends the admin's session. It succeeds whether or not one exists.
func (m *Manager) Logout(ctx context.Context, adminID uint) error {
	log := m.log.WithFields(logrus.Fields{"admin_id": adminID, "action": "logout"})

	a, err := m.admins.FindByID(ctx, adminID)
	if errors.Is(err, admin.ErrNotFound) {
		log.Info("logout for unknown admin")
		return nil
	}
	if err != nil {
		return err
	}

	if err := m.admins.ClearSession(ctx, a); err != nil {
		m.metrics.AuthEvent("logout", metrics.OutcomeFailure)
		return err
	}

	m.metrics.AuthEvent("logout", metrics.OutcomeSuccess)
	log.Info("admin logged out")
	return nil
}

// EnsureEmailAvailable fails with a DuplicateValueError when email already
// belongs to an admin.
func (m *Manager) EnsureEmailAvailable(ctx context.Context, email string) error {
	_, err := m.admins.FindByEmail(ctx, email)
	if err == nil {
		return &admin.DuplicateValueError{Field: "email"}
	}
	if errors.Is(err, admin.ErrNotFound) {
		return nil
	}
	return err
}

// Authenticate accepts an access token only while its rotation id is the
// admin's current one, so logout and refresh revoke older access tokens.
func (m *Manager) Authenticate(ctx context.Context, accessToken string) (*utils.Principal, error) {
	principal, err := m.tokens.Decode(accessToken, utils.AccessToken)
	if err != nil {
		m.log.WithError(err).Debug("access token rejected")
		return nil, ErrUnauthorized
	}

	a, err := m.admins.FindByID(ctx, principal.AdminID)
	if errors.Is(err, admin.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if !a.HasSession() || *a.UUIDJti != principal.JTI {
		m.log.WithField("admin_id", a.ID).Info("stale access token")
		return nil, ErrUnauthorized
	}
	return principal, nil
}

func (m *Manager) issuePair(a *models.Admin, jti string) (*TokenPair, string, error) {
	access, err := m.tokens.IssueAccess(a.ID, a.Nickname, jti)
	if err != nil {
		return nil, "", errors.Wrap(err, "issue access token")
	}
	refresh, err := m.tokens.IssueRefresh(a.ID, a.Nickname, jti)
	if err != nil {
		return nil, "", errors.Wrap(err, "issue refresh token")
	}
	hashed, err := utils.HashPassword(refresh)
	if err != nil {
		return nil, "", errors.Wrap(err, "hash refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, hashed, nil
}
