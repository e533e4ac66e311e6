package otp

import (
	"context"
	"time"

	"github.com/Kyz7/wip/internal/metrics"
	"github.com/Kyz7/wip/internal/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CodeValidity is how long a sent code can be verified.
const CodeValidity = 3 * time.Minute

// Stores keep entries a little longer than they are valid; the age check in
// Verify decides, and deletes what it finds stale.
const storeTTL = 2 * CodeValidity

var (
	ErrNotFound         = errors.New("verification code not found")
	ErrWrongCode        = errors.New("verification code does not match")
	ErrCacheUnavailable = errors.New("verification code store is unavailable")
)

// CodeSender delivers a code out of band. It must not block the caller.
type CodeSender interface {
	SendAuthCode(email, code string)
}

type Service struct {
	store   Store
	sender  CodeSender
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(store Store, sender CodeSender, log logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		sender:  sender,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Send issues a fresh code for email, replacing any earlier one, and hands it
// to the sender. The code is stored before delivery starts so a fast user
// can never verify against an empty store.
func (s *Service) Send(ctx context.Context, email string) (string, error) {
	log := s.log.WithFields(logrus.Fields{"email": email, "action": "otp_send"})

	code, err := utils.GenerateAuthCode()
	if err != nil {
		s.metrics.OTPEvent("send", metrics.OutcomeFailure)
		return "", errors.Wrap(err, "generate auth code")
	}

	if _, err := s.store.Delete(ctx, email); err != nil {
		return "", s.unavailable(log, "send", err)
	}
	entry := &Entry{Code: code, CreatedAt: s.now()}
	if err := s.store.Set(ctx, email, entry, storeTTL); err != nil {
		return "", s.unavailable(log, "send", err)
	}

	s.sender.SendAuthCode(email, code)
	s.metrics.OTPEvent("send", metrics.OutcomeSuccess)
	log.Info("verification code issued")
	return code, nil
}

// Verify consumes the code for email. Expired and absent entries both yield
// ErrNotFound; a wrong code keeps the entry for another try.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	log := s.log.WithFields(logrus.Fields{"email": email, "action": "otp_verify"})

	entry, err := s.store.Get(ctx, email)
	if err != nil {
		return s.unavailable(log, "verify", err)
	}
	if entry == nil {
		s.metrics.OTPEvent("verify", metrics.OutcomeFailure)
		return ErrNotFound
	}

	if s.now().Sub(entry.CreatedAt) > CodeValidity {
		if _, err := s.store.DeleteIfCode(ctx, email, entry.Code); err != nil {
			return s.unavailable(log, "verify", err)
		}
		s.metrics.OTPEvent("verify", metrics.OutcomeFailure)
		log.Info("verification code expired")
		return ErrNotFound
	}

	if entry.Code != code {
		s.metrics.OTPEvent("verify", metrics.OutcomeFailure)
		log.Info("verification code mismatch")
		return ErrWrongCode
	}

	removed, err := s.store.DeleteIfCode(ctx, email, code)
	if err != nil {
		return s.unavailable(log, "verify", err)
	}
	if !removed {
		s.metrics.OTPEvent("verify", metrics.OutcomeFailure)
		return ErrNotFound
	}

	s.metrics.OTPEvent("verify", metrics.OutcomeSuccess)
	log.Info("email verified")
	return nil
}

func (s *Service) unavailable(log logrus.FieldLogger, action string, err error) error {
	s.metrics.OTPEvent(action, metrics.OutcomeFailure)
	log.WithError(err).Error("verification code store failed")
	return ErrCacheUnavailable
}
