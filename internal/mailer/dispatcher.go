package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/Kyz7/wip/internal/metrics"
	"github.com/sirupsen/logrus"
)

const sendTimeout = 30 * time.Second

// Dispatcher sends mail in the background so request latency never includes
// the mail server. Failures are logged and counted, not returned.
type Dispatcher struct {
	sender  Sender
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, log logrus.FieldLogger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{sender: sender, log: log, metrics: m}
}

func (d *Dispatcher) SendAuthCode(email, code string) {
	subject, body := authCodeMessage(code)
	d.dispatch("auth_code", email, subject, body)
}

func (d *Dispatcher) SendLoginAlarm(email, nickname string, at time.Time) {
	subject, body := loginAlarmMessage(nickname, at)
	d.dispatch("login_alarm", email, subject, body)
}

func (d *Dispatcher) dispatch(kind, to, subject, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		log := d.log.WithFields(logrus.Fields{
			"mail":     kind,
			"to":       maskEmail(to),
			"provider": d.sender.Name(),
		})

		if err := d.sender.Send(ctx, to, subject, body); err != nil {
			d.metrics.MailDelivery(d.sender.Name(), metrics.OutcomeFailure)
			log.WithError(err).Error("failed to send mail")
			return
		}
		d.metrics.MailDelivery(d.sender.Name(), metrics.OutcomeSuccess)
		log.Debug("mail sent")
	}()
}

// Wait blocks until every dispatched message has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
