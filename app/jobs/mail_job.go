// Package jobs holds the background job types processed by the queue
// workers.
package jobs

import (
	"github.com/adeqintegrated/adeqsite/pkg/mail"
	"github.com/adeqintegrated/adeqsite/pkg/metrics"
	"github.com/adeqintegrated/adeqsite/pkg/queue"
)

// Mail kinds, used as the metrics label for sends.
const (
	MailKindVerification = "verification"
	MailKindReset        = "reset"
	MailKindReceipt      = "receipt"
	MailKindOwnerAlert   = "owner_alert"
)

// MailJob delivers one rendered email over SMTP.
type MailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Kind    string `json:"kind"`
}

func (MailJob) Name() string { return "mail.send" }

func (j MailJob) Handle() error {
	err := mail.To(j.To).Subject(j.Subject).Body(j.Body).Send()
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.MailSends.WithLabelValues(j.Kind, result).Inc()
	return err
}

// Register wires all job types into the queue registry. Call once at boot.
func Register() {
	queue.Register("mail.send", func() queue.Job { return &MailJob{} })
}
