package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-library-rental/pkg/mailer"
	mailtpl "github.com/oksasatya/go-library-rental/pkg/mailer/templates"
)

// templateAliases maps queue message types to template names so jobs
// published with only an event type still render.
var templateAliases = map[string]string{
	"reservation.created":  mailtpl.ReservationCreated,
	"reservation.returned": mailtpl.ReservationReturned,
	"reservation.overdue":  mailtpl.ReservationOverdue,
}

// NormalizeJob fills the template from msgType when missing, resolves
// aliases and makes sure Data carries the recipient and type.
func NormalizeJob(job *mailer.EmailJob, msgType string) {
	tpl := strings.ToLower(strings.TrimSpace(job.Template))
	if tpl == "" && !job.Rendered() {
		tpl = strings.ToLower(strings.TrimSpace(msgType))
	}
	if alias, ok := templateAliases[tpl]; ok {
		tpl = alias
	}
	job.Template = tpl
	job.To = strings.TrimSpace(job.To)

	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if tpl != "" {
		if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
			job.Data["Type"] = tpl
		}
	}
}

// FallbackSubject is used when a pre-rendered job has no subject.
func FallbackSubject(template string) string {
	switch template {
	case mailtpl.ReservationCreated:
		return "Your reservation is confirmed"
	case mailtpl.ReservationReturned:
		return "Thanks for returning your book"
	case mailtpl.ReservationOverdue:
		return "Your book is overdue"
	default:
		return "Library notification"
	}
}
