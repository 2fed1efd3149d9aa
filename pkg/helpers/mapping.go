package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-blood-donation/pkg/mailer"
)

// EnsureRecipientAndEmail makes sure templates can always print the recipient address.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}

// ValidateEmailJob rejects jobs the worker can never deliver.
func ValidateEmailJob(job mailer.EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("email job: missing recipient")
	}
	if job.Template == "" && (job.Subject == "" || (job.Text == "" && job.HTML == "")) {
		return fmt.Errorf("email job: either template or subject with text/html is required")
	}
	return nil
}
