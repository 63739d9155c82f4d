// Package notifications sends operator-facing email notifications about
// campaign outcomes — a summary on campaign_completed, an alert on
// campaign failure — via Mailgun and raymond templating, wrapped behind
// a narrow Notifier-shaped API.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aymerick/raymond"
	"github.com/mailgun/mailgun-go/v4"

	"github.com/outboundhq/dialer/internal/config"
	"github.com/outboundhq/dialer/pkg/logger"
)

// sendTimeout bounds a single Mailgun API call so a slow or unreachable
// Mailgun never holds up the Reconciler goroutine that triggers it.
const sendTimeout = 15 * time.Second

var (
	completedSubjectTemplate = mustParse(`Campaign "{{name}}" completed`)
	completedBodyTemplate    = mustParse("Campaign {{name}} ({{campaignId}}) finished.\n\n" +
		"Total calls:      {{total}}\nSuccessful calls: {{successful}}\nFailed calls:     {{failed}}\n")
	failedSubjectTemplate = mustParse(`Campaign "{{name}}" failed to start`)
	failedBodyTemplate    = mustParse("Campaign {{name}} ({{campaignId}}) could not start.\n\nReason: {{reason}}\n")
)

// mustParse compiles a fixed, package-controlled handlebars template at
// init time; a parse failure here is a programming error, not a runtime
// condition, so it panics rather than threading an error through New.
func mustParse(source string) *raymond.Template {
	tmpl, err := raymond.Parse(source)
	if err != nil {
		panic(fmt.Sprintf("notifications: invalid template: %v", err))
	}
	return tmpl
}

// Notifier sends campaign-outcome emails via Mailgun. The zero-configured
// case (no MAILGUN_DOMAIN/MAILGUN_API_KEY) is a deliberate no-op: every
// method degrades to a silent skip rather than an error, since a
// notification failure must never affect campaign control flow.
type Notifier struct {
	cfg    *config.Config
	client mailgun.Mailgun
	log    *slog.Logger
}

// New builds a Notifier. The Mailgun client is constructed only when
// Mailgun credentials are present.
func New(cfg *config.Config, log *slog.Logger) *Notifier {
	n := &Notifier{cfg: cfg, log: log.With(logger.Scope("notifications"))}
	if cfg.Mailgun.Configured() {
		n.client = mailgun.NewMailgun(cfg.Mailgun.Domain, cfg.Mailgun.APIKey)
	}
	return n
}

// Configured reports whether Mailgun credentials are present.
func (n *Notifier) Configured() bool {
	return n.client != nil
}

// resolveRecipient prefers the tenant's own notification address
// (tenants.Tenant.NotificationEmail) and falls back to the deployment-wide
// operator mailbox (MAILGUN_NOTIFY_EMAIL) when the tenant has not set one.
func (n *Notifier) resolveRecipient(tenantEmail string) string {
	if tenantEmail != "" {
		return tenantEmail
	}
	return n.cfg.Mailgun.NotifyEmail
}

// CampaignCompleted sends the campaign-completion summary email.
// tenantEmail is the owning tenant's notification address, if any; pass ""
// to fall back to the configured operator mailbox.
func (n *Notifier) CampaignCompleted(ctx context.Context, tenantEmail, campaignID, name string, total, successful, failed int) {
	recipient := n.resolveRecipient(tenantEmail)
	if !n.Configured() || recipient == "" {
		return
	}
	subject, err := completedSubjectTemplate.Exec(map[string]any{"name": name})
	if err != nil {
		n.log.Error("render completed subject failed", logger.Error(err))
		return
	}
	body, err := completedBodyTemplate.Exec(map[string]any{
		"name": name, "campaignId": campaignID,
		"total": total, "successful": successful, "failed": failed,
	})
	if err != nil {
		n.log.Error("render completed body failed", logger.Error(err))
		return
	}
	n.send(ctx, recipient, subject, body)
}

// CampaignFailed sends the campaign-failed alert email, fired only when
// the campaign's construction invariants break.
// tenantEmail is the owning tenant's notification address, if any; pass ""
// to fall back to the configured operator mailbox.
func (n *Notifier) CampaignFailed(ctx context.Context, tenantEmail, campaignID, name, reason string) {
	recipient := n.resolveRecipient(tenantEmail)
	if !n.Configured() || recipient == "" {
		return
	}
	subject, err := failedSubjectTemplate.Exec(map[string]any{"name": name})
	if err != nil {
		n.log.Error("render failed subject failed", logger.Error(err))
		return
	}
	body, err := failedBodyTemplate.Exec(map[string]any{
		"name": name, "campaignId": campaignID, "reason": reason,
	})
	if err != nil {
		n.log.Error("render failed body failed", logger.Error(err))
		return
	}
	n.send(ctx, recipient, subject, body)
}

func (n *Notifier) send(ctx context.Context, recipient, subject, body string) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	from := fmt.Sprintf("%s <%s>", n.cfg.Mailgun.FromName, n.cfg.Mailgun.FromEmail)
	message := n.client.NewMessage(from, subject, body, recipient)

	if _, _, err := n.client.Send(sendCtx, message); err != nil {
		n.log.Error("send notification email failed",
			logger.Error(err), slog.String("recipient", recipient))
		return
	}
	n.log.Info("notification email sent", slog.String("recipient", recipient), slog.String("subject", subject))
}
