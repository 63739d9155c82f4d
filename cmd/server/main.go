// Package main provides the entry point for the Outbound Dialer server: an
// outbound/inbound voice-calling campaign orchestrator built on LiveKit SIP.
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/outboundhq/dialer/domain/agents"
	"github.com/outboundhq/dialer/domain/calllogs"
	"github.com/outboundhq/dialer/domain/campaigns"
	"github.com/outboundhq/dialer/domain/campaigns/supervisor"
	"github.com/outboundhq/dialer/domain/health"
	"github.com/outboundhq/dialer/domain/inbound"
	"github.com/outboundhq/dialer/domain/leads"
	"github.com/outboundhq/dialer/domain/notifications"
	"github.com/outboundhq/dialer/domain/phonenumbers"
	"github.com/outboundhq/dialer/domain/scheduler"
	"github.com/outboundhq/dialer/domain/tenants"
	"github.com/outboundhq/dialer/internal/config"
	"github.com/outboundhq/dialer/internal/database"
	"github.com/outboundhq/dialer/internal/migrate"
	"github.com/outboundhq/dialer/internal/server"
	"github.com/outboundhq/dialer/pkg/auth"
	"github.com/outboundhq/dialer/pkg/logger"
	"github.com/outboundhq/dialer/pkg/metrics"
	"github.com/outboundhq/dialer/pkg/ratelimit"
	"github.com/outboundhq/dialer/pkg/telephony"
)

func main() {
	// Load .env files if present (for local development)
	// Order matters: .env.local overrides .env
	// Note: Load() won't overwrite existing vars, Overload() will
	_ = godotenv.Load("../../.env")
	_ = godotenv.Overload("../../.env.local") // Overload ensures local values take precedence

	fx.New(
		// Logging
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure modules
		logger.Module,
		config.Module,
		database.Module,
		migrate.Module,
		server.Module,

		// Auth module
		auth.Module,

		// Cross-cutting API modules
		ratelimit.Module,
		metrics.Module,

		// Telephony fabric adapter (LiveKit)
		telephony.Module,

		// Campaign-outcome email notifications
		notifications.Module,

		// Tenant lookup (tenant provisioning itself is out of scope)
		tenants.Module,

		// Core domain modules
		agents.Module,
		leads.Module,
		phonenumbers.Module,
		calllogs.Module,
		campaigns.Module,
		supervisor.Module,
		inbound.Module,

		// Scheduled sweeps (orphaned lead recovery, stale call-log cleanup)
		scheduler.Module,

		// Health and readiness endpoints
		health.Module,
	).Run()
}
