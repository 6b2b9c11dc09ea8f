// Package metrics defines and registers all custom Prometheus metrics for the
// Fetch API. It is the single source of truth for metric names, labels, and
// help strings; metrics register themselves with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fetch"

// SignupsTotal counts completed registrations.
// Label:
//   - role: the role assigned to the new profile (after allow-list elevation)
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of completed signups, by assigned role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// MessagesSentTotal counts direct messages accepted into a conversation log.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of direct messages sent.",
	},
)

// AdminActionsTotal counts moderation operations.
// Label:
//   - action: "delete_user", "change_role", or "toggle_block"
var AdminActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_actions_total",
		Help:      "Total number of administrative moderation actions.",
	},
	[]string{"action"},
)

// VerificationEmailsTotal counts verification email deliveries by outcome.
// Label:
//   - result: "sent" or "error"
var VerificationEmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_emails_total",
		Help:      "Total number of verification email deliveries, by result.",
	},
	[]string{"result"},
)
