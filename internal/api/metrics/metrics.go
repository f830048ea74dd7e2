// Package metrics defines and registers all custom Prometheus metrics for the
// account service. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at package init
// via promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts.",
	},
	[]string{"result"},
)

// OTPIssuedTotal counts OTP challenges written to the ledger.
// Label:
//   - kind: "registration" or "reset"
var OTPIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of OTP challenges issued.",
	},
	[]string{"kind"},
)

// OTPConsumedTotal counts OTP consumption attempts.
// Labels:
//   - kind: "registration" or "reset"
//   - result: "success" or "failure"
var OTPConsumedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_consumed_total",
		Help:      "Total number of OTP consumption attempts.",
	},
	[]string{"kind", "result"},
)

// MailDeliveriesTotal counts best-effort outbound OTP mail deliveries.
// Label:
//   - result: "success" or "failure"
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of outbound OTP mail delivery attempts.",
	},
	[]string{"result"},
)

// AccountsDeletedTotal counts account deletions.
// Label:
//   - initiator: "self" or "admin"
var AccountsDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of deleted accounts.",
	},
	[]string{"initiator"},
)
