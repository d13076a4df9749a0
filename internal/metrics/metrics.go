// Package metrics collects Prometheus counters for the session core. The
// embedding application decides where (or whether) to expose them by
// supplying its own prometheus.Registerer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is the metrics interface consumed by the service layers. Nop is
// used when the embedding application does not wire metrics.
type Recorder interface {
	RecordRegistration()
	RecordLogin(result string)
	RecordLogout()
	RecordAccountDeletion()
	RecordLedgerAppend()
	RecordLedgerEviction(count int)
	RecordFanoutDelivery(kind string)
	RecordSystemNotification()
}

// Login result labels.
const (
	LoginOK     = "ok"
	LoginFailed = "failed"
)

// Fanout delivery kind labels.
const (
	KindProfile  = "profile"
	KindActivity = "activity"
	KindBadge    = "badge"
)

// Nop discards every recording.
type Nop struct{}

func (Nop) RecordRegistration()         {}
func (Nop) RecordLogin(string)          {}
func (Nop) RecordLogout()               {}
func (Nop) RecordAccountDeletion()      {}
func (Nop) RecordLedgerAppend()         {}
func (Nop) RecordLedgerEviction(int)    {}
func (Nop) RecordFanoutDelivery(string) {}
func (Nop) RecordSystemNotification()   {}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	registrations       prometheus.Counter
	logins              *prometheus.CounterVec
	logouts             prometheus.Counter
	accountDeletions    prometheus.Counter
	ledgerAppends       prometheus.Counter
	ledgerEvictions     prometheus.Counter
	fanoutDeliveries    *prometheus.CounterVec
	systemNotifications prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessioncore_registrations_total",
			Help: "Total number of successful account registrations.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessioncore_logins_total",
			Help: "Total number of login attempts by result.",
		}, []string{"result"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessioncore_logouts_total",
			Help: "Total number of logouts.",
		}),
		accountDeletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessioncore_account_deletions_total",
			Help: "Total number of completed account deletion cascades.",
		}),
		ledgerAppends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessioncore_ledger_appends_total",
			Help: "Total number of activity entries appended to the ledger.",
		}),
		ledgerEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessioncore_ledger_evictions_total",
			Help: "Total number of activity entries evicted by age or count.",
		}),
		fanoutDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessioncore_fanout_deliveries_total",
			Help: "Total number of listener callbacks delivered by kind.",
		}, []string{"kind"}),
		systemNotifications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessioncore_system_notifications_total",
			Help: "Total number of activity entries dispatched to the system notifier.",
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.logins,
		c.logouts,
		c.accountDeletions,
		c.ledgerAppends,
		c.ledgerEvictions,
		c.fanoutDeliveries,
		c.systemNotifications,
	)

	return c
}

func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordLogout() {
	c.logouts.Inc()
}

func (c *Collector) RecordAccountDeletion() {
	c.accountDeletions.Inc()
}

func (c *Collector) RecordLedgerAppend() {
	c.ledgerAppends.Inc()
}

func (c *Collector) RecordLedgerEviction(count int) {
	c.ledgerEvictions.Add(float64(count))
}

func (c *Collector) RecordFanoutDelivery(kind string) {
	c.fanoutDeliveries.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordSystemNotification() {
	c.systemNotifications.Inc()
}
