package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts airport operations. Each instance registers on its own
// registerer so tests can build as many as they like.
type Metrics struct {
	TicketsBooked    prometheus.Counter
	TicketsCancelled prometheus.Counter
	CheckIns         prometheus.Counter
	Boardings        prometheus.Counter
	Clearances       *prometheus.CounterVec
	Logins           *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TicketsBooked: factory.NewCounter(prometheus.CounterOpts{
			Name: "airport_tickets_booked_total",
			Help: "Total number of tickets booked",
		}),
		TicketsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "airport_tickets_cancelled_total",
			Help: "Total number of tickets cancelled",
		}),
		CheckIns: factory.NewCounter(prometheus.CounterOpts{
			Name: "airport_check_ins_total",
			Help: "Total number of ticket check-ins",
		}),
		Boardings: factory.NewCounter(prometheus.CounterOpts{
			Name: "airport_boardings_total",
			Help: "Total number of passengers boarded",
		}),
		Clearances: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "airport_clearance_checks_total",
			Help: "Border and customs verdicts by kind and result",
		}, []string{"kind", "result"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "airport_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementBooked()    { m.TicketsBooked.Inc() }
func (m *Metrics) IncrementCancelled() { m.TicketsCancelled.Inc() }
func (m *Metrics) IncrementCheckIns(n int) {
	m.CheckIns.Add(float64(n))
}
func (m *Metrics) IncrementBoarded() { m.Boardings.Inc() }

func (m *Metrics) ObserveClearance(kind string, passed bool) {
	m.Clearances.WithLabelValues(kind, result(passed)).Inc()
}

func (m *Metrics) ObserveLogin(success bool) {
	m.Logins.WithLabelValues(result(success)).Inc()
}

func result(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

// Handler exposes gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
