package production

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

func newNotificationsVec() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "observer",
			Name:      "notifications_total",
			Help:      "Total number of notifications delivered to an observer",
		},
		[]string{"observer"},
	)
}

// MetricsObserver counts the notifications it receives in the
// observer_notifications_total counter, labelled with its name. It is safe
// to share across subjects and goroutines.
type MetricsObserver[E any] struct {
	name  string
	total prometheus.Counter
}

// NewMetricsObserver registers the counter vector on reg, reusing it if an
// earlier observer already did.
func NewMetricsObserver[E any](reg prometheus.Registerer, name string) (*MetricsObserver[E], error) {
	vec := newNotificationsVec()
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("register notifications counter: %w", err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("register notifications counter: unexpected collector %T", are.ExistingCollector)
		}
		vec = existing
	}
	return &MetricsObserver[E]{name: name, total: vec.WithLabelValues(name)}, nil
}

func (o *MetricsObserver[E]) OnNotify(E) { o.total.Inc() }

func (o *MetricsObserver[E]) Name() string { return o.name }
