package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Auth-flow Prometheus metrics. Defined in a standalone package to avoid
// import cycles between the flow core and HTTP packages.

var (
	AuthBegins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_auth_begin_total",
		Help: "Authentication attempts by resolver outcome",
	}, []string{"outcome"})

	Callbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_auth_callback_total",
		Help: "OAuth callbacks by result",
	}, []string{"result"})

	ProvisioningFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_auth_provisioning_failures_total",
		Help: "Provisioning side effects that failed after login",
	}, []string{"kind"})

	InstallQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shop_auth_install_queue_depth",
		Help: "Tasks waiting in the install queue",
	})
)

// Register registers the auth metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{AuthBegins, Callbacks, ProvisioningFailures, InstallQueueDepth} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
