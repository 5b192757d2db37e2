package observability

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/danmuck/fieldctl/internal/registry"
)

var (
	registerOnce sync.Once

	lookupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldctl",
			Subsystem: "registry",
			Name:      "lookup_failures_total",
			Help:      "Field lookups rejected by the registry.",
		},
		[]string{"namespace", "kind", "reason"},
	)

	fieldsDesc = prometheus.NewDesc(
		"fieldctl_registry_fields",
		"Number of fields in each code space.",
		[]string{"namespace", "kind"},
		nil,
	)
	infoDesc = prometheus.NewDesc(
		"fieldctl_registry_info",
		"Schema revision of the field registry.",
		[]string{"api_version"},
		nil,
	)
)

// RegistryCollector exposes code-space sizes and the API version of a
// registry.
type RegistryCollector struct {
	reg *registry.Registry
}

func NewRegistryCollector(reg *registry.Registry) *RegistryCollector {
	return &RegistryCollector{reg: reg}
}

func (c *RegistryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- fieldsDesc
	ch <- infoDesc
}

func (c *RegistryCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.reg.Spaces() {
		ch <- prometheus.MustNewConstMetric(
			fieldsDesc,
			prometheus.GaugeValue,
			float64(c.reg.Len(s.Namespace, s.Kind)),
			s.Namespace.String(),
			s.Kind.String(),
		)
	}
	ch <- prometheus.MustNewConstMetric(infoDesc, prometheus.GaugeValue, 1, registry.APIVersion)
}

// RegisterMetrics registers the default registry's collector and the lookup
// failure counter with the process-wide prometheus registerer. Long-running
// hosts that embed the registry call it, or let RecordLookupFailure do so,
// and serve prometheus.DefaultGatherer.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(NewRegistryCollector(registry.Default()), lookupFailures)
	})
}

// RecordLookupFailure counts err if it is a registry lookup error.
func RecordLookupFailure(err error) {
	RegisterMetrics()
	var unknown *registry.UnknownFieldError
	var invalid *registry.InvalidCodeError
	switch {
	case errors.As(err, &unknown):
		lookupFailures.WithLabelValues(unknown.Namespace.String(), unknown.Kind.String(), "unknown_field").Inc()
	case errors.As(err, &invalid):
		lookupFailures.WithLabelValues(invalid.Namespace.String(), invalid.Kind.String(), "invalid_code").Inc()
	}
}

// WriteText writes reg's metrics and the lookup counters in the text
// exposition format.
func WriteText(w io.Writer, reg *registry.Registry) error {
	promReg := prometheus.NewRegistry()
	if err := promReg.Register(NewRegistryCollector(reg)); err != nil {
		return fmt.Errorf("metrics register: %w", err)
	}
	if err := promReg.Register(lookupFailures); err != nil {
		return fmt.Errorf("metrics register: %w", err)
	}
	families, err := promReg.Gather()
	if err != nil {
		return fmt.Errorf("metrics gather: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics encode: %w", err)
		}
	}
	return nil
}
