package server

import (
	"fmt"
	gometrics "github.com/rcrowley/go-metrics"
	"sort"
	"strings"
)

// sessionStats are the counters of a single session.
// They live in a private registry so no two sessions share state.
type sessionStats struct {
	registry gometrics.Registry

	requests         gometrics.Counter
	badRequests      gometrics.Counter
	sendFailures     gometrics.Counter
	results          gometrics.Counter
	deliveryFailures gometrics.Counter
	readSizes        gometrics.Histogram
}

func newSessionStats() *sessionStats {
	st := &sessionStats{
		registry:         gometrics.NewRegistry(),
		requests:         gometrics.NewCounter(),
		badRequests:      gometrics.NewCounter(),
		sendFailures:     gometrics.NewCounter(),
		results:          gometrics.NewCounter(),
		deliveryFailures: gometrics.NewCounter(),
		readSizes:        gometrics.NewHistogram(gometrics.NewUniformSample(1028)),
	}

	// Names are unique, Register can not fail here
	_ = st.registry.Register("requests", st.requests)
	_ = st.registry.Register("bad_requests", st.badRequests)
	_ = st.registry.Register("send_failures", st.sendFailures)
	_ = st.registry.Register("results", st.results)
	_ = st.registry.Register("delivery_failures", st.deliveryFailures)
	_ = st.registry.Register("pricer_reads", st.readSizes)

	return st
}

// Summary renders all values in a stable order, e.g.
// "bad_requests=0 delivery_failures=0 pricer_reads=2(avg 24B) requests=2 results=2 send_failures=0"
func (st *sessionStats) Summary() string {
	var parts []string
	st.registry.Each(func(name string, m interface{}) {
		switch metric := m.(type) {
		case gometrics.Counter:
			parts = append(parts, fmt.Sprintf("%s=%d", name, metric.Count()))
		case gometrics.Histogram:
			parts = append(parts, fmt.Sprintf("%s=%d(avg %.0fB)", name, metric.Count(), metric.Mean()))
		}
	})
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
