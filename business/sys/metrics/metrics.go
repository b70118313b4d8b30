// Package metrics constructs the metrics the application will track.
package metrics

import (
	"context"
	"expvar"
	"runtime"
)

// This holds the single instance of the metrics value needed for
// collecting metrics. The expvar package is already based on a singleton
// for the different metrics that are registered with the package so there
// isn't much choice here.
var m *metrics

// =============================================================================

// metrics represents the set of metrics we gather. These fields are
// safe to be accessed concurrently thanks to expvar. No extra abstraction is
// required.
type metrics struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
	panics     *expvar.Int
	blocks     *expvar.Int
}

// init constructs the metrics value that will be used to capture metrics.
// The metrics value is stored in a package level variable since everything
// inside of expvar is registered as a singleton. The use of once will make
// sure this initialization only happens once.
func init() {
	m = &metrics{
		goroutines: expvar.NewInt("goroutines"),
		requests:   expvar.NewInt("requests"),
		errors:     expvar.NewInt("errors"),
		panics:     expvar.NewInt("panics"),
		blocks:     expvar.NewInt("blocks_mined"),
	}
}

// =============================================================================

// AddGoroutines refreshes the goroutine metric every 100 requests.
func AddGoroutines(ctx context.Context) {
	if m.requests.Value()%100 == 0 {
		m.goroutines.Set(int64(runtime.NumGoroutine()))
	}
}

// AddRequests increments the request metric by 1.
func AddRequests(ctx context.Context) {
	m.requests.Add(1)
}

// AddErrors increments the errors metric by 1.
func AddErrors(ctx context.Context) {
	m.errors.Add(1)
}

// AddPanics increments the panics metric by 1.
func AddPanics(ctx context.Context) {
	m.panics.Add(1)
}

// AddBlocks increments the mined blocks metric by 1.
func AddBlocks(ctx context.Context) {
	m.blocks.Add(1)
}
