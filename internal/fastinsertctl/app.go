package fastinsertctl

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/utils/clock"

	"github.com/armadaproject/fastinsert/internal/fastinsert"
	"github.com/armadaproject/fastinsert/internal/fastinsert/configuration"
)

type App struct {
	// Parameters passed to the CLI by the user.
	Params *Params
	// Out is used to write the output. Defaults to standard out,
	// but can be overridden in tests to make assertions on the applications's output.
	Out io.Writer
	// Source of the time recorded in timestamp columns.
	Clock clock.Clock
	// If set, inserter metrics are registered here.
	Registry *prometheus.Registry

	metrics *fastinsert.Metrics
}

// Params struct holds all user-customizable parameters.
type Params struct {
	Config configuration.FastInsertConfiguration
	// Dialect render uses; defaults to the dialect of the configured driver
	Dialect string
}

// New instantiates an App with default parameters, writing to standard output and using the real clock.
func New() *App {
	return &App{
		Params: &Params{},
		Out:    os.Stdout,
		Clock:  clock.RealClock{},
	}
}
