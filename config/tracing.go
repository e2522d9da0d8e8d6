package config

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// SetupTracing binds all tracers of Geography to the adapter selected by
// configuration key "tracing.adapter". Trace levels are read from keys
// "tracelevel.<tracer name>".
//
// It returns a teardown function which detaches the tracers again.
func SetupTracing(c *Config) (func(), error) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(c, "tracelevel", trace2go.ReplaceTracers(true)); err != nil {
		return nil, err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return trace2go.Teardown, nil
}
