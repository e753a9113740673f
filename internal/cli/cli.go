// Package cli holds the tracing and display setup shared by the commands.
package cli

import (
	"fmt"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// Tracer keys used throughout the module.
var Keys = []string{"wasmadt.cli", "wasmadt.adt", "wasmadt.wasmhost"}

// Tracer traces with key 'wasmadt.cli'.
func Tracer() tracing.Trace {
	return tracing.Select("wasmadt.cli")
}

// ParseLevel maps a command-line trace level to a tracing level.
func ParseLevel(level string) (tracing.TraceLevel, error) {
	switch level {
	case "Debug":
		return tracing.LevelDebug, nil
	case "Info":
		return tracing.LevelInfo, nil
	case "Error":
		return tracing.LevelError, nil
	}
	return tracing.LevelError, fmt.Errorf("invalid trace level: %s", level)
}

// SetupTracing routes every module tracer to Go's log package at level.
func SetupTracing(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range Keys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	for _, key := range Keys {
		tracing.Select(key).SetTraceLevel(lvl)
	}
	return nil
}

// InitDisplay sets up pterm prefixes for moderately fancy output.
func InitDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
