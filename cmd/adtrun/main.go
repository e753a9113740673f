// Command adtrun runs a WebAssembly guest that imports the "adt" host module.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/partite-ai/wasmadt/internal/cli"
	"github.com/partite-ai/wasmadt/wasmhost"
	"github.com/pterm/pterm"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

func main() {
	cli.InitDisplay()

	wasmFileName := flag.String("wasm", "", "the guest module to run")
	invoke := flag.String("invoke", "_start", "the export to call")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	if *wasmFileName == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -wasm <guest.wasm> [-invoke name] [-trace level]\n", os.Args[0])
		os.Exit(1)
	}
	if err := cli.SetupTracing(*tlevel); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	code, err := run(context.Background(), *wasmFileName, *invoke, flag.Args())
	if err != nil {
		pterm.Error.Println(err.Error())
	}
	os.Exit(code)
}

func run(ctx context.Context, wasmFileName, invoke string, args []string) (int, error) {
	bin, err := os.ReadFile(wasmFileName)
	if err != nil {
		return 1, fmt.Errorf("failed to read guest: %w", err)
	}

	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)
	host := wasmhost.NewHost()
	host.MustInstantiate(ctx, runtime)

	cnf := wazero.NewModuleConfig().
		WithName("guest").
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithArgs(append([]string{wasmFileName}, args...)...).
		WithSysNanotime().
		WithSysWalltime().
		WithStartFunctions()
	mod, err := runtime.InstantiateWithConfig(ctx, bin, cnf)
	if err != nil {
		return 1, fmt.Errorf("failed to instantiate guest: %w", err)
	}
	defer host.Release(mod)

	fn := mod.ExportedFunction(invoke)
	if fn == nil {
		return 1, fmt.Errorf("guest has no export %q", invoke)
	}
	results, err := fn.Call(ctx)
	if err != nil {
		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.ExitCode()), nil
		}
		return 1, fmt.Errorf("%s: %w", invoke, err)
	}

	printResults(fn.Definition(), results)
	live := host.Live(mod)
	cli.Tracer().Debugf("live handles: %d values, %d options, %d results",
		live.Values, live.Options, live.Results)
	return 0, nil
}

func printResults(def api.FunctionDefinition, results []uint64) {
	for i, vt := range def.ResultTypes() {
		var s string
		switch vt {
		case api.ValueTypeI32:
			s = fmt.Sprintf("%d", api.DecodeI32(results[i]))
		case api.ValueTypeF32:
			s = fmt.Sprintf("%g", api.DecodeF32(results[i]))
		case api.ValueTypeF64:
			s = fmt.Sprintf("%g", api.DecodeF64(results[i]))
		default:
			s = fmt.Sprintf("%d", int64(results[i]))
		}
		pterm.Info.Printfln("result %d (%s): %s", i, api.ValueTypeName(vt), s)
	}
}
