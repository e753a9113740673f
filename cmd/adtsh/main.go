// Command adtsh is an interactive shell for trying Option and Result
// combinators against a set of built-in callables.
//
//	adt > option 5 | map inc | unwrap_or 0
//	6
//	adt > result null | map_ok inc | is_err
//	true
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/partite-ai/wasmadt/internal/cli"
	"github.com/pterm/pterm"
)

func main() {
	cli.InitDisplay()

	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	if err := cli.SetupTracing(*tlevel); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	repl, err := readline.New("adt > ")
	if err != nil {
		cli.Tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()

	pterm.Info.Println("Callables: " + strings.Join(callableNames(), ", "))
	pterm.Info.Println("Quit with <ctrl>D")
	ctx := context.Background()
	for {
		line, err := repl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return
		} else if err != nil {
			cli.Tracer().Errorf(err.Error())
			os.Exit(4)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := evaluate(ctx, line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		pterm.Println(render(v))
	}
}

func callableNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
