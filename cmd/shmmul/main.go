// SPDX-License-Identifier: MIT

// Command shmmul multiplies two matrices read from text files, either in
// process or split across worker processes sharing memory segments.
//
//	shmmul A.txt B.txt -n 4 -o C.txt
//	shmmul A.txt B.txt -n 4 --compare
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/shmmul/parallel"
)

func main() {
	// Worker processes are re-executions of this binary.
	if parallel.IsWorker() {
		os.Exit(parallel.RunWorker())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the root command and maps any error to exit status 1.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}

	return 0
}
