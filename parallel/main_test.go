// SPDX-License-Identifier: MIT

package parallel_test

import (
	"os"
	"testing"

	"github.com/katalvlaran/shmmul/parallel"
	"go.uber.org/goleak"
)

// TestMain doubles as the worker entry point: Multiply re-executes this test
// binary for every worker process.
func TestMain(m *testing.M) {
	if parallel.IsWorker() {
		os.Exit(parallel.RunWorker())
	}
	goleak.VerifyTestMain(m)
}
