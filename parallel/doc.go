// SPDX-License-Identifier: MIT

// Package parallel multiplies dense matrices with W independent workers that
// share nothing but three memory segments.
//
// Multiply copies A and B into shared segments, creates an output segment C,
// splits the rows of C with partition.New and starts one worker per range.
// Each worker runs the same i→j→k kernel as the sequential engine over its
// own rows only, so no locks are needed during the write phase and the
// result is bit-identical to Sequential for every worker count.
//
// Workers are re-executions of the running binary. Programs that call
// Multiply with the process backend must dispatch worker invocations first
// thing in main (and in TestMain for test binaries):
//
//	func main() {
//		if parallel.IsWorker() {
//			os.Exit(parallel.RunWorker())
//		}
//		...
//	}
//
// The goroutine backend runs the same plan on one in-process buffer and needs
// no dispatch.
package parallel
