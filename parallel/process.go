// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"

	"github.com/katalvlaran/shmmul/logging"
	"github.com/katalvlaran/shmmul/partition"
	"github.com/katalvlaran/shmmul/shm"
	"go.uber.org/zap"
)

// spawnAndJoin starts one worker process per range and waits for all of them.
// The segment descriptors are passed as fds 3, 4, 5 (A, B, C). If a start
// fails, workers already running are killed and reaped before returning ErrSpawn.
func (o *Orchestrator) spawnAndJoin(ctx context.Context, segs [3]*shm.Segment, plan partition.Plan) ([]WorkerStatus, error) {
	exe := o.opts.executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return nil, fmt.Errorf("resolve executable: %w: %w", ErrSpawn, err)
		}
	}
	files := []*os.File{segs[0].File(), segs[1].File(), segs[2].File()}

	env := append(os.Environ(), envRole+"="+roleWorker)
	if lvl := logging.LevelOf(o.log); lvl != "" {
		env = append(env, envLogLevel+"="+lvl)
	}
	env = slices.Clip(env)

	cmds := make([]*exec.Cmd, 0, len(plan))
	for i, r := range plan {
		cmd := exec.CommandContext(ctx, exe)
		cmd.Env = append(env,
			envID+"="+strconv.Itoa(i),
			envStart+"="+strconv.Itoa(r.Start),
			envEnd+"="+strconv.Itoa(r.End))
		cmd.ExtraFiles = files
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			o.log.Error("worker spawn failed, reaping started workers",
				zap.Int("worker", i),
				zap.Int("started", len(cmds)),
				zap.Error(err))
			reap(cmds)
			return nil, fmt.Errorf("worker %d %s: %w: %w", i, r, ErrSpawn, err)
		}
		o.log.Debug("worker started",
			zap.Int("worker", i),
			zap.Stringer("range", r),
			zap.Int("pid", cmd.Process.Pid))
		cmds = append(cmds, cmd)
	}

	statuses := make([]WorkerStatus, len(cmds))
	for i, cmd := range cmds {
		err := cmd.Wait()
		statuses[i] = WorkerStatus{
			ID:       i,
			Range:    plan[i],
			Pid:      cmd.Process.Pid,
			ExitCode: cmd.ProcessState.ExitCode(),
			Err:      err,
		}
	}

	return statuses, nil
}

// reap kills and waits for every started worker so none is left behind.
func reap(cmds []*exec.Cmd) {
	for _, cmd := range cmds {
		_ = cmd.Process.Kill()
	}
	for _, cmd := range cmds {
		_ = cmd.Wait()
	}
}
