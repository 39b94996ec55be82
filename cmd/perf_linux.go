//go:build linux

package cmd

import (
	"fmt"
	"io"

	perf "github.com/hodgesds/perf-utils"
	"go.uber.org/zap"

	"github.com/notargets/fvcfd/model_problems/Euler2D"
)

// countInstructions runs solve under a hardware instruction counter. When the counter can not be
// opened, usually because of perf_event_paranoid, solve still runs uncounted.
func countInstructions(solve func() error, out io.Writer) (err error) {
	var (
		called bool
	)
	pv, perr := perf.CPUInstructions(func() error {
		called = true
		err = solve()
		return err
	})
	switch {
	case !called:
		Euler2D.Logger().Warn("instruction counter unavailable", zap.Error(perr))
		return solve()
	case err != nil:
		return
	case perr != nil:
		Euler2D.Logger().Warn("instruction counter failed", zap.Error(perr))
	default:
		fmt.Fprintf(out, "CPU instructions = %d\n", pv.Value)
	}
	return
}
