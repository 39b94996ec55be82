//go:build !linux

package cmd

import (
	"io"

	"github.com/notargets/fvcfd/model_problems/Euler2D"
)

func countInstructions(solve func() error, out io.Writer) (err error) {
	Euler2D.Logger().Warn("instruction counting needs linux perf events")
	return solve()
}
