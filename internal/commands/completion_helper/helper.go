package completion_helper

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints the flags of the current command for shell completion.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	w := cmd.Root().Writer
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(w, "-"+name)
			} else {
				_, _ = fmt.Fprintln(w, "--"+name)
			}
		}
	}
}

// BranchComplete prints the remote branches returned by list, falling back to flags on error.
func BranchComplete(list func(ctx context.Context) ([]string, error)) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		branches, err := list(ctx)
		if err != nil {
			DefaultFlagComplete(ctx, cmd)
			return
		}
		for _, b := range branches {
			_, _ = fmt.Fprintln(cmd.Root().Writer, b)
		}
	}
}
