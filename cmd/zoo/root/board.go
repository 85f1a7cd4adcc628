package root

import (
	"github.com/spf13/cobra"

	"zootopia/internal/tui"
)

func newBoardCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			return tui.RunBoard(ctx, s.svc, cmd.OutOrStdout())
		},
	}
	return cmd
}
