package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"zootopia/internal/engine"
	"zootopia/internal/ui"
)

func newRmCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task (kept for history)",
		Args:  exactArgs(1, "id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.svc.DeleteTask(ctx, args[0])
			if err != nil {
				return err
			}
			if res.Status == engine.StatusAlreadyDeleted {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(ui.IconInfo+" already deleted"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconTrash, res.Task.Title)
			return nil
		},
	}
	return cmd
}
