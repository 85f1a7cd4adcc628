package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"zootopia/internal/ui"
)

func newRollCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll <companion>",
		Short: "Generate a random task from a companion's zone",
		Args:  exactArgs(1, "companion"),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := companionArg(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			task, err := s.svc.GenerateRandomTask(ctx, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.CompanionIcon(t), ui.Good.Render(task.Title), ui.Muted.Render("id="+task.ID), ui.Muted.Render(fmt.Sprintf("+%d xp", task.ExperienceReward)))
			return nil
		},
	}
	return cmd
}
