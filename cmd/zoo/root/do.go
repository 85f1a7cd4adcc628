package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"zootopia/internal/engine"
	"zootopia/internal/ui"
)

func newDoCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Complete a task",
		Args:  exactArgs(1, "id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()
			out := cmd.OutOrStdout()

			res, err := s.svc.CompleteTask(ctx, args[0])
			if err != nil {
				return err
			}
			if res.Status == engine.StatusAlreadyCompleted {
				fmt.Fprintln(out, ui.Muted.Render(ui.IconInfo+" already completed"))
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", ui.IconDone, ui.Good.Render(res.Task.Title))
			if res.Animal != nil {
				fmt.Fprintf(out, "%s %s +%d xp (now %d)\n", ui.CompanionIcon(res.Animal.Type), res.Animal.Name, res.XPAwarded, res.Animal.ExperiencePoints)
			}
			if res.TierUp {
				fmt.Fprintf(out, "%s %s tier %d → %d\n", ui.IconSparkle, ui.BadgeTierUp, res.TierBefore, res.TierAfter)
			}
			return nil
		},
	}
	return cmd
}
