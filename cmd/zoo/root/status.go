package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"zootopia/internal/ui"
)

func newStatusCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show companions, today's weather and task totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()
			out := cmd.OutOrStdout()

			zoo, err := s.svc.GrowthOverview(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconZoo, "Your Zoo"))
			fmt.Fprintln(out, ui.LabelValue("Backend", s.svc.Backend()))
			fmt.Fprintln(out, "")
			for _, c := range zoo {
				fmt.Fprintf(out, "%s %s %s %s %d%% %s\n",
					c.Def.Emoji,
					ui.H2.Render(c.Animal.Name),
					ui.TierText(c.Growth.Tier, c.Growth.TierName),
					ui.Bar(c.Growth.ProgressPercent, 20),
					c.Growth.ProgressPercent,
					ui.Muted.Render(fmt.Sprintf("(xp %d, next at %d)", c.Animal.ExperiencePoints, c.Growth.NextTierThreshold)),
				)
			}
			fmt.Fprintln(out, "")

			today, err := s.svc.TodayMood(ctx)
			if err != nil {
				return err
			}
			if today == nil {
				fmt.Fprintln(out, ui.LabelValue("Today", ui.Muted.Render("no weather recorded")))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Today", ui.WeatherIcon(today.WeatherMood)+" "+string(today.WeatherMood)))
			}

			st, err := s.svc.TaskStats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.LabelValue("Tasks", fmt.Sprintf("%d open, %d done, %d deleted (%d total)", st.Pending, st.Completed, st.Deleted, st.Total)))
			return nil
		},
	}
	return cmd
}
