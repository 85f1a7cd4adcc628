package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zootopia/internal/catalog"
	"zootopia/internal/ui"
)

func newMoodCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Today's weather",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.svc.TodayMood(ctx)
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("no weather recorded today"))
				return nil
			}
			w, _ := catalog.Weather(rec.WeatherMood)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", w.Emoji, ui.H2.Render(w.Name), ui.Muted.Render(rec.Date))
			return nil
		},
	}
	cmd.AddCommand(newMoodAnalyzeCmd(open), newMoodSetCmd(open))
	return cmd
}

func newMoodAnalyzeCmd(open opener) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Read the weather in how you feel",
		Args:  minArgs(1, "text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()
			out := cmd.OutOrStdout()

			r := s.svc.AnalyzeMood(strings.Join(args, " "))
			fmt.Fprintf(out, "%s %s %d°C\n", r.Emoji, ui.H2.Render(r.Name), r.DisplayTemperature)
			fmt.Fprintln(out, ui.Muted.Render(r.Description))
			fmt.Fprintln(out, ui.IconHeart+" "+r.Suggestion)
			if save {
				if _, err := s.svc.RecordMood(ctx, r.Mood); err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Good.Render("saved as today's weather"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Record the result as today's weather")
	return cmd
}

func newMoodSetCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <weather>",
		Short: "Record today's weather (sunny|cloudy|rainy|stormy)",
		Args:  exactArgs(1, "weather"),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := catalog.ParseMood(args[0])
			if !ok {
				return fmt.Errorf("unknown weather %q", args[0])
			}
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.svc.RecordMood(ctx, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.WeatherIcon(m), string(m), ui.Muted.Render(rec.Date))
			return nil
		},
	}
	return cmd
}
