package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zootopia/internal/catalog"
	"zootopia/internal/engine"
	"zootopia/internal/ui"
)

func newAddCmd(open opener) *cobra.Command {
	var zone string
	var desc string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a self-care task to a garden zone",
		Args:  minArgs(1, "title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			z, _ := catalog.ParseZone(zone)
			t, err := s.svc.CreateUserTask(ctx, engine.CreateTaskInput{
				Title:       strings.Join(args, " "),
				Zone:        z,
				Description: desc,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.IconPlus, ui.Good.Render(t.Title), ui.Muted.Render("id="+t.ID), ui.Muted.Render(fmt.Sprintf("+%d xp", t.ExperienceReward)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&zone, "zone", "z", string(catalog.DefaultZone), "Garden zone")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	return cmd
}
