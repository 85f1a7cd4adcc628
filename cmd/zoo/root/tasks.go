package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"zootopia/internal/engine"
	"zootopia/internal/ui"
)

func newTasksCmd(open opener) *cobra.Command {
	var all bool
	var companion string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List open tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.ListOptions{IncludeCompleted: all, IncludeDeleted: all}
			if companion != "" {
				t, err := companionArg(companion)
				if err != nil {
					return err
				}
				opts.Companion = t
			}
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()
			out := cmd.OutOrStdout()

			tasks, err := s.svc.ListTasks(ctx, opts)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no tasks)"))
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintf(out, "%s %s %s %s %s\n",
					ui.IconTask,
					t.Title,
					ui.Muted.Render("["+t.GardenZone.DisplayName()+"]"),
					ui.TaskState(t.IsCompleted, t.IsDeleted),
					ui.Muted.Render("id="+t.ID),
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed and deleted tasks")
	cmd.Flags().StringVarP(&companion, "companion", "c", "", "Only tasks for this companion")
	return cmd
}
