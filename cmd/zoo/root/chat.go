package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zootopia/internal/storage"
	"zootopia/internal/ui"
)

func newChatCmd(open opener) *cobra.Command {
	var history int
	var makeTask bool

	cmd := &cobra.Command{
		Use:   "chat <companion> [message]",
		Short: "Talk with a companion, or show the transcript with --history",
		Args:  minArgs(1, "companion"),
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
			out := cmd.OutOrStdout()

			if history > 0 || len(args) == 1 {
				entries, err := s.svc.ChatHistory(ctx, t, history)
				if err != nil {
					return err
				}
				for _, e := range entries {
					who := ui.Key.Render("you")
					if e.Sender == storage.SenderCompanion {
						who = ui.CompanionIcon(t)
					}
					fmt.Fprintf(out, "%s %s %s\n", ui.Muted.Render(e.CreatedAt.Local().Format("01-02 15:04")), who, e.Message)
				}
				if len(args) == 1 {
					fmt.Fprintln(out, ui.Muted.Render(s.svc.ReflectionPrompt()))
				}
				return nil
			}

			reply, err := s.svc.Chat(ctx, t, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", ui.CompanionIcon(t), reply.Text)
			if reply.Fallback {
				fmt.Fprintln(out, ui.Muted.Render(ui.IconInfo+" offline reply; set one up with `zoo config set`"))
			}
			if reply.SuggestsTask && makeTask {
				task, err := s.svc.CreateTaskFromSuggestion(ctx, reply.Text, t)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s %s\n", ui.IconPlus, ui.Good.Render(task.Title), ui.Muted.Render("id="+task.ID))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&history, "history", 0, "Show the last N transcript entries")
	cmd.Flags().BoolVar(&makeTask, "make-task", false, "Turn a suggested activity into a task")
	return cmd
}

func newSayCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "say <text>",
		Short: "Say something to the whole zoo; mentioned companions may come visit",
		Args:  minArgs(1, "text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()
			out := cmd.OutOrStdout()

			reply, err := s.svc.GeneralChat(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			icon := ui.IconChat
			if reply.Detected != "" {
				icon = ui.CompanionIcon(reply.Detected)
			}
			fmt.Fprintf(out, "%s %s\n", icon, reply.Text)
			if reply.Unlock == nil {
				return nil
			}
			fmt.Fprintf(out, "%s %s joined your zoo!\n", ui.IconSparkle, ui.Good.Render(reply.Unlock.Animal.Name))
			if reply.Unlock.RewardPending {
				card, ok, err := s.svc.ClaimReward(ctx, reply.Detected)
				if err != nil {
					return err
				}
				if ok {
					printReward(out, card)
				}
			}
			return nil
		},
	}
	return cmd
}
