package root

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"zootopia/internal/catalog"
	"zootopia/internal/engine"
	"zootopia/internal/ui"
)

func newUnlockCmd(open opener) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "unlock [companion]",
		Short: "Unlock a companion, or list them with --list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !list && len(args) == 0 {
				return fmt.Errorf("companion is required (one of %s)", companionNames())
			}
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()
			out := cmd.OutOrStdout()

			if list {
				entries, err := s.svc.Companions(ctx)
				if err != nil {
					return err
				}
				for _, e := range entries {
					state := ui.Muted.Render("locked")
					if e.Unlocked {
						state = ui.Good.Render("unlocked")
					}
					fmt.Fprintf(out, "%s %s %s %s\n", e.Def.Emoji, e.Def.Name, ui.Muted.Render(string(e.Def.Type)), state)
				}
				return nil
			}

			t, err := companionArg(args[0])
			if err != nil {
				return err
			}
			res, err := s.svc.UnlockCompanion(ctx, t)
			if err != nil {
				return err
			}
			if res.Status == engine.UnlockAlready {
				fmt.Fprintf(out, "%s %s is already in your zoo\n", ui.CompanionIcon(t), res.Animal.Name)
				return nil
			}
			fmt.Fprintf(out, "%s %s joined your zoo!\n", ui.CompanionIcon(t), ui.Good.Render(res.Animal.Name))
			if !res.RewardPending {
				return nil
			}
			card, ok, err := s.svc.ClaimReward(ctx, t)
			if err != nil {
				return err
			}
			if ok {
				printReward(out, card)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List all companions")
	return cmd
}

func printReward(out io.Writer, card *catalog.RewardCard) {
	body := fmt.Sprintf("%s\n%s\n\n%s\n%s",
		ui.Gold.Render(card.Title), ui.H2.Render(card.Subtitle), card.Message, ui.Muted.Render(card.Blessing))
	fmt.Fprintln(out, ui.IconGift+" "+ui.PanelTitle.Render("Reward card"))
	fmt.Fprintln(out, ui.Panel.Render(body))
}
