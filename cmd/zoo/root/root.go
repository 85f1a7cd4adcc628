package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"zootopia/internal/ui"
)

const Version = "0.1.0"

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "zoo",
		Short:         "Zootopia: a self-care zoo in your terminal",
		Long:          "Zootopia turns small self-care tasks into experience for a garden of companion animals.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $ZOO_CONFIG or $XDG_CONFIG_HOME/zootopia/config.yaml)")

	open := func(ctx context.Context) (*session, error) {
		return openSession(ctx, configPath)
	}
	cmd.AddCommand(
		newStatusCmd(open),
		newAddCmd(open),
		newDoCmd(open),
		newRmCmd(open),
		newRollCmd(open),
		newTasksCmd(open),
		newMoodCmd(open),
		newUnlockCmd(open),
		newChatCmd(open),
		newSayCmd(open),
		newConfigCmd(open),
		newBoardCmd(open),
	)
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		stop()
		os.Exit(1)
	}
}
