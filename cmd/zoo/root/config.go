package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zootopia/internal/apperrors"
	"zootopia/internal/storage"
	"zootopia/internal/ui"
)

func newConfigCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the chat completion settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			c, err := s.svc.APIConfig(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c == nil {
				fmt.Fprintln(out, ui.Muted.Render("no chat settings saved"))
				return nil
			}
			fmt.Fprintln(out, ui.LabelValue("Endpoint", c.EndpointURL))
			fmt.Fprintln(out, ui.LabelValue("Model", c.ModelName))
			fmt.Fprintln(out, ui.LabelValue("API key", maskKey(c.APIKey)))
			return nil
		},
	}
	cmd.AddCommand(newConfigSetCmd(open), newConfigTestCmd(open))
	return cmd
}

func newConfigSetCmd(open opener) *cobra.Command {
	var c storage.APIConfig

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save endpoint, API key and model",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			committed, err := s.svc.SaveAPIConfig(ctx, c)
			if committed && errors.Is(err, apperrors.ErrPartialFailure) {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn.Render(ui.IconWarn+" saved locally only: "+err.Error()))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" chat settings saved"))
			return nil
		},
	}
	cmd.Flags().StringVar(&c.EndpointURL, "endpoint", "", "Chat completions endpoint URL")
	cmd.Flags().StringVar(&c.APIKey, "key", "", "API key")
	cmd.Flags().StringVar(&c.ModelName, "model", "", "Model name")
	return cmd
}

// newConfigTestCmd checks settings against the endpoint. Flags override the
// saved settings field by field.
func newConfigTestCmd(open opener) *cobra.Command {
	var flags storage.APIConfig

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send one short message to check the chat settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			var c storage.APIConfig
			if saved, err := s.svc.APIConfig(ctx); err != nil {
				return err
			} else if saved != nil {
				c = *saved
			}
			if flags.EndpointURL != "" {
				c.EndpointURL = flags.EndpointURL
			}
			if flags.APIKey != "" {
				c.APIKey = flags.APIKey
			}
			if flags.ModelName != "" {
				c.ModelName = flags.ModelName
			}

			if err := s.svc.TestAPIConfig(ctx, c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" connection ok"))
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.EndpointURL, "endpoint", "", "Chat completions endpoint URL")
	cmd.Flags().StringVar(&flags.APIKey, "key", "", "API key")
	cmd.Flags().StringVar(&flags.ModelName, "model", "", "Model name")
	return cmd
}

func maskKey(k string) string {
	if len(k) <= 4 {
		return "****"
	}
	return "****" + k[len(k)-4:]
}
