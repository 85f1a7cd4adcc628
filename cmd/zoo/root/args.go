package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zootopia/internal/catalog"
)

func companionArg(s string) (catalog.CompanionType, error) {
	t, ok := catalog.ParseCompanion(s)
	if !ok {
		return "", fmt.Errorf("unknown companion %q (try %s)", s, companionNames())
	}
	return t, nil
}

func companionNames() string {
	var names []string
	for _, c := range catalog.Companions() {
		names = append(names, string(c.Type))
	}
	return strings.Join(names, ", ")
}

func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New(what + " is required")
		}
		return nil
	}
}

func minArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return errors.New(what + " is required")
		}
		return nil
	}
}
