package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modtree/host"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <layout.yaml>",
		Short: "Check a layout without ticking it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lf, err := loadLayoutFile(args[0])
			if err != nil {
				return err
			}

			bank, _, err := buildBank(lf)
			if err != nil {
				return err
			}
			defer bank.Release()

			for _, name := range bank.Names() {
				root, _ := bank.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d nodes\n", name, len(host.Flatten(root)))
			}

			return nil
		},
	}
}
