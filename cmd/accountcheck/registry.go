package main

import (
	"fmt"

	"github.com/NethermindEth/accountcheck/registry"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const (
	vendorsF     = "vendors"
	vendorsUsage = "Only print the registered vendor names, one per line."
)

func newRegistryCmd(load loadFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "List the class hashes recognised as known smart wallets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := load(cmd)
			if err != nil {
				return err
			}

			reg, err := registry.New(cfg.Registry)
			if err != nil {
				return err
			}

			vendorsOnly, err := cmd.Flags().GetBool(vendorsF)
			if err != nil {
				return err
			}
			if vendorsOnly {
				for _, vendor := range reg.Vendors() {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), vendor); err != nil {
						return err
					}
				}
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Vendor", "Class Hash"})
			for _, e := range reg.Entries() {
				table.Append([]string{e.Vendor, e.ClassHash.Canonical()})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Bool(vendorsF, false, vendorsUsage)
	return cmd
}
