package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/NethermindEth/accountcheck/checker"
	"github.com/NethermindEth/accountcheck/core/address"
	"github.com/NethermindEth/accountcheck/node"
	"github.com/NethermindEth/accountcheck/utils"
	"github.com/fatih/color"
	"github.com/fxamacker/cbor/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputF      = "output"
	concurrencyF = "concurrency"
	fileF        = "file"

	defaultOutput      = "text"
	defaultConcurrency = checker.DefaultConcurrency

	outputUsage      = "Output format. Options: text, json, yaml, table, cbor."
	concurrencyUsage = "Number of addresses classified at the same time."
	fileUsage        = "Read additional addresses, one per line, from the file. Use - for stdin."
)

func newCheckCmd(load loadFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [address...]",
		Short: "Classify Starknet addresses as EOA, smart wallet or contract.",
		Long: "Classify Starknet addresses as EOA, smart wallet or contract.\n\n" +
			"The command exits with an error if any address is invalid or could not be checked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(cmd)
			if err != nil {
				return err
			}

			addresses, err := collectAddresses(cmd, args)
			if err != nil {
				return err
			}
			if len(addresses) == 0 {
				return fmt.Errorf("no addresses given")
			}

			c, err := node.NewChecker(cfg, log, node.Listeners{})
			if err != nil {
				return err
			}
			defer c.Close()

			results := c.ClassifyAll(cmd.Context(), addresses)
			if err := writeReports(cmd.OutOrStdout(), cfg.Output, cfg.Colour, utils.Map(results, checker.Result.Report)); err != nil {
				return err
			}
			if slices.ContainsFunc(results, func(r checker.Result) bool { return !r.Success() }) {
				return ErrUnsuccessful
			}
			return nil
		},
	}

	cmd.Flags().StringP(outputF, "o", defaultOutput, outputUsage)
	cmd.Flags().Int(concurrencyF, defaultConcurrency, concurrencyUsage)
	cmd.Flags().StringP(fileF, "f", "", fileUsage)
	return cmd
}

func collectAddresses(cmd *cobra.Command, args []string) ([]string, error) {
	addresses := append([]string(nil), args...)

	path, err := cmd.Flags().GetString(fileF)
	if err != nil || path == "" {
		return addresses, err
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			addresses = append(addresses, line)
		}
	}
	return addresses, scanner.Err()
}

// writeReports prints reports in the given format. Text output colours the
// status column when colour is set and the terminal supports it.
func writeReports(w io.Writer, format string, colour bool, reports []checker.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		return cbor.NewEncoder(w).Encode(reports)
	case "table":
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Address", "Type", "Vendor", "Class Hash", "Message"})
		table.SetAutoWrapText(false)
		for _, r := range reports {
			table.Append([]string{r.Address, r.Type.String(), r.Vendor, r.ClassHash, r.Message})
		}
		table.Render()
		return nil
	default:
		okStyle, failedStyle := color.New(color.FgGreen), color.New(color.FgRed)
		if !colour {
			okStyle.DisableColor()
			failedStyle.DisableColor()
		}
		for _, r := range reports {
			status := okStyle.Sprint("ok")
			if !r.Success {
				status = failedStyle.Sprint("failed")
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Address, r.Type, status, r.Message); err != nil {
				return err
			}
		}
		return nil
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate address...",
		Short: "Check the format of Starknet addresses without contacting a node.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, raw := range args {
				normalised, valid := address.Validate(raw)
				if !valid {
					failed = true
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\tinvalid\n", raw); err != nil {
						return err
					}
					continue
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\tvalid\t%s\n", raw, normalised); err != nil {
					return err
				}
			}
			if failed {
				return ErrUnsuccessful
			}
			return nil
		},
	}
}
