package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"poscan/internal/logger"
	"poscan/internal/registry"
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List the vendor rendering profiles",
	Long: `List the vendors known to the registry together with their invoice
template and coordinate layout.

Profiles ship embedded in the binary; set VENDOR_REGISTRY_PATH to a JSON
file to replace them without rebuilding.`,
	Example: `  # List vendors
  poscan vendors

  # Machine readable
  poscan vendors --json`,
	Args: cobra.NoArgs,
	RunE: runVendors,
}

func init() {
	rootCmd.AddCommand(vendorsCmd)

	vendorsCmd.Flags().Bool("json", false, "Output as JSON")
}

func runVendors(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("vendors-cmd")

	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	reg, err := registry.LoadFile(cfg.RegistryPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load vendor registry")
		return fmt.Errorf("failed to load vendor registry: %w", err)
	}

	if jsonOutput {
		var vendors []registry.Vendor
		for _, key := range reg.Keys() {
			v, lookupErr := reg.Lookup(key)
			if lookupErr != nil {
				continue
			}
			vendors = append(vendors, v)
		}
		data, err := json.MarshalIndent(vendors, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal vendors: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, key := range reg.Keys() {
		v, lookupErr := reg.Lookup(key)
		if lookupErr != nil {
			continue
		}
		fmt.Printf("%-24s %-24s template=%s layout=%s\n", v.Key, v.DisplayName, v.Template, v.Layout)
	}
	return nil
}
