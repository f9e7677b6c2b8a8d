package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// settingsCmd manages named runtime settings
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change named runtime settings",
	Long: `Named settings override the strategy file thresholds at runtime
without a restart.

Example:
  go run ./cmd/wheel settings get options.dte_min
  go run ./cmd/wheel settings set options.dte_min 25`,
}

var (
	settingsGetCmd = &cobra.Command{
		Use:   "get [name]",
		Short: "Show a setting's stored value",
		Args:  cobra.ExactArgs(1),
		RunE:  getSetting,
	}

	settingsSetCmd = &cobra.Command{
		Use:   "set [name] [value]",
		Short: "Store a setting value",
		Args:  cobra.ExactArgs(2),
		RunE:  setSetting,
	}
)

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func getSetting(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	name := args[0]
	value, ok := d.settings.Get(cmd.Context(), name)
	if !ok {
		fmt.Printf("%s is not set (strategy file default applies)\n", name)
		return nil
	}

	fmt.Printf("%s = %s\n", name, value)
	return nil
}

func setSetting(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	name, value := args[0], args[1]
	if err := d.settings.Set(cmd.Context(), name, value); err != nil {
		return fmt.Errorf("store setting: %w", err)
	}

	fmt.Printf("%s = %s\n", name, value)
	return nil
}
