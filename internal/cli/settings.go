package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage settings",
	Long: `Manage workpulse settings. Keys are the JSON field names of the
settings record.

Examples:
  workpulse settings list                       # List all settings
  workpulse settings get theme                  # Get a specific setting
  workpulse settings set theme dark             # Set a value
  workpulse settings set autoPauseMinutes 15
  workpulse settings reset                      # Restore defaults

Out-of-range values are repaired to their defaults rather than rejected.`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

// settingsMap flattens the settings record into its JSON field names, which
// double as the CLI key names.
func settingsMap(s model.Settings) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	m, err := settingsMap(session.Settings())
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Value"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, key := range keys {
		table.Append([]string{key, string(m[key])})
	}

	table.Render()
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	m, err := settingsMap(session.Settings())
	if err != nil {
		return err
	}
	value, ok := m[key]
	if !ok {
		return fmt.Errorf("unknown setting: %s", key)
	}

	fmt.Println(string(value))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	m, err := settingsMap(session.Settings())
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return fmt.Errorf("unknown setting: %s", key)
	}

	// Accept bare strings as well as JSON literals: "15" and "true" parse as
	// number and bool, "dark" falls back to a string.
	raw := json.RawMessage(value)
	if !json.Valid(raw) {
		quoted, _ := json.Marshal(value)
		raw = quoted
	}

	err = session.UpdateSettings(func(s *model.Settings) {
		patch, _ := json.Marshal(map[string]json.RawMessage{key: raw})
		if err := json.Unmarshal(patch, s); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: value %q does not fit setting %s; keeping current value\n", value, key)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	m, err = settingsMap(session.Settings())
	if err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, string(m[key]))
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if err := session.ResetSettings(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	fmt.Println("Settings restored to defaults")
	return nil
}
