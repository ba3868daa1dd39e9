package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration keys",
	Long: `Read and write keys in ~/.proemail/config.toml.

Keys use dot notation, e.g. backend.url or fetch.message_cap.
Run 'proemail config list' to see every known key.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Numbers and true/false are stored typed;
everything else is stored as a string.

Example:
  proemail config set fetch.message_cap 25`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values",
	RunE:  runConfigList,
}

var configSetSecretCmd = &cobra.Command{
	Use:   "set-secret [key]",
	Short: "Set a value read from the terminal without echo",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetSecret,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetSecretCmd)
	rootCmd.AddCommand(configCmd)
}

func requireConfigStore() error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := requireConfigStore(); err != nil {
		return err
	}
	key := args[0]
	value, ok := configStore.Get(key)
	if !ok {
		return fmt.Errorf("%s is not set", key)
	}
	cmd.Println(displayValue(key, value))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := requireConfigStore(); err != nil {
		return err
	}
	key := args[0]
	if secretKeys[key] {
		return fmt.Errorf("%s is a secret; use 'proemail config set-secret %s'", key, key)
	}
	if err := configStore.Set(key, parseValue(args[1])); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if !isKnownKey(key) {
		cmd.Printf("Note: %s is not a key proemail reads.\n", key)
	}
	cmd.Printf("%s = %s\n", key, args[1])
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if err := requireConfigStore(); err != nil {
		return err
	}
	if err := configStore.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if err := requireConfigStore(); err != nil {
		return err
	}

	cmd.Printf("# %s\n", configStore.Path())

	seen := make(map[string]bool)
	for _, key := range configKeys {
		seen[key] = true
		if value, ok := configStore.Get(key); ok {
			cmd.Printf("%s = %s\n", key, displayValue(key, value))
		} else {
			cmd.Printf("%s = (default)\n", key)
		}
	}

	var extra []string
	for _, key := range configStore.Keys() {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		value, _ := configStore.Get(key)
		cmd.Printf("%s = %s (unused)\n", key, displayValue(key, value))
	}
	return nil
}

func runConfigSetSecret(cmd *cobra.Command, args []string) error {
	if err := requireConfigStore(); err != nil {
		return err
	}
	key := args[0]

	cmd.Printf("Enter value for %s: ", key)
	value := readPassword(bufio.NewReader(stdin))
	cmd.Println()
	if value == "" {
		return errors.New("no value entered")
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Saved %s\n", key)
	return nil
}

// parseValue stores integers, floats and booleans typed.
func parseValue(raw string) any {
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

func displayValue(key string, value any) string {
	s := fmt.Sprint(value)
	if secretKeys[key] {
		return maskSecret(s)
	}
	return s
}

func isKnownKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}
