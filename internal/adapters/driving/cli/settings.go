package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingSecret bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage configuration",
	Long: `View and change configuration.

Recognised keys include:
  embedding.base_url   Ollama endpoint for the dense embedding model
  embedding.model      dense embedding model name
  llm.base_url         Ollama endpoint for answer synthesis
  llm.model            answer model name
  edgar.user_agent     contact string sent to SEC EDGAR (set this!)
  index.path           vector index snapshot path
  data.dir             filing database directory`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set a configuration value.

With --secret the value is read from the terminal without echo and the
value argument must be omitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return fmt.Errorf("settings: %w", errNotConfigured)
		}
		cmd.Println(configStore.Path())
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().BoolVar(&settingSecret, "secret", false, "prompt for the value without echo")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	keys := []string{
		"embedding.base_url", "embedding.model",
		"llm.base_url", "llm.model",
		"edgar.user_agent",
		"index.path", "data.dir",
	}
	sort.Strings(keys)

	cmd.Printf("Configuration (%s)\n\n", configStore.Path())
	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-20s (default)\n", key)
			continue
		}
		cmd.Printf("  %-20s %v\n", key, val)
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	key := args[0]
	var raw string
	switch {
	case settingSecret && len(args) == 2:
		return fmt.Errorf("--secret reads the value from the terminal; omit the value argument")
	case settingSecret:
		cmd.Printf("Value for %s: ", key)
		raw = readSecret()
		cmd.Println()
	case len(args) == 2:
		raw = args[1]
	default:
		return fmt.Errorf("missing value for %q", key)
	}

	if err := configStore.Set(key, coerceValue(raw)); err != nil {
		return fmt.Errorf("save setting: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

// coerceValue keeps bools and ints typed in the config file.
func coerceValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	// Read without echo when attached to a terminal.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		value, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(value))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
