package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/config"
	"github.com/banter-app/banter-cli/pkg/output"
)

// settable keys and their descriptions
var settingKeys = map[string]string{
	"api.base_url":        "API gateway base URL",
	"api.timeout":         "Request timeout in seconds",
	"output.format":       "Default output format (text, json, table)",
	"socket.host":         "Realtime socket host",
	"socket.path":         "Realtime socket path",
	"socket.tls":          "Use TLS for the realtime socket",
	"chat.speech_enabled": "Enable speech input in chat",
	"mobile.force_web":    "Skip the mobile app banner",
	"log.level":           "Log level",
	"log.file":            "Log file path",
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage CLI settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		record := make(map[string]interface{}, len(settingKeys))
		for key := range settingKeys {
			record[key] = config.GetString(key)
		}
		return output.PrintRecord("Settings", record)
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := settingKeys[args[0]]; !ok {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		fmt.Println(config.GetString(args[0]))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if _, ok := settingKeys[key]; !ok {
			return fmt.Errorf("unknown setting %q", key)
		}
		if key == "output.format" && !output.ValidateFormat(value) {
			return fmt.Errorf("invalid output format %q", value)
		}
		if err := config.SetString(key, value); err != nil {
			return err
		}
		output.PrintSuccess("✓ %s = %s", key, value)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
