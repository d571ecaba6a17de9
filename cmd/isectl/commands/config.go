package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ise-client/internal/constants"
)

type setting struct {
	key    string
	secret bool
}

// settings lists the effective configuration in display order.
var settings = []setting{
	{key: KeyERSURL},
	{key: KeyERSUsername},
	{key: KeyERSPassword, secret: true},
	{key: KeySponsorUsername},
	{key: KeySponsorPassword, secret: true},
	{key: KeyUIURL},
	{key: KeyUIUsername},
	{key: KeyUIPassword, secret: true},
	{key: KeyUILoginType},
	{key: KeySSLVerify},
	{key: KeySkipSSL},
	{key: KeyProxyHTTP},
	{key: KeyProxyHTTPS},
	{key: KeyConnectTimeout},
	{key: KeyReadTimeout},
	{key: KeyOutput},
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect CLI configuration",
		Long:  "Inspect the configuration assembled from flags, ISE_* environment variables, .env and the config file",
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with passwords masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := effectiveSettings()

			output := viper.GetString(KeyOutput)
			switch output {
			case constants.FormatJSON:
				return writeJSON(cmd.OutOrStdout(), values)
			case constants.FormatYAML:
				return writeYAML(cmd.OutOrStdout(), values)
			default:
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.Header("Property", "Value")

				for _, entry := range settings {
					_ = table.Append(entry.key, values[entry.key])
				}

				if file := viper.ConfigFileUsed(); file != "" {
					_ = table.Append("config file", file)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func effectiveSettings() map[string]string {
	values := make(map[string]string, len(settings))

	for _, entry := range settings {
		value := viper.GetString(entry.key)
		if entry.secret && value != "" {
			value = Masked
		}

		values[entry.key] = value
	}

	return values
}
