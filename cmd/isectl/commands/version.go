package commands

import (
	"fmt"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ise-client/internal/constants"
)

const notConfigured = "(not configured)"

// buildInfo describes the binary and the ISE nodes it is pointed at.
type buildInfo struct {
	Version   string `json:"version"    yaml:"version"`
	Commit    string `json:"commit"     yaml:"commit"`
	Built     string `json:"built"      yaml:"built"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	ERSURL    string `json:"ers_url"    yaml:"ers_url"`
	UIURL     string `json:"ui_url"     yaml:"ui_url"`
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display the isectl build together with the ERS and admin UI endpoints it is configured for",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildInfo{
				Version:   version,
				Commit:    commit,
				Built:     date,
				GoVersion: runtime.Version(),
				ERSURL:    configuredOr(KeyERSURL),
				UIURL:     configuredOr(KeyUIURL),
				UserAgent: constants.DefaultUserAgent,
			}

			switch viper.GetString(KeyOutput) {
			case constants.FormatJSON:
				return writeJSON(cmd.OutOrStdout(), info)
			case constants.FormatYAML:
				return writeYAML(cmd.OutOrStdout(), info)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Property", "Value")

			rows := [][]string{
				{"Version", info.Version},
				{"Commit", info.Commit},
				{"Built", info.Built},
				{"Go", info.GoVersion},
				{"ERS endpoint", info.ERSURL},
				{"UI endpoint", info.UIURL},
				{"User-Agent", info.UserAgent},
			}

			for _, row := range rows {
				_ = table.Append(row[0], row[1])
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func configuredOr(key string) string {
	if value := viper.GetString(key); value != "" {
		return value
	}

	return notConfigured
}
