package commands

import (
	"net/url"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ise-client/internal/constants"
)

// NewSponsorListCommand creates the sponsor-list command.
func NewSponsorListCommand() *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "sponsor-list",
		Short: "List guest user accounts",
		Long: `List all guest user accounts over the ERS API, following every result page.

Filters use the ERS syntax FIELD.OPERATOR.VALUE and may be repeated:

  isectl sponsor-list --filter name.STARTSW.guest --filter status.EQ.ACTIVE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := viper.GetString(KeyOutput)
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			client, err := newAdminClient()
			if err != nil {
				return err
			}

			records, err := client.FetchAll(cmd.Context(), guestUserListPath(filters))
			if err != nil {
				return err
			}

			return renderRecords(cmd.OutOrStdout(), records, output, viper.GetString(KeyQuery))
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "ERS filter expression (repeatable)")

	return cmd
}

func guestUserListPath(filters []string) string {
	if len(filters) == 0 {
		return constants.ERSGuestUserPath
	}

	return constants.ERSGuestUserPath + "?" + url.Values{"filter": filters}.Encode()
}
