package commands

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// NewSponsorEndpointsCommand creates the sponsor-endpoints command.
func NewSponsorEndpointsCommand() *cobra.Command {
	var (
		portalUser string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "sponsor-endpoints",
		Short: "List endpoints registered through a guest portal",
		Long:  "List endpoints whose portal user contains the given text. Only the first page is fetched unless --all is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := viper.GetString(KeyOutput)
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			client, err := newAdminClient()
			if err != nil {
				return err
			}

			path := sponsorEndpointsPath(portalUser)

			var records []ise.Record
			if all {
				records, err = client.FetchAll(cmd.Context(), path)
			} else {
				records, err = client.List(cmd.Context(), path)
			}

			if err != nil {
				return err
			}

			return renderRecords(cmd.OutOrStdout(), records, output, viper.GetString(KeyQuery))
		},
	}

	cmd.Flags().StringVar(&portalUser, "portal-user", "0", "text the endpoint portal user must contain")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func sponsorEndpointsPath(portalUser string) string {
	query := url.Values{}
	query.Set("filter", "portalUser.CONTAINS."+portalUser)
	query.Set("page", strconv.Itoa(constants.ERSFirstPage))
	query.Set("size", strconv.Itoa(constants.ERSDefaultPageSize))

	return "endpoint?" + query.Encode()
}
