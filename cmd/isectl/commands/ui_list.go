package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// NewUIListCommand creates the ui-list command.
func NewUIListCommand() *cobra.Command {
	var (
		filter   string
		columns  string
		pageSize int
		start    int
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "ui-list",
		Short: "List endpoints over the admin UI API",
		Long: `Log in to the admin UI, list endpoint rows and log out again.

The filter is a query string of column conditions, for example:

  isectl ui-list --filter 'status=CONTEXT_EXACT_MATCH_connected' --columns MACAddress,status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := viper.GetString(KeyOutput)
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			options, err := buildListOptions(filter, columns)
			if err != nil {
				return err
			}

			options.FetchAll = all
			options.PageSize = pageSize
			options.Start = start

			client, err := newUIClient()
			if err != nil {
				return err
			}

			records, err := client.ListEndpoints(cmd.Context(), options)
			if err != nil {
				return err
			}

			return renderRecords(cmd.OutOrStdout(), records, output, viper.GetString(KeyQuery))
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "query string of column filters")
	cmd.Flags().StringVarP(&columns, "columns", "c", "", "comma separated columns (default MACAddress,status,NetworkDeviceName,NAS-Port-Id)")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.UIDefaultPageSize, "rows per page")
	cmd.Flags().IntVar(&start, "start", constants.UIDefaultStart, "first page to fetch")
	cmd.Flags().BoolVar(&all, "all", true, "fetch every page up to the server side total")

	return cmd
}

func buildListOptions(filter, columns string) (*ise.ListOptions, error) {
	options := &ise.ListOptions{}

	if filter != "" {
		params, err := ise.ParseParams(filter)
		if err != nil {
			return nil, err
		}

		options.Filters = params
	}

	if columns != "" {
		for _, column := range strings.Split(columns, ",") {
			if column = strings.TrimSpace(column); column != "" {
				options.Columns = append(options.Columns, column)
			}
		}

		if len(options.Columns) == 0 {
			return nil, constants.ErrInvalidColumns
		}
	}

	return options, nil
}
