package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// NewGuestUserCommand creates the guest-user command group.
func NewGuestUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "guest-user",
		Aliases: []string{"guest"},
		Short:   "Manage guest users",
		Long:    "Look up, create, update and delete ERS guest users by name",
	}

	cmd.AddCommand(newGuestUserGetCommand())
	cmd.AddCommand(newGuestUserUpsertCommand())
	cmd.AddCommand(newGuestUserDeleteCommand())

	return cmd
}

func newGuestUserGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USERNAME",
		Short: "Show a guest user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := viper.GetString(KeyOutput)
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			client, err := newAdminClient()
			if err != nil {
				return err
			}

			record, found, err := client.FindGuestUserByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !found {
				return fmt.Errorf("%w: %s", ErrGuestUserNotFound, args[0])
			}

			return renderRecords(cmd.OutOrStdout(), []ise.Record{record}, output, viper.GetString(KeyQuery))
		},
	}
}

func newGuestUserUpsertCommand() *cobra.Command {
	var (
		params  ise.GuestUserParams
		onlyAdd bool
	)

	cmd := &cobra.Command{
		Use:   "upsert USERNAME",
		Short: "Create or update a guest user",
		Long:  "Create the guest user, or update it in place when it already exists (unless --only-add is set)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Username = args[0]
			if params.Username == "" {
				return constants.ErrMissingUsername
			}

			client, err := newSponsorOrAdminClient()
			if err != nil {
				return err
			}

			result, err := client.UpsertGuestUser(cmd.Context(), &params, onlyAdd)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "guest user %s %s\n", params.Username, result)

			return nil
		},
	}

	cmd.Flags().StringVar(&params.Password, "password", "", "guest password")
	cmd.Flags().StringVar(&params.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&params.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&params.Email, "email", "", "email address")
	cmd.Flags().StringVar(&params.PortalID, "portal-id", "", "sponsor portal ID")
	cmd.Flags().StringVar(&params.GuestType, "guest-type", "", "guest type, e.g. \"Contractor (default)\"")
	cmd.Flags().IntVar(&params.ValidDays, "valid-days", 1, "number of days the account is valid")
	cmd.Flags().StringVar(&params.Location, "location", "", "guest location")
	cmd.Flags().StringVar(&params.GroupTag, "group-tag", "", "guest group tag")
	cmd.Flags().BoolVar(&onlyAdd, "only-add", false, "leave existing users unchanged")

	return cmd
}

func newGuestUserDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete USERNAME",
		Short: "Delete a guest user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newSponsorOrAdminClient()
			if err != nil {
				return err
			}

			deleted, err := client.DeleteGuestUserByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !deleted {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "guest user %s not found\n", args[0])

				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "guest user %s deleted\n", args[0])

			return nil
		},
	}
}

// newSponsorOrAdminClient prefers the sponsor account for guest user writes.
func newSponsorOrAdminClient() (ise.ManagementClient, error) {
	if viper.GetString(KeySponsorUsername) != "" {
		return newSponsorClient()
	}

	return newAdminClient()
}
