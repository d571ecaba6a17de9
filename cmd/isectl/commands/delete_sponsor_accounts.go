package commands

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/internal/sponsor"
)

// NewDeleteSponsorAccountsCommand creates the delete-sponsor-accounts command.
func NewDeleteSponsorAccountsCommand() *cobra.Command {
	var (
		filters       []string
		usernameRegex string
		emailRegex    string
		confirm       bool
		endpoints     bool
		limit         int
	)

	cmd := &cobra.Command{
		Use:   "delete-sponsor-accounts",
		Short: "Delete sponsor created guest accounts",
		Long: `Delete guest accounts created by the sponsor account, optionally with the
endpoints registered through them.

Without --confirm the command only reports what it would delete. An account
that still has endpoints is only deleted together with them (--endpoints).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return constants.ErrInvalidLimit
			}

			options := sponsor.Options{
				Filters:          filters,
				Confirm:          confirm,
				IncludeEndpoints: endpoints,
				Limit:            limit,
			}

			var err error

			options.UsernamePattern, err = compileOptional(usernameRegex)
			if err != nil {
				return fmt.Errorf("invalid --regex-username: %w", err)
			}

			options.EmailPattern, err = compileOptional(emailRegex)
			if err != nil {
				return fmt.Errorf("invalid --regex-email: %w", err)
			}

			sponsorClient, err := newSponsorClient()
			if err != nil {
				return err
			}

			adminClient, err := newAdminClient()
			if err != nil {
				return err
			}

			cleaner := sponsor.NewCleaner(sponsorClient, adminClient, cmd.OutOrStdout(), NewLogger())

			report, err := cleaner.Run(cmd.Context(), options)

			NewLogger().Info("sponsor account cleanup finished", map[string]interface{}{
				"processed":         report.Processed,
				"deleted_users":     report.DeletedUsers,
				"deleted_endpoints": report.DeletedEndpoints,
				"skipped":           report.Skipped,
				"kept":              report.Kept,
			})

			return err
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "ERS filter selecting the accounts (repeatable)")
	cmd.Flags().StringVar(&usernameRegex, "regex-username", "", "regular expression the username must match")
	cmd.Flags().StringVar(&emailRegex, "regex-email", "", "regular expression the email address must match")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "really delete the accounts and endpoints")
	cmd.Flags().BoolVar(&endpoints, "endpoints", false, "include the endpoints of the accounts")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many accounts (0 = no limit)")

	return cmd
}

func compileOptional(expression string) (*regexp.Regexp, error) {
	if expression == "" {
		return nil, nil //nolint:nilnil // no pattern configured
	}

	return regexp.Compile(expression)
}
