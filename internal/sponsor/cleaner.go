// Package sponsor removes sponsor created guest accounts, optionally together
// with the endpoints registered through them.
package sponsor

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"

	"github.com/jmespath/go-jmespath"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

var (
	nameField  = jmespath.MustCompile("name")
	idField    = jmespath.MustCompile("id")
	emailField = jmespath.MustCompile(constants.ERSGuestUserKey + ".guestInfo.emailAddress")
)

// ERSClient is the part of ise.ManagementClient the cleaner needs.
type ERSClient interface {
	Get(ctx context.Context, path string) (ise.Record, error)
	FetchAll(ctx context.Context, path string) ([]ise.Record, error)
	Delete(ctx context.Context, path string) error
}

// Options selects the accounts to remove.
type Options struct {
	// Filters are ERS filter expressions such as "name.STARTSW.guest". All must match.
	Filters         []string
	UsernamePattern *regexp.Regexp
	EmailPattern    *regexp.Regexp
	// Confirm performs the deletes; otherwise the run only reports.
	Confirm bool
	// IncludeEndpoints deletes the endpoints registered by an account. An
	// account that still has endpoints is never deleted without it.
	IncludeEndpoints bool
	// Limit stops after that many processed accounts. Zero means no limit.
	Limit int
}

// Report summarizes a run.
type Report struct {
	Processed        int
	DeletedUsers     int
	DeletedEndpoints int
	// Skipped counts accounts rejected by the username or email pattern.
	Skipped int
	// Kept counts processed accounts left in place because of their endpoints.
	Kept int
}

// Cleaner deletes guest accounts with the sponsor credentials and their
// endpoints with the ERS admin credentials.
type Cleaner struct {
	sponsor ERSClient
	admin   ERSClient
	out     io.Writer
	logger  ise.Logger
}

// NewCleaner creates a cleaner writing progress lines to out.
func NewCleaner(sponsor, admin ERSClient, out io.Writer, logger ise.Logger) *Cleaner {
	return &Cleaner{
		sponsor: sponsor,
		admin:   admin,
		out:     out,
		logger:  logger,
	}
}

// Run processes every matching account. The report reflects the work done
// even when an error stops the run early.
func (c *Cleaner) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{}

	c.printf("load sponsor accounts")

	users, err := c.sponsor.FetchAll(ctx, guestUserQuery(opts.Filters))
	if err != nil {
		return report, fmt.Errorf("loading sponsor accounts: %w", err)
	}

	c.debug("loaded sponsor accounts", map[string]interface{}{"count": len(users)})

	if !opts.Confirm {
		c.printf("confirm not set, so this is a dry run")
	}

	for _, user := range users {
		matched, err := c.matches(ctx, user, opts)
		if err != nil {
			return report, err
		}

		if !matched {
			report.Skipped++

			continue
		}

		err = c.process(ctx, user, opts, report)
		if err != nil {
			return report, err
		}

		report.Processed++

		if opts.Limit > 0 && report.Processed >= opts.Limit {
			break
		}
	}

	if opts.Confirm {
		c.printf("total %d accounts deleted", report.DeletedUsers)
	} else {
		c.printf("total %d accounts would be deleted", report.Processed-report.Kept)
	}

	return report, nil
}

func (c *Cleaner) matches(ctx context.Context, user ise.Record, opts Options) (bool, error) {
	if opts.UsernamePattern != nil && !opts.UsernamePattern.MatchString(field(nameField, user)) {
		return false, nil
	}

	if opts.EmailPattern == nil {
		return true, nil
	}

	id, err := recordID(user)
	if err != nil {
		return false, fmt.Errorf("loading guest user %s: %w", field(nameField, user), err)
	}

	detail, err := c.sponsor.Get(ctx, constants.ERSGuestUserPath+url.PathEscape(id))
	if err != nil {
		return false, fmt.Errorf("loading guest user %s: %w", field(nameField, user), err)
	}

	return opts.EmailPattern.MatchString(field(emailField, detail)), nil
}

func (c *Cleaner) process(ctx context.Context, user ise.Record, opts Options, report *Report) error {
	name := field(nameField, user)

	var userID string

	if opts.Confirm {
		id, err := recordID(user)
		if err != nil {
			return fmt.Errorf("guest user %s: %w", name, err)
		}

		userID = id
	}

	c.printf("---------")
	c.printf("process user: %s", name)

	endpoints, err := c.admin.FetchAll(ctx, endpointQuery(name))
	if err != nil {
		return fmt.Errorf("listing endpoints of %s: %w", name, err)
	}

	for _, endpoint := range endpoints {
		endpointName, endpointID := field(nameField, endpoint), field(idField, endpoint)

		if !opts.Confirm || !opts.IncludeEndpoints {
			c.printf("would delete related endpoint %s %s", endpointName, endpointID)

			continue
		}

		if endpointID == "" {
			return fmt.Errorf("endpoint %s of %s: %w", endpointName, name, ise.ErrMissingIdentifier)
		}

		err = c.admin.Delete(ctx, constants.ERSEndpointPath+url.PathEscape(endpointID))
		if err != nil {
			return fmt.Errorf("deleting endpoint %s of %s: %w", endpointID, name, err)
		}

		report.DeletedEndpoints++
		c.printf("delete related endpoint %s %s", endpointName, endpointID)
	}

	hasEndpoints := len(endpoints) > 0

	switch {
	case hasEndpoints && !opts.IncludeEndpoints:
		report.Kept++
		c.printf("would delete guest user %s, but endpoints found", name)

		return nil
	case !opts.Confirm && hasEndpoints:
		c.printf("would delete guest user %s (with endpoints)", name)

		return nil
	case !opts.Confirm:
		c.printf("would delete guest user %s", name)

		return nil
	}

	err = c.sponsor.Delete(ctx, constants.ERSGuestUserPath+url.PathEscape(userID))
	if err != nil {
		return fmt.Errorf("deleting guest user %s: %w", name, err)
	}

	report.DeletedUsers++

	if hasEndpoints {
		c.printf("delete guest user %s (with endpoints)", name)
	} else {
		c.printf("delete guest user %s", name)
	}

	return nil
}

func (c *Cleaner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Cleaner) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

// guestUserQuery builds the guest user listing path for the given filters.
func guestUserQuery(filters []string) string {
	if len(filters) == 0 {
		return "guestuser"
	}

	query := url.Values{"filter": filters}
	query.Set("size", strconv.Itoa(constants.ERSDefaultPageSize))

	return "guestuser?" + query.Encode()
}

// endpointQuery lists the endpoints registered by a portal user.
func endpointQuery(portalUser string) string {
	query := url.Values{}
	query.Set("filter", "portalUser.EQ."+portalUser)
	query.Set("page", strconv.Itoa(constants.ERSFirstPage))
	query.Set("size", strconv.Itoa(constants.ERSDefaultPageSize))

	return "endpoint?" + query.Encode()
}

// field returns the string form of a JMESPath lookup, or "" when absent.
// recordID returns the ERS id of record; an empty id would address the collection itself.
func recordID(record ise.Record) (string, error) {
	id := field(idField, record)
	if id == "" {
		return "", ise.ErrMissingIdentifier
	}

	return id, nil
}

func field(expression *jmespath.JMESPath, record ise.Record) string {
	value, err := expression.Search(record)
	if err != nil || value == nil {
		return ""
	}

	if text, ok := value.(string); ok {
		return text
	}

	return fmt.Sprint(value)
}
