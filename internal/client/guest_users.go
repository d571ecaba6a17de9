package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jmespath/go-jmespath"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

const guestUserIDExpression = constants.ERSGuestUserKey + ".id"

// FindGuestUserByName looks a guest user up by name. Only a 404 counts as absent.
func (c *ManagementClient) FindGuestUserByName(ctx context.Context, username string) (ise.Record, bool, error) {
	record, err := c.Get(ctx, constants.ERSGuestUserByNamePath+url.PathEscape(username))
	if err != nil {
		if ise.IsNotFound(err) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("looking up guest user %q: %w", username, err)
	}

	return record, true, nil
}

// UpsertGuestUser creates the guest user, or updates it in place when it exists
// and onlyAdd is false.
func (c *ManagementClient) UpsertGuestUser(
	ctx context.Context, params *ise.GuestUserParams, onlyAdd bool,
) (ise.UpsertResult, error) {
	request := params.Request()

	existing, found, err := c.FindGuestUserByName(ctx, params.Username)
	if err != nil {
		return 0, err
	}

	if !found {
		err = c.Create(ctx, constants.ERSGuestUserPath, request)
		if err != nil {
			return 0, fmt.Errorf("creating guest user %q: %w", params.Username, err)
		}

		return ise.UpsertCreated, nil
	}

	if onlyAdd {
		c.logger.Info("guest user exists, not updating", map[string]interface{}{"username": params.Username})

		return ise.UpsertSkipped, nil
	}

	id, err := guestUserID(existing)
	if err != nil {
		return 0, fmt.Errorf("guest user %q: %w", params.Username, err)
	}

	request.GuestUser.ID = id

	err = c.Update(ctx, constants.ERSGuestUserPath+url.PathEscape(id), request)
	if err != nil {
		return 0, fmt.Errorf("updating guest user %q: %w", params.Username, err)
	}

	return ise.UpsertUpdated, nil
}

// DeleteGuestUserByUsername deletes the named guest user and reports whether it existed.
func (c *ManagementClient) DeleteGuestUserByUsername(ctx context.Context, username string) (bool, error) {
	existing, found, err := c.FindGuestUserByName(ctx, username)
	if err != nil || !found {
		return false, err
	}

	id, err := guestUserID(existing)
	if err != nil {
		return false, fmt.Errorf("guest user %q: %w", username, err)
	}

	err = c.Delete(ctx, constants.ERSGuestUserPath+url.PathEscape(id))
	if err != nil {
		return false, fmt.Errorf("deleting guest user %q: %w", username, err)
	}

	return true, nil
}

func guestUserID(record ise.Record) (string, error) {
	value, err := jmespath.Search(guestUserIDExpression, record)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", guestUserIDExpression, err)
	}

	id, ok := value.(string)
	if !ok || id == "" {
		return "", ise.ErrMissingIdentifier
	}

	return id, nil
}
