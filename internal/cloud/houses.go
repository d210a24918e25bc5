package cloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hallgate/augustlink/internal/activity"
)

// House is one entry from the account house list.
type House struct {
	HouseID   string `json:"HouseID"`
	HouseName string `json:"HouseName"`
}

// GetHouses fetches the account's house list. Houses scope the
// activity feed; every device belongs to exactly one.
func (c *Client) GetHouses(ctx context.Context) ([]House, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var houses []House
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&houses).
		Get("/users/houses/mine")
	if err != nil {
		return nil, fmt.Errorf("get houses: %w", err)
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}
	return houses, nil
}

// GetHouseActivities fetches the most recent activity feed entries for
// one house, newest first. Entries whose action is unrecognised are
// dropped during parsing.
func (c *Client) GetHouseActivities(ctx context.Context, houseID string, limit int) ([]activity.Activity, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/houses/" + houseID + "/activities")
	if err != nil {
		return nil, fmt.Errorf("get activities for house %s: %w", houseID, err)
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}
	return activity.ParseFeed(resp.Body())
}
