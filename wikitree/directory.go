package wikitree

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lineakit/bridgefinder/person"
)

// profileFields is the field list requested for full profiles; "*" returns
// everything the session is allowed to see.
const profileFields = "*"

// SearchPerson searches the directory by name and birth year. Results are
// summaries; fetch the full profile for scoring.
func (c *Client) SearchPerson(ctx context.Context, criteria person.SearchCriteria) ([]person.Record, error) {
	params := url.Values{}
	params.Set("FirstName", criteria.FirstName)
	params.Set("LastName", criteria.LastName)
	if criteria.BirthYear > 0 {
		params.Set("BirthDate", strconv.Itoa(criteria.BirthYear))
	}
	if criteria.Limit > 0 {
		params.Set("limit", strconv.Itoa(criteria.Limit))
	}

	body, err := c.post(ctx, "searchPerson", params)
	if err != nil {
		return nil, err
	}

	var env []struct {
		Matches []apiPerson `json:"matches"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env) == 0 {
		return nil, nil
	}

	records := make([]person.Record, 0, len(env[0].Matches))
	for _, m := range env[0].Matches {
		records = append(records, m.record())
	}
	return records, nil
}

// Profile fetches the full field set for one profile by key or numeric ID.
func (c *Client) Profile(ctx context.Context, key string) (person.Record, error) {
	params := url.Values{}
	params.Set("key", key)
	params.Set("fields", profileFields)
	params.Set("resolveRedirect", "1")

	body, err := c.post(ctx, "getProfile", params)
	if err != nil {
		return person.Record{}, err
	}

	var env []struct {
		Profile *apiPerson `json:"profile"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env) == 0 || env[0].Profile == nil {
		return person.Record{}, fmt.Errorf("profile %s: %w", key, person.ErrProfileNotFound)
	}
	return env[0].Profile.record(), nil
}

// Relatives fetches all four relative categories for one profile. Missing
// or oddly shaped categories come back empty, never as an error.
func (c *Client) Relatives(ctx context.Context, key string) (person.RelativeSet, error) {
	params := url.Values{}
	params.Set("keys", key)
	params.Set("getParents", "1")
	params.Set("getChildren", "1")
	params.Set("getSpouses", "1")
	params.Set("getSiblings", "1")

	body, err := c.post(ctx, "getRelatives", params)
	if err != nil {
		return person.RelativeSet{}, err
	}

	var env []struct {
		Items []struct {
			Person *apiPerson `json:"person"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env) == 0 ||
		len(env[0].Items) == 0 || env[0].Items[0].Person == nil {
		return person.RelativeSet{}, nil
	}
	return env[0].Items[0].Person.relatives(), nil
}

// Ancestors fetches up to depth generations of ancestors of one profile.
func (c *Client) Ancestors(ctx context.Context, key string, depth int) ([]person.Record, error) {
	params := url.Values{}
	params.Set("key", key)
	params.Set("depth", strconv.Itoa(depth))
	params.Set("fields", profileFields)

	body, err := c.post(ctx, "getAncestors", params)
	if err != nil {
		return nil, err
	}

	var env []struct {
		Ancestors []apiPerson `json:"ancestors"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env) == 0 {
		return nil, nil
	}

	records := make([]person.Record, 0, len(env[0].Ancestors))
	for _, a := range env[0].Ancestors {
		records = append(records, a.record())
	}
	return records, nil
}

// Watchlist fetches profiles on the logged-in member's watchlist.
func (c *Client) Watchlist(ctx context.Context, limit int) ([]person.Record, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	params.Set("getPerson", "1")
	params.Set("fields", profileFields)

	body, err := c.post(ctx, "getWatchlist", params)
	if err != nil {
		return nil, err
	}

	var env []struct {
		Watchlist []apiPerson `json:"watchlist"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env) == 0 {
		return nil, nil
	}

	records := make([]person.Record, 0, len(env[0].Watchlist))
	for _, w := range env[0].Watchlist {
		records = append(records, w.record())
	}
	return records, nil
}
