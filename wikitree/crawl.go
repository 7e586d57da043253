package wikitree

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"github.com/lineakit/bridgefinder/person"
)

// crawlBatch is how many keys go into one getPeople request.
const crawlBatch = 50

// CrawlTree walks the tree breadth-first from a root profile, following
// parent links, until maxPeople profiles are collected or the frontier is
// exhausted. Each getPeople call also pulls the nuclear family of the
// requested keys, so siblings and spouses of ancestors land in the dataset
// too.
func (c *Client) CrawlTree(ctx context.Context, root string, maxPeople int) ([]person.Record, error) {
	seen := make(map[string]person.Record)
	queued := make(map[string]bool)
	queue := []string{root}
	queued[root] = true

	for len(queue) > 0 && len(seen) < maxPeople {
		n := len(queue)
		if n > crawlBatch {
			n = crawlBatch
		}
		batch := queue[:n]
		queue = queue[n:]

		people, err := c.getPeople(ctx, batch)
		if err != nil {
			return nil, err
		}
		c.logger.DebugContext(ctx, "crawl batch", "requested", len(batch), "returned", len(people), "total", len(seen))

		for _, ap := range people {
			rec := ap.record()
			if rec.ID == "" {
				continue
			}
			if _, ok := seen[rec.ID]; ok {
				continue
			}
			seen[rec.ID] = rec
			if len(seen) >= maxPeople {
				break
			}
			for _, parent := range []string{rec.Father, rec.Mother} {
				if parent != "" && parent != "0" && !queued[parent] {
					queued[parent] = true
					queue = append(queue, parent)
				}
			}
		}
	}

	records := make([]person.Record, 0, len(seen))
	for _, rec := range seen {
		records = append(records, rec)
	}
	// Map iteration order is random; crawls must be reproducible.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (c *Client) getPeople(ctx context.Context, keys []string) ([]apiPerson, error) {
	params := url.Values{}
	params.Set("keys", strings.Join(keys, ","))
	params.Set("nuclear", "1")
	params.Set("fields", profileFields)

	body, err := c.post(ctx, "getPeople", params)
	if err != nil {
		return nil, err
	}

	var env []struct {
		People map[string]apiPerson `json:"people"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(env[0].People))
	for id := range env[0].People {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	people := make([]apiPerson, 0, len(ids))
	for _, id := range ids {
		people = append(people, env[0].People[id])
	}
	return people, nil
}
