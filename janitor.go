package chimpmock

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Summary struct {
	Archived int
	Failed   int
}

// UnsubscribedIDs collects the IDs of every unsubscribed member.
func (c *Client) UnsubscribedIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := c.FetchUnsubscribed(ctx, func(m Member) error {
		ids = append(ids, m.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ArchiveUnsubscribed archives every unsubscribed member. All IDs are collected
// before the first archive request because list pagination shifts as members
// leave it. At most maxConcurrency requests are in flight; a failed member does
// not stop the rest. fn, if set, sees every outcome and is never called
// concurrently.
func (c *Client) ArchiveUnsubscribed(ctx context.Context, fn func(id string, err error)) (Summary, error) {
	var summary Summary

	ids, err := c.UnsubscribedIDs(ctx)
	if err != nil {
		return summary, err
	}

	c.logger.Info("Archiving unsubscribed members", LogContext{
		"count":       len(ids),
		"concurrency": c.maxConcurrency,
	})

	var (
		mu sync.Mutex
		eg errgroup.Group
	)
	eg.SetLimit(c.maxConcurrency)

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		id := id
		eg.Go(func() error {
			err := c.ArchiveMember(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				c.logger.Error("Failed to archive member", LogContext{"id": id, "err": err})
			} else {
				summary.Archived++
			}
			if fn != nil {
				fn(id, err)
			}

			return nil
		})
	}

	_ = eg.Wait()

	return summary, ctx.Err()
}
