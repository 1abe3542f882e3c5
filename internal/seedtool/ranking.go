package seedtool

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/okian/matchledger/internal/domain/types"
	"github.com/okian/matchledger/pkg/logger"
)

// getLeaderboard fetches the top cfg.TopN rows.
func getLeaderboard(ctx context.Context, cfg *Config, c *Client, stats *Stats) ([]types.Entry, error) {
	var entries []types.Entry
	if err := c.Do(ctx, http.MethodGet, "/leaderboard?limit="+strconv.Itoa(cfg.TopN), nil, &entries); err != nil {
		return nil, err
	}
	stats.LeaderboardEntries = len(entries)
	logger.Get().Info(ctx, "leaderboard retrieved", logger.Int("entries", len(entries)))
	return entries, nil
}

// retrievePlayerStats fetches the per-player row for every name
// concurrently. A 404 means the player has no row yet and yields a zero
// Entry; any other failure is returned.
func retrievePlayerStats(ctx context.Context, cfg *Config, c *Client, names []string) ([]types.Entry, error) {
	log := logger.Get()
	log.Info(ctx, "retrieving player stats",
		logger.Int("players", len(names)),
		logger.Int("workers", cfg.Workers))

	out := make([]types.Entry, len(names))
	errs := make([]error, len(names))
	var (
		retrieved int64
		absent    int64
	)

	work := make(chan int, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if ctx.Err() != nil {
					return
				}
				e, err := lookupPlayer(ctx, c, names[i])
				if err != nil {
					errs[i] = err
					if cfg.Verbose {
						log.Warn(ctx, "player lookup failed", logger.String("name", names[i]), logger.Error(err))
					}
					continue
				}
				if e.Rank == 0 {
					atomic.AddInt64(&absent, 1)
				}
				out[i] = e
				atomic.AddInt64(&retrieved, 1)
			}
		}()
	}

	go func() {
		defer close(work)
		for i := range names {
			select {
			case <-ctx.Done():
				return
			case work <- i:
			}
		}
	}()

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info(ctx, "player stats retrieved",
		logger.Int("retrieved", int(atomic.LoadInt64(&retrieved))),
		logger.Int("absent", int(atomic.LoadInt64(&absent))))
	return out, errors.Join(errs...)
}

func lookupPlayer(ctx context.Context, c *Client, name string) (types.Entry, error) {
	var e types.Entry
	err := c.Do(ctx, http.MethodGet, "/leaderboard/"+url.PathEscape(name), nil, &e)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return types.Entry{Name: name}, nil
	}
	return e, err
}
