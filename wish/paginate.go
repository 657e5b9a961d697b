package wish

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the limit sent with every page request
const DefaultPageSize = 50

// ItemDecoder materializes one raw item of a multi-record response.
type ItemDecoder[T any] func(raw gjson.Result) (T, error)

// page is the outcome of fetching one offset
type page[T any] struct {
	items []T
	env   *Envelope
	err   error
}

// Collect fetches every page of a multi-record endpoint and returns all
// items in page order. The first failing page aborts the call and no
// partial result is returned.
func Collect[T any](ctx context.Context, c *Client, method, path string, params Params, decode ItemDecoder[T]) ([]T, error) {
	first := fetchPage(ctx, c, method, path, params, 0, decode)
	if first.err != nil {
		return nil, first.err
	}

	items := first.items
	c.logPage(path, 0, len(first.items), len(items), first.env.HasMore())
	if !first.env.HasMore() {
		return items, nil
	}

	window := c.pageConcurrency
	offset := c.pageSize
	for {
		pages := make([]page[T], window)
		if window == 1 {
			pages[0] = fetchPage(ctx, c, method, path, params, offset, decode)
		} else {
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(window)
			for i := range pages {
				i := i
				start := offset + i*c.pageSize
				g.Go(func() error {
					pages[i] = fetchPage(gctx, c, method, path, params, start, decode)
					// Errors past the final page must not abort the call,
					// so failures are judged in order below.
					return nil
				})
			}
			g.Wait()
		}

		for i, p := range pages {
			if p.err != nil {
				return nil, p.err
			}
			items = append(items, p.items...)
			c.logPage(path, offset+i*c.pageSize, len(p.items), len(items), p.env.HasMore())
			if !p.env.HasMore() {
				return items, nil
			}
		}
		offset += window * c.pageSize
	}
}

func fetchPage[T any](ctx context.Context, c *Client, method, path string, base Params, start int, decode ItemDecoder[T]) page[T] {
	params := make(Params, len(base)+2)
	for k, v := range base {
		params[k] = v
	}
	params["start"] = strconv.Itoa(start)
	params["limit"] = strconv.Itoa(c.pageSize)

	env, err := c.Do(ctx, method, path, params)
	if err != nil {
		return page[T]{err: err}
	}

	data := env.DataResult()
	if !data.Exists() || data.Type == gjson.Null {
		return page[T]{env: env}
	}
	if !data.IsArray() {
		return page[T]{err: newError(KindDecode, fmt.Sprintf("expected a list at offset %d", start), env.Request, env, nil)}
	}

	raw := data.Array()
	items := make([]T, 0, len(raw))
	for i, r := range raw {
		item, err := decode(r)
		if err != nil {
			return page[T]{err: newError(KindDecode, fmt.Sprintf("item %d at offset %d: %v", i, start, err), env.Request, env, err)}
		}
		items = append(items, item)
	}

	return page[T]{items: items, env: env}
}

func (c *Client) logPage(path string, offset, count, total int, hasNext bool) {
	c.logger.Debug().
		Str("path", path).
		Int("offset", offset).
		Int("count", count).
		Int("total", total).
		Bool("has_next", hasNext).
		Msg("Retrieved page from Wish")
}
