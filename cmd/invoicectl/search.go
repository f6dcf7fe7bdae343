package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"invoicedash/internal/client"
	"invoicedash/internal/model"
	"invoicedash/internal/query"
	"invoicedash/internal/search"
	"invoicedash/internal/viewcache"
)

type invoiceLister interface {
	ListInvoices(ctx context.Context, q model.QueryState) (*client.ListResponse, error)
}

// runSearch treats every input line as the current contents of the search
// box. Debounced navigations trigger a fetch; a fetch result is printed only
// if it still answers the latest navigation.
func runSearch(ctx context.Context, api invoiceLister, in io.Reader, out io.Writer, wait time.Duration, log *zap.Logger) error {
	var (
		latest search.Latest[*client.ListResponse]
		wg     conc.WaitGroup
		outMu  sync.Mutex
	)

	nav := search.NavigatorFunc(func(path string, params url.Values) {
		state := query.Plan(query.ParamsFromValues(params))
		ticket := latest.Begin(state.Key())
		log.Debug("search_navigate", zap.String("path", path), zap.String("params", params.Encode()))

		wg.Go(func() {
			res, err := api.ListInvoices(ctx, state)
			if err != nil {
				log.Warn("search_fetch_failed", zap.String("query", state.SearchTerm), zap.Error(err))
				return
			}
			if !latest.Offer(ticket, res) {
				log.Debug("search_result_dropped", zap.String("query", state.SearchTerm))
				return
			}
			outMu.Lock()
			defer outMu.Unlock()
			fmt.Fprintf(out, "query %q\n", state.SearchTerm)
			if err := renderPage(out, res); err != nil {
				log.Warn("search_render_failed", zap.Error(err))
			}
		})
	})

	syncer := search.NewSynchronizer(viewcache.InvoicesList, url.Values{}, nav, search.WithWait(wait))
	// Every return drops the pending navigation and waits for started
	// fetches, so nothing writes to out after runSearch returns.
	defer func() {
		syncer.Close()
		wg.Wait()
	}()

	lines := bufio.NewScanner(in)
	for lines.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		syncer.Keystroke(lines.Text())
	}
	if err := lines.Err(); err != nil {
		return err
	}

	// Let the last keystroke settle before collecting in-flight fetches.
	select {
	case <-time.After(wait + wait/2):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
