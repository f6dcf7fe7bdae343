package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"invoicedash/internal/client"
	"invoicedash/internal/config"
	"invoicedash/internal/logger"
	"invoicedash/internal/model"
	"invoicedash/internal/search"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoicectl",
		Usage: "manage invoices through the invoice API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: "http://localhost:8080", EnvVars: []string{"INVOICE_API_URL"}, Usage: "API base URL"},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second, Usage: "per-request timeout"},
			&cli.IntFlag{Name: "retries", Value: 3, Usage: "retries for reads, updates and deletes"},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "print one page of the invoice listing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}},
					&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1},
				},
				Action: func(c *cli.Context) error {
					res, err := apiClient(c).ListInvoices(c.Context, model.QueryState{
						SearchTerm: c.String("query"),
						PageNumber: c.Int("page"),
					})
					if err != nil {
						return err
					}
					return renderPage(c.App.Writer, res)
				},
			},
			{
				Name:  "create",
				Usage: "create an invoice dated today",
				Flags: invoiceFlags(),
				Action: func(c *cli.Context) error {
					res, err := apiClient(c).CreateInvoice(c.Context, invoiceFields(c))
					if err != nil {
						return explain(c, err)
					}
					fmt.Fprintf(c.App.Writer, "created %s (%s)\n", res.ID, res.State)
					return nil
				},
			},
			{
				Name:      "update",
				Usage:     "replace customer, amount and status of an invoice",
				ArgsUsage: "<id>",
				Flags:     invoiceFlags(),
				Action: func(c *cli.Context) error {
					id := c.Args().First()
					if id == "" {
						return cli.Exit("invoice id is required", 2)
					}
					res, err := apiClient(c).UpdateInvoice(c.Context, id, invoiceFields(c))
					if err != nil {
						return explain(c, err)
					}
					fmt.Fprintf(c.App.Writer, "updated %s (%s)\n", id, res.State)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "delete an invoice",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id := c.Args().First()
					if id == "" {
						return cli.Exit("invoice id is required", 2)
					}
					if err := apiClient(c).DeleteInvoice(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "deleted %s\n", id)
					return nil
				},
			},
			{
				Name:  "search",
				Usage: "read search terms from stdin, one keystroke state per line",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "wait", Value: search.DefaultWait, Usage: "debounce window"},
				},
				Action: func(c *cli.Context) error {
					return runSearch(c.Context, apiClient(c), c.App.Reader, c.App.Writer, c.Duration("wait"), cliLogger(c))
				},
			},
		},
	}
}

func invoiceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "customer", Usage: "customer id"},
		&cli.StringFlag{Name: "amount", Usage: "amount in dollars, e.g. 42.50"},
		&cli.StringFlag{Name: "status", Usage: "pending or paid"},
	}
}

func invoiceFields(c *cli.Context) url.Values {
	v := url.Values{}
	for flag, field := range map[string]string{"customer": "customerId", "amount": "amount", "status": "status"} {
		if c.IsSet(flag) {
			v.Set(field, c.String(flag))
		}
	}
	return v
}

func cliLogger(c *cli.Context) *zap.Logger {
	return logger.New(config.LogConfig{Level: c.String("log-level"), Format: "console"})
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("api"), client.Options{
		Timeout:  c.Duration("timeout"),
		RetryMax: c.Int("retries"),
		Logger:   cliLogger(c),
	})
}

// explain prints per-field validation messages before returning err.
func explain(c *cli.Context, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		renderFailures(c.App.ErrWriter, apiErr.Fields)
	}
	return err
}
