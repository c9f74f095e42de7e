package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ShroXd/chimpmock"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const usage = `Archives unsubscribed users from a Mailchimp list.

Usage:
  janitor [flags] list
  janitor [flags] archive

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "janitor:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fset := flag.NewFlagSet("janitor", flag.ContinueOnError)
	fset.Usage = func() {
		fmt.Fprint(fset.Output(), usage)
		fset.PrintDefaults()
	}

	apiKey := fset.String("api-key", os.Getenv("MAILCHIMP_API_KEY"), "Mailchimp API key (MAILCHIMP_API_KEY)")
	baseURL := fset.String("base-url", os.Getenv("MAILCHIMP_BASE_URL"), "API base URL, e.g. https://us2.api.mailchimp.com (MAILCHIMP_BASE_URL)")
	listID := fset.String("list-id", os.Getenv("MAILCHIMP_LIST_ID"), "list to clean up (MAILCHIMP_LIST_ID)")
	concurrency := fset.Int("concurrency", 8, "archive requests in flight")
	verbose := fset.Bool("v", false, "log debug output")
	if err := fset.Parse(args); err != nil {
		return err
	}

	if fset.NArg() != 1 {
		fset.Usage()
		return fmt.Errorf("expected exactly one command, got %d", fset.NArg())
	}
	for name, v := range map[string]string{"api-key": *apiKey, "base-url": *baseURL, "list-id": *listID} {
		if v == "" {
			return fmt.Errorf("missing -%s", name)
		}
	}

	level := chimpmock.WarnLevel
	if *verbose {
		level = chimpmock.DebugLevel
	}
	logger, err := chimpmock.NewLogger(&chimpmock.LoggerConfig{
		ID:           uuid.NewString(),
		Name:         "janitor",
		ConsoleLevel: level,
	}, chimpmock.FileSystem{})
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := chimpmock.NewClient(*baseURL, *listID, *apiKey,
		chimpmock.WithMaxConcurrency(*concurrency),
		chimpmock.WithClientLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := message.NewPrinter(language.English)

	switch cmd := fset.Arg(0); cmd {
	case "list":
		return list(ctx, client, out, p)
	case "archive":
		return archive(ctx, client, out, p)
	default:
		fset.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func list(ctx context.Context, client *chimpmock.Client, out io.Writer, p *message.Printer) error {
	fmt.Fprintln(out, "id,email_address,full_name")

	n := 0
	err := client.FetchUnsubscribed(ctx, func(m chimpmock.Member) error {
		n++
		_, err := fmt.Fprintf(out, "%s,%s,%q\n", m.ID, m.EmailAddress, m.FullName)
		return err
	})
	if err != nil {
		return err
	}

	p.Fprintf(os.Stderr, "%d unsubscribed members\n", n)
	return nil
}

func archive(ctx context.Context, client *chimpmock.Client, out io.Writer, p *message.Printer) error {
	summary, err := client.ArchiveUnsubscribed(ctx, func(id string, err error) {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Fprintf(out, "Archived user with id %s\n", id)
	})

	p.Fprintf(out, "Archived %d members, %d failed\n", summary.Archived, summary.Failed)
	return err
}
