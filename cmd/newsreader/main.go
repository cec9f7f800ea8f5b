package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/Adda-Baaj/newsreader/internal/app"
	"github.com/Adda-Baaj/newsreader/internal/config"
	"github.com/Adda-Baaj/newsreader/internal/logger"
	"github.com/Adda-Baaj/newsreader/internal/version"
)

// unknownCommandError is returned when the first argument names no command.
type unknownCommandError struct {
	name string
}

func (e *unknownCommandError) Error() string {
	return "Unknown command: " + e.name + "\nRun 'newsreader help' for usage information."
}

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		var noNews *app.NoNewsError
		var unknown *unknownCommandError
		switch {
		case errors.As(err, &noNews), errors.As(err, &unknown):
			fmt.Fprintln(os.Stderr, err)
		default:
			fmt.Fprintf(os.Stderr, "newsreader: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newCommand(stdout, stderr).Run(ctx, args)
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "newsreader",
		Usage:     "Read the latest headlines from RSS feeds",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Display version information",
				Action: func(_ context.Context, _ *cli.Command) error {
					fmt.Fprintln(stdout, version.String())
					return nil
				},
			},
			{
				Name:  "news",
				Usage: "Display the latest news from a feed",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: app.DefaultCount, Usage: "number of items to show"},
					&cli.StringFlag{Name: "feed", Usage: "feed id (see 'newsreader feeds'); defaults to FEED_ID"},
					&cli.BoolFlag{Name: "enrich", Usage: "fill missing titles and descriptions from the article pages"},
					&cli.BoolFlag{Name: "publish", Usage: "send every item to the sinks of PUBLISHERS_FILE"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withNewsReader(stdout, stderr, func(n *app.NewsReader) error {
						return n.News(ctx, app.NewsOptions{
							Count:   c.Int("count"),
							FeedID:  c.String("feed"),
							Enrich:  c.Bool("enrich"),
							Publish: c.Bool("publish"),
						})
					})
				},
			},
			{
				Name:  "feeds",
				Usage: "List the available feeds",
				Action: func(_ context.Context, _ *cli.Command) error {
					return withNewsReader(stdout, stderr, func(n *app.NewsReader) error {
						tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
						for _, f := range n.Feeds() {
							fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, f.Name, f.URL)
						}
						return tw.Flush()
					})
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return &unknownCommandError{name: c.Args().First()}
			}
			return cli.ShowAppHelp(c)
		},
	}
}

// withNewsReader loads config and logging, then hands a ready runtime to fn.
func withNewsReader(stdout, stderr io.Writer, fn func(*app.NewsReader) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.InitWriter(cfg, stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("newsreader starting", "config", cfg)

	n, err := app.NewNewsReader(cfg, log, stdout, stderr)
	if err != nil {
		logger.ErrorObj("failed to initialize newsreader", "error", err)
		return err
	}
	return fn(n)
}
