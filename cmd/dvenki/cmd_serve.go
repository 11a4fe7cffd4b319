package main

import (
	"context"
	"log/slog"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/export"
	"github.com/dvenki/dvenki/internal/locale"
	"github.com/dvenki/dvenki/internal/remote"
	"github.com/dvenki/dvenki/internal/server"
	"github.com/dvenki/dvenki/internal/worker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePort    string
	servePrivate bool
)

// serveCmd runs the HTTP server and the feed refresher
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the iCalendar feed and JSON calendar views",
	Long: `Serve the journal over HTTP on localhost.

Routes:
  /calendar.ics   iCalendar feed, re-rendered every refresh interval
  /api/month      month grid (?date=YYYY-MM-DD&lang=ru|en)
  /api/stats      month statistics and current streak
  /api/day        entries of a single day

When DVENKI_API_URL is set, entries are imported from the hosted data API
before every refresh.`,
	Annotations: map[string]string{annotationDaemon: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, config.FlagPort, "", config.FlagDescPort)
	serveCmd.Flags().BoolVar(&servePrivate, config.FlagPrivate, false, config.FlagDescPrivate)
}

func runServe(ctx context.Context) error {
	port := settings.Port
	if servePort != "" {
		port = servePort
	}
	if err := config.ValidatePort(port); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cat, err := locale.Load()
	if err != nil {
		return err
	}
	tr := cat.Translator(settings.Language)

	srv := server.New(port, store, cat)
	refresher := &worker.Refresher{
		Store: store,
		Generator: &export.Generator{
			Clock:         calendar.RealClock{},
			FormatSummary: tr.EntrySummary,
		},
		Publisher: srv,
		Options: export.Options{
			IncludePrivate:  servePrivate,
			ReminderTrigger: settings.Reminder,
		},
		Interval: settings.Refresh,
	}

	if settings.APIURL != "" {
		key, err := remote.NewKeyStore().Resolve(settings.APIUser, "")
		if err != nil {
			slog.Warn(config.MsgRemoteDisabled,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
		} else {
			refresher.Importer = &remote.Importer{Fetcher: remote.NewHTTPFetcher(), Store: store}
			refresher.RemoteURL = settings.APIURL
			refresher.APIKey = key
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return refresher.Run(gctx) })

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return nil
}
