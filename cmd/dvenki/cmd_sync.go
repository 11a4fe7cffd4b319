package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/export"
	"github.com/dvenki/dvenki/internal/remote"
	"github.com/spf13/cobra"
)

var (
	importURL     string
	importKey     string
	importSaveKey bool

	exportOut     string
	exportPrivate bool
)

// importCmd pulls entries from the hosted data API
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import entries from the hosted data API",
	Long: `Download entry rows from the hosted data API and store them locally.

The API key is read from --key or from the OS keyring (service
com.github.dvenki.dvenki, account DVENKI_API_USER). Use --save-key to store
the given key for later runs. Rows with an unparseable entry_date are
skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), cmd.OutOrStdout())
	},
}

// exportCmd writes the iCalendar feed
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries as an iCalendar file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	importCmd.Flags().StringVar(&importURL, config.FlagURL, "", config.FlagDescURL)
	importCmd.Flags().StringVar(&importKey, config.FlagKey, "", config.FlagDescKey)
	importCmd.Flags().BoolVar(&importSaveKey, config.FlagSaveKey, false, config.FlagDescSaveKey)

	exportCmd.Flags().StringVar(&exportOut, config.FlagOut, "", config.FlagDescOut)
	exportCmd.Flags().BoolVar(&exportPrivate, config.FlagPrivate, false, config.FlagDescPrivate)
}

func runImport(ctx context.Context, w io.Writer) error {
	url := importURL
	if url == "" {
		url = settings.APIURL
	}

	keys := remote.NewKeyStore()
	if importSaveKey {
		if err := keys.Set(settings.APIUser, importKey); err != nil {
			return err
		}
	}
	key, err := keys.Resolve(settings.APIUser, importKey)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	im := &remote.Importer{Fetcher: remote.NewHTTPFetcher(), Store: store}
	n, err := im.Import(ctx, url, key)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, n)
	return err
}

func runExport(ctx context.Context, w io.Writer) error {
	tr, err := translator()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.All(ctx)
	if err != nil {
		return err
	}

	gen := &export.Generator{Clock: calendar.RealClock{}, FormatSummary: tr.EntrySummary}
	data, _, err := gen.Render(ctx, entries, export.Options{
		IncludePrivate:  exportPrivate,
		ReminderTrigger: settings.Reminder,
	})
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}
