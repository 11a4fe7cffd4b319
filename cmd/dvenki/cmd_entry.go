package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/journal"
	"github.com/spf13/cobra"
)

var addParams struct {
	date      string
	title     string
	content   string
	mood      int
	journal   string
	published bool
}

// addCmd records a new entry
var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a journal entry",
	Long: `Add a journal entry dated today, or on --date.

The content is taken from --content or from the first argument.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && addParams.content == "" {
			addParams.content = args[0]
		}
		return runAdd(cmd.Context(), cmd.OutOrStdout())
	},
}

// deleteCmd removes an entry by id
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd.Context(), args[0])
	},
}

func init() {
	addCmd.Flags().StringVar(&addParams.date, config.FlagDate, "", config.FlagDescDate)
	addCmd.Flags().StringVar(&addParams.title, config.FlagTitle, "", config.FlagDescTitle)
	addCmd.Flags().StringVar(&addParams.content, config.FlagContent, "", config.FlagDescContent)
	addCmd.Flags().IntVar(&addParams.mood, config.FlagMood, config.NoMood, config.FlagDescMood)
	addCmd.Flags().StringVar(&addParams.journal, config.FlagJournal, config.DefaultJournal, config.FlagDescJournal)
	addCmd.Flags().BoolVar(&addParams.published, config.FlagPublished, false, config.FlagDescPublished)
}

func runAdd(ctx context.Context, w io.Writer) error {
	p := journal.NewEntryParams{
		JournalID: addParams.journal,
		UserID:    settings.APIUser,
		Title:     addParams.title,
		Content:   addParams.content,
		Mood:      addParams.mood,
		Published: addParams.published,
	}
	if addParams.date != "" {
		d, err := calendar.ParseDate(addParams.date)
		if err != nil {
			return err
		}
		p.Date = d
	}

	e, err := journal.NewEntry(p, time.Now())
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Add(ctx, e); err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, e.ID)
	return err
}

func runDelete(ctx context.Context, id string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return store.Delete(ctx, id)
}
