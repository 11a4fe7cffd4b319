package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/journal"
	"github.com/spf13/cobra"
)

var viewDate string

// monthCmd prints a month grid
var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Print the month calendar with entry markers",
	Long: `Print the Monday-first grid of a month.

Today is shown in brackets, days with entries carry a '*', days of the
adjacent months are shown in parentheses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonth(cmd.Context(), cmd.OutOrStdout())
	},
}

// statsCmd prints month statistics
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print month statistics and the current streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd.Context(), cmd.OutOrStdout())
	},
}

// dayCmd lists the entries of one day
var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "List the entries of a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDay(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	for _, c := range []*cobra.Command{monthCmd, statsCmd, dayCmd} {
		c.Flags().StringVar(&viewDate, config.FlagDate, "", config.FlagDescDate)
	}
}

// viewContext snapshots the clock once and resolves the reference date of
// a view command.
func viewContext() (calendar.Options, calendar.Date, error) {
	tr, err := translator()
	if err != nil {
		return calendar.Options{}, calendar.Date{}, err
	}
	opts := calendar.New(tr).Options()
	if viewDate == "" {
		return opts, opts.Today, nil
	}
	d, err := calendar.ParseDate(viewDate)
	if err != nil {
		return calendar.Options{}, calendar.Date{}, err
	}
	return opts, d, nil
}

func runMonth(ctx context.Context, w io.Writer) error {
	opts, ref, err := viewContext()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	from := ref.StartOfMonth().StartOfWeek().StartOfMonth()
	entries, err := store.Range(ctx, from, ref.EndOfMonth().EndOfWeek())
	if err != nil {
		return err
	}

	m := calendar.CreateMonth(ref, entries, opts)
	writeMonth(w, m, opts.Names)

	stats := calendar.MonthStats(m, entries)
	_, err = fmt.Fprintf(w, "\n%d/%d (%d%%)\n", stats.DaysWithEntries, stats.TotalDays, stats.CompletionRate)
	return err
}

// writeMonth renders the grid as fixed-width text.
func writeMonth(w io.Writer, m calendar.Month, names calendar.Names) {
	var b strings.Builder
	b.WriteString(m.MonthName)
	b.WriteByte('\n')
	for _, wd := range calendar.WeekdayNames(names) {
		fmt.Fprintf(&b, " %-4s", wd)
	}
	b.WriteByte('\n')

	for _, week := range m.Weeks {
		for _, day := range week {
			b.WriteString(formatCell(day))
		}
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(w, b.String())
}

func formatCell(day calendar.Day) string {
	mark := " "
	if day.HasEntry {
		mark = "*"
	}
	switch calendar.DayStyle(day) {
	case calendar.StyleToday:
		return fmt.Sprintf("[%2d]%s", day.DayNumber, mark)
	case calendar.StyleDimmed:
		return fmt.Sprintf("(%2d) ", day.DayNumber)
	default:
		if !day.IsCurrentMonth {
			return fmt.Sprintf("(%2d)%s", day.DayNumber, mark)
		}
		return fmt.Sprintf(" %2d %s", day.DayNumber, mark)
	}
}

func runStats(ctx context.Context, w io.Writer) error {
	opts, ref, err := viewContext()
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

	m := calendar.CreateMonth(ref, entries, opts)
	stats := calendar.MonthStats(m, entries)

	_, err = fmt.Fprintf(w, "%s\nentries: %d\ndays with entries: %d/%d\ncompletion: %d%%\nstreak: %d\n",
		m.MonthName,
		stats.TotalEntries,
		stats.DaysWithEntries, stats.TotalDays,
		stats.CompletionRate,
		calendar.Streak(entries, opts.Today),
	)
	return err
}

func runDay(ctx context.Context, w io.Writer) error {
	opts, d, err := viewContext()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Range(ctx, d, d)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s (%s)\n", calendar.RelativeLabel(d, opts.Today, opts.Names), d); err != nil {
		return err
	}
	for _, e := range entries {
		writeEntry(w, e)
	}
	return nil
}

func writeEntry(w io.Writer, e journal.Entry) {
	title := e.Title
	if title == "" {
		title = e.ID
	}
	if e.Mood != config.NoMood {
		title = fmt.Sprintf("%s [%d/%d]", title, e.Mood, config.MaxMood)
	}
	_, _ = fmt.Fprintf(w, "\n- %s\n  %s\n", title, strings.ReplaceAll(e.Content, "\n", "\n  "))
}
