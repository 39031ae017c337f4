package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shiftpay/internal/calendar"
	"shiftpay/internal/core"
	"shiftpay/internal/sheets"
	gsheet "shiftpay/internal/sheets/google"
	mem "shiftpay/internal/sheets/memory"
)

func SetupCommands(a *App) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "shiftpay",
		Short:        "Track shifts and meal expenses and work out monthly pay",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := os.Setenv("SHIFTPAY_CONFIG", configPath); err != nil {
					return err
				}
			}
			return a.open(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: user config dir)")

	// record a work shift
	workCmd := &cobra.Command{
		Use:   "work DATE",
		Short: "Record a work shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			hours, _ := cmd.Flags().GetString("hours")
			meal, _ := cmd.Flags().GetString("meal")
			if err := a.service().SetWork(cmd.Context(), d, core.HoursOrDefault(hours), core.AmountOrDefault(meal)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calendar.RenderDay(a.service().Day(d)))
			return nil
		},
	}
	workCmd.Flags().String("hours", "", "hours worked (default 8)")
	workCmd.Flags().String("meal", "", "meal expense for the day")

	// record a day off
	offCmd := &cobra.Command{
		Use:   "off DATE",
		Short: "Record a day off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			meal, _ := cmd.Flags().GetString("meal")
			if err := a.service().SetOff(cmd.Context(), d, core.AmountOrDefault(meal)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calendar.RenderDay(a.service().Day(d)))
			return nil
		},
	}
	offCmd.Flags().String("meal", "", "meal expense for the day")

	clearCmd := &cobra.Command{
		Use:   "clear DATE",
		Short: "Remove the shift and meal expense recorded for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			if err := a.service().ClearDay(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", d)
			return nil
		},
	}

	dayCmd := &cobra.Command{
		Use:   "day [DATE]",
		Short: "Show what is recorded for a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := a.today()
			if len(args) == 1 {
				var err error
				if d, err = a.parseDate(args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), calendar.RenderDay(a.service().Day(d)))
			return nil
		},
	}

	// show or change the hourly rate; non-numeric or non-positive input resets it
	rateCmd := &cobra.Command{
		Use:   "rate [AMOUNT]",
		Short: "Show or set the hourly rate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := a.service().UpdateHourlyRate(cmd.Context(), core.RateOrDefault(args[0])); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Hourly rate: %s\n", core.FormatAmount(a.service().HourlyRate()))
			return nil
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [YYYY-MM]",
		Short: "Show monthly pay with the 20th and 5th split",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := a.monthFromArgs(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calendar.RenderSummary(a.service().Summary(ym)))
			return nil
		},
	}

	calendarCmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Print the month grid with work and off days marked",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := a.monthFromArgs(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calendar.RenderMonth(ym, a.service().Month(ym)))
			return nil
		},
	}

	mealsCmd := &cobra.Command{
		Use:   "meals [YYYY-MM]",
		Short: "List meal expenses and their deductions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := a.monthFromArgs(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calendar.RenderMealReport(a.service().MealReport(ym)))
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [YYYY-MM]",
		Short: "Write a month to Google Sheets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := a.monthFromArgs(cmd, args)
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			exporter, preview, err := a.exporter(cmd, dryRun)
			if err != nil {
				return err
			}
			if err := exporter.ExportMonth(cmd.Context(), ym, a.service().Month(ym), a.service().Summary(ym)); err != nil {
				return err
			}

			title := sheets.SheetTitle(ym, a.cfg.GoogleSheetName)
			if preview != nil {
				rows, _ := preview.Sheet(title)
				printRows(cmd, title, rows)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", title)
			return nil
		},
	}
	exportCmd.Flags().Bool("dry-run", false, "print the rows instead of writing them")

	for _, c := range []*cobra.Command{summaryCmd, calendarCmd, mealsCmd, exportCmd} {
		c.Flags().Bool("prev", false, "use the month before")
		c.Flags().Bool("next", false, "use the month after")
	}

	rootCmd.AddCommand(workCmd, offCmd, clearCmd, dayCmd, rateCmd)
	rootCmd.AddCommand(summaryCmd, calendarCmd, mealsCmd, exportCmd)
	rootCmd.AddCommand(newServeCmd(a), newWorkerCmd(a), newEventsCmd(a))

	return rootCmd
}

// parseDate accepts YYYY-MM-DD or "today".
func (a *App) parseDate(s string) (core.Date, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return a.today(), nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("date must be YYYY-MM-DD or today: %w", err)
	}
	return d, nil
}

// monthFromArgs reads an optional YYYY-MM argument, defaulting to the current
// month, then applies --prev or --next.
func (a *App) monthFromArgs(cmd *cobra.Command, args []string) (core.YearMonth, error) {
	ym := core.CurrentYearMonth(a.now())
	if len(args) == 1 {
		parsed, err := core.ParseYearMonth(args[0])
		if err != nil {
			return core.YearMonth{}, fmt.Errorf("month must be YYYY-MM: %w", err)
		}
		ym = parsed
	}
	if prev, _ := cmd.Flags().GetBool("prev"); prev {
		ym = ym.Prev()
	}
	if next, _ := cmd.Flags().GetBool("next"); next {
		ym = ym.Next()
	}
	return ym, nil
}

// exporter returns the Google exporter, or an in-memory one for a dry run.
func (a *App) exporter(cmd *cobra.Command, dryRun bool) (sheets.MonthExporter, *mem.Store, error) {
	if dryRun {
		store := mem.New(a.cfg.GoogleSheetName)
		return store, store, nil
	}
	if !a.cfg.SheetsEnabled() {
		return nil, nil, fmt.Errorf("google sheets export is not configured; set GOOGLE_SPREADSHEET_ID or use --dry-run")
	}
	exp, err := gsheet.NewExporter(cmd.Context(), a.sheetsOptions())
	if err != nil {
		return nil, nil, err
	}
	return exp, nil, nil
}

func (a *App) sheetsOptions() gsheet.Options {
	return gsheet.Options{
		SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
		SheetName:       a.cfg.GoogleSheetName,
		CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
		CredentialsFile: a.cfg.GoogleServiceAccountFile,
	}
}

func printRows(cmd *cobra.Command, title string, rows [][]interface{}) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = fmt.Sprint(c)
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}
}
