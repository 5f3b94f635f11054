package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wrapped/internal/chatdb"
	"wrapped/internal/config"
	"wrapped/internal/contacts"
	"wrapped/internal/report"
	"wrapped/internal/stats"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"

	jsonOutput  bool
	csvFlag     string
	dbFlag      string
	contactsDir string
)

// csvAuto is what a bare --csv resolves to before the year-stamped default
// name is substituted.
const csvAuto = "auto"

func main() {
	rootCmd := &cobra.Command{
		Use:   "wrapped [year]",
		Short: "Your iMessage year in review",
		Long: `Wrapped reads your local Messages database (read-only) and prints a
year-in-review report: message volumes, tapback statistics, top contacts,
and service breakdown. Defaults to last year when no year is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	rootCmd.Flags().StringVar(&csvFlag, "csv", "", "Export the report as CSV (use --csv=FILE to pick the name)")
	rootCmd.Flags().Lookup("csv").NoOptDefVal = csvAuto
	rootCmd.Flags().StringVar(&dbFlag, "db", "", "Path to chat.db (default: ~/Library/Messages/chat.db)")
	rootCmd.Flags().StringVar(&contactsDir, "contacts-dir", "", "Path to the AddressBook directory")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    buildDate,
				})
			} else {
				fmt.Printf("wrapped %s (%s, %s)\n", version, commit, buildDate)
			}
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	now := time.Now()

	fc, err := config.LoadFile()
	if err != nil {
		return err
	}

	cfg := config.Config{Year: config.ResolveYear(args, now)}
	cfg.ChatDBPath, cfg.ContactStorePaths = config.Resolve(fc, dbFlag, contactsDir)
	switch csvFlag {
	case "":
	case csvAuto:
		cfg.CSVPath = report.DefaultCSVName(cfg.Year)
	default:
		cfg.CSVPath = csvFlag
	}

	db, err := chatdb.Open(cfg.ChatDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver := contacts.NewResolver(cfg.ContactStorePaths)
	defer resolver.Close()

	summary, err := stats.Run(db, resolver, chatdb.WindowForYear(cfg.Year))
	if err != nil {
		return err
	}

	// An empty year is a normal outcome: print the notice, write nothing,
	// exit zero.
	if summary.NoData {
		if jsonOutput {
			printJSON(map[string]any{"ok": true, "year": cfg.Year, "no_data": true})
		} else {
			fmt.Println(report.NoDataMessage(cfg.Year))
		}
		return nil
	}

	entries := report.Build(summary)

	if jsonOutput {
		printJSON(entries)
	} else {
		report.Render(os.Stdout, summary, cfg.ChatDBPath, now)
	}

	if cfg.CSVPath != "" {
		if err := report.WriteCSV(cfg.CSVPath, entries); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Printf("📄 Exported %d rows to %s\n", len(entries), cfg.CSVPath)
		}
	}

	return nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
