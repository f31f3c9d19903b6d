package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cpdlog/cpdlog/internal/domain"
	"github.com/cpdlog/cpdlog/internal/kvstore"
	"github.com/cpdlog/cpdlog/internal/logstore"
)

func addCmd() *cobra.Command {
	var (
		category   string
		hours      float64
		tags       []string
		reflection string
		voice      bool
	)

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Log a new CPD activity",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			partial := logstore.NewLog{
				Text:             strings.Join(args, " "),
				Category:         domain.Category(category),
				Hours:            hours,
				IsVoiceGenerated: voice,
				Tags:             tags,
				Reflection:       reflection,
			}

			// Validation is a CLI concern; the store trusts its caller.
			if err := domain.Validate(domain.CpdLog{
				Text:     partial.Text,
				Category: partial.Category,
				Hours:    partial.Hours,
			}); err != nil {
				return err
			}

			rec, err := a.store.Add(ctx, partial)
			if err != nil {
				return err
			}

			fmt.Printf("Logged %s: %s (%s, %s)\n",
				shortID(rec.ID), truncate(rec.Text, 60), rec.Category, formatHours(rec.Hours))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "activity category (required): "+categoryList())
	cmd.Flags().Float64Var(&hours, "hours", 0, "hours spent (required)")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "comma-separated tags")
	cmd.Flags().StringVarP(&reflection, "reflection", "r", "", "reflection notes")
	cmd.Flags().BoolVar(&voice, "voice", false, "mark as voice-generated")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("hours")

	return cmd
}

func listCmd() *cobra.Command {
	var (
		category string
		from     string
		to       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged activities, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			var logs []domain.CpdLog
			switch {
			case category != "":
				logs = a.store.ByCategory(domain.Category(category))
			case from != "" || to != "":
				start, end, err := parseDateRange(from, to)
				if err != nil {
					return err
				}
				logs = a.store.ByDateRange(start, end)
			default:
				logs = a.store.Logs()
			}

			if len(logs) == 0 {
				fmt.Println("No activities logged.")
				return nil
			}
			printLogTable(os.Stdout, logs)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD, inclusive)")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one activity in full",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			rec := findLog(a.store.Logs(), args[0])
			if rec == nil {
				return fmt.Errorf("no activity with id %q", args[0])
			}
			printLogDetail(os.Stdout, *rec)
			return nil
		}),
	}
}

func updateCmd() *cobra.Command {
	var (
		text       string
		category   string
		hours      float64
		tags       []string
		reflection string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an existing activity",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			var upd domain.LogUpdate
			if cmd.Flags().Changed("text") {
				upd.Text = &text
			}
			if cmd.Flags().Changed("category") {
				if !domain.ValidCategory(domain.Category(category)) {
					return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
				}
				c := domain.Category(category)
				upd.Category = &c
			}
			if cmd.Flags().Changed("hours") {
				upd.Hours = &hours
			}
			if cmd.Flags().Changed("tags") {
				upd.Tags = &tags
			}
			if cmd.Flags().Changed("reflection") {
				upd.Reflection = &reflection
			}

			rec, err := a.store.Update(ctx, resolveID(a.store, args[0]), upd)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("no activity with id %q", args[0])
			}
			fmt.Printf("Updated %s\n", shortID(rec.ID))
			return nil
		}),
	}

	cmd.Flags().StringVar(&text, "text", "", "activity description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "activity category")
	cmd.Flags().Float64Var(&hours, "hours", 0, "hours spent")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "comma-separated tags")
	cmd.Flags().StringVarP(&reflection, "reflection", "r", "", "reflection notes")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an activity permanently",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			ok, err := a.store.Delete(ctx, resolveID(a.store, args[0]))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no activity with id %q", args[0])
			}
			fmt.Println("Deleted.")
			return nil
		}),
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search activities by text, category, or tag",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			logs := a.store.Search(args[0])
			if len(logs) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			printLogTable(os.Stdout, logs)
			return nil
		}),
	}
}

func statsCmd() *cobra.Command {
	var ops bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress toward the hour requirement",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			printStats(os.Stdout, a.store.Statistics())
			if ops {
				printCounters(os.Stdout, a.counters.Snapshot())
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&ops, "ops", false, "include storage operation counters")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data as JSON",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			data, err := a.store.Export()
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(data)
				return nil
			}
			if err := os.WriteFile(out, []byte(data), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported %d activities to %s\n", a.store.Statistics().TotalActivities, out)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			if err := a.store.Import(ctx, string(data)); err != nil {
				return err
			}
			fmt.Printf("Imported %d activities.\n", a.store.Statistics().TotalActivities)
			return nil
		}),
	}
}

// backupFile is the on-disk shape written by backup and read by restore.
type backupFile struct {
	BackupDate string             `json:"backupDate"`
	Entries    []kvstore.KeyValue `json:"entries"`
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Snapshot every stored key to a file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			keys := a.kv.Keys(ctx)
			bak := backupFile{
				BackupDate: time.Now().UTC().Format(time.RFC3339),
				Entries:    a.kv.MultiGet(ctx, keys),
			}
			data, err := json.MarshalIndent(bak, "", "  ")
			if err != nil {
				return fmt.Errorf("encode backup: %w", err)
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Printf("Backed up %d keys to %s\n", len(bak.Entries), args[0])
			return nil
		}),
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore stored keys from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup file: %w", err)
			}
			var bak backupFile
			if err := json.Unmarshal(data, &bak); err != nil {
				return fmt.Errorf("parse backup file: %w", err)
			}
			if err := a.kv.MultiSet(ctx, bak.Entries); err != nil {
				return fmt.Errorf("restore keys: %w", err)
			}
			fmt.Printf("Restored %d keys from %s\n", len(bak.Entries), args[0])
			return nil
		}),
	}
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every logged activity",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			if err := a.store.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Println("All activities deleted.")
			return nil
		}),
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

// resolveID accepts a full id or an unambiguous short prefix.
func resolveID(store *logstore.Store, id string) string {
	if rec := findLog(store.Logs(), id); rec != nil {
		return rec.ID
	}
	return id
}

// findLog matches a full id or a unique prefix against the collection.
func findLog(logs []domain.CpdLog, id string) *domain.CpdLog {
	var match *domain.CpdLog
	for i := range logs {
		if logs[i].ID == id {
			return &logs[i]
		}
		if strings.HasPrefix(logs[i].ID, id) {
			if match != nil {
				return nil // Ambiguous prefix.
			}
			match = &logs[i]
		}
	}
	return match
}
