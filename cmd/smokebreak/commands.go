package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/catalog"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/config"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/journal"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/notify"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/reminder"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/settings"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run a session (interactive TUI by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			itemFlag, _ := cmd.Flags().GetString("item")
			noTUI, _ := cmd.Flags().GetBool("no-tui")

			a, err := openApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			item, err := a.resolveItem(itemFlag)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			registerQuitHandler()

			if noTUI {
				return runSessionHeadless(ctx, a, item, cmd.OutOrStdout())
			}
			return runSessionTUI(ctx, a, item)
		},
	}
	cmd.Flags().String("item", "", "catalog item to use (default: session.item from config)")
	cmd.Flags().Bool("no-tui", false, "run one session without the TUI, printing events")
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the savings ledger",
	}
	cmd.AddCommand(historyListCmd(), historyTotalCmd(), historyClearCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			a, err := openApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer a.Close()
			a.reportWarnings(cmd.ErrOrStderr())

			fmt.Fprint(cmd.OutOrStdout(), formatHistory(a.ledger.Records(), a.ledger.Total(), limit))
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "show at most this many records (0 = all)")
	return cmd
}

func historyTotalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Print the total saved",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer a.Close()
			a.reportWarnings(cmd.ErrOrStderr())

			fmt.Fprintf(cmd.OutOrStdout(), "%s saved over %d sessions\n",
				catalog.FormatMoney(a.ledger.Total()), a.ledger.Len())
			return nil
		},
	}
}

func historyClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded session",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return errors.New("refusing to clear history without --yes")
			}
			a, err := openApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			n := a.ledger.Len()
			if err := a.ledger.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d sessions.\n", n)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "confirm deletion")
	return cmd
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change reminder settings",
	}
	cmd.AddCommand(settingsShowCmd(), settingsSetCmd())
	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show reminder settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer a.Close()
			a.reportWarnings(cmd.ErrOrStderr())

			fmt.Fprint(cmd.OutOrStdout(), formatSettings(a.settings.Get()))
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change reminder settings",
		Long: "Change reminder settings. Only the flags given are changed; the\n" +
			"result is validated as a whole and nothing is saved if it is invalid.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer a.Close()
			a.reportWarnings(cmd.ErrOrStderr())

			prev := a.settings.Get()
			next, err := applySettingsFlags(cmd, prev)
			if err != nil {
				return err
			}
			if err := a.settings.Update(next); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if next.NotificationsEnabled && !prev.NotificationsEnabled {
				if a.notifier.RequestPermission() != notify.PermissionGranted {
					fmt.Fprintln(out, "Notifications are not permitted (notifications.url is not set); reminders will only be journaled.")
				}
			}
			fmt.Fprint(out, formatSettings(a.settings.Get()))
			return nil
		},
	}
	cmd.Flags().String("start", "", "start of the active window (HH:MM)")
	cmd.Flags().String("end", "", "end of the active window (HH:MM)")
	cmd.Flags().Int("interval", 0, fmt.Sprintf("reminder interval in minutes, one of %v", settings.AllowedIntervals))
	cmd.Flags().Bool("notifications", false, "enable reminders (--notifications=false to disable)")
	return cmd
}

// applySettingsFlags returns cfg with every explicitly set flag applied.
func applySettingsFlags(cmd *cobra.Command, cfg settings.Config) (settings.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("start") {
		v, _ := flags.GetString("start")
		t, err := settings.ParseTimeOfDay(v)
		if err != nil {
			return cfg, err
		}
		cfg.ActiveStart = t
	}
	if flags.Changed("end") {
		v, _ := flags.GetString("end")
		t, err := settings.ParseTimeOfDay(v)
		if err != nil {
			return cfg, err
		}
		cfg.ActiveEnd = t
	}
	if flags.Changed("interval") {
		cfg.IntervalMinutes, _ = flags.GetInt("interval")
	}
	if flags.Changed("notifications") {
		cfg.NotificationsEnabled, _ = flags.GetBool("notifications")
	}
	return cfg, nil
}

func remindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Evaluate break reminders",
	}
	cmd.AddCommand(remindCheckCmd(), remindWatchCmd())
	return cmd
}

func remindCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Evaluate reminder conditions once and deliver if due",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer a.Close()
			a.reportWarnings(cmd.ErrOrStderr())

			out := cmd.OutOrStdout()
			if a.ledger.Len() == 0 {
				fmt.Fprintln(out, "No sessions recorded yet; nothing to remind about.")
				return nil
			}
			sched := a.newScheduler(nil, nil)
			r, fired := sched.EvaluateNow()
			if !fired {
				fmt.Fprintln(out, "No reminder due.")
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", reminder.Title, reminder.Body(r))
			return nil
		},
	}
}

func remindWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep evaluating reminders in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()
			return runWatch(ctx, a, cmd.OutOrStdout())
		},
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the items a session can use",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatCatalog(catalog.All(), catalog.DefaultID))
			return nil
		},
	}
}

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List event journals or show one",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}
			paths, err := journal.List(cfg.JournalDir())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintln(out, "No journals yet.")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintln(out, filepath.Base(p))
			}
			return nil
		},
	}
	cmd.AddCommand(journalShowCmd())
	return cmd
}

func journalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print a journal (default: the most recent)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}
			dir := cfg.JournalDir()

			var path string
			if len(args) == 1 {
				path = args[0]
				if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
					path = filepath.Join(dir, path)
				}
			} else {
				paths, err := journal.List(dir)
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					return errors.New("no journals yet")
				}
				path = paths[len(paths)-1]
			}

			entries, err := journal.Read(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintln(out, formatLogLine(e))
			}
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default smokebreak.toml in the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			path, err := config.InitFile(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}
