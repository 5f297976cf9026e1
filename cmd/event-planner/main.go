package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"ai-event-planner/internal/metrics"
	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/session"
	"ai-event-planner/internal/storage"
	"ai-event-planner/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

func main() {
	cmd := "tui"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "tui":
		runTUI(args)
	case "plan":
		runPlan(args)
	case "metrics":
		runMetrics(args)
	case "metrics-cleanup":
		runMetricsCleanup(args)
	case "exports":
		runExports(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: event-planner [command] [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  tui               Interactive planner (default)")
	fmt.Println("  plan              Generate a plan from flags and print it")
	fmt.Println("  metrics           Show model usage for the last days")
	fmt.Println("  metrics-cleanup   Remove old metric records")
	fmt.Println("  exports           List saved plans, newest first")
	fmt.Println("\nEvery command accepts --config <file.toml>.")
}

func runTUI(args []string) {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	cfgPath := fs.String("config", "", "TOML configuration file")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	// The terminal belongs to the UI, so logs go to a file.
	log, err := newLogger(cfg, filepath.Join(filepath.Dir(cfg.DatabasePath), "event-planner.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	d, err := buildDeps(context.Background(), cfg, log, cfg.ExportDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	model := ui.New(d.app, session.New(), ui.Options{
		Theme:    cfg.UI.Theme,
		WordWrap: cfg.UI.WordWrap,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "UI error: %v\n", err)
		d.Close()
		os.Exit(1)
	}
}

func runPlan(args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	cfgPath := fs.String("config", "", "TOML configuration file")
	eventType := fs.String("type", "", "Event type, e.g. Picnic")
	guests := fs.String("guests", "", "Guest count")
	budget := fs.String("budget", "", "Budget in USD")
	theme := fs.String("theme", "", "Theme or style")
	duration := fs.String("duration", "", "Duration, e.g. 4 hours")
	special := fs.String("special", "", "Special considerations")
	refine := fs.String("refine", "", "Comma-separated refinements to apply in order: cheaper, checklist, kid-friendly")
	outDir := fs.String("out", "", "Directory to save the plan as markdown")
	fs.Parse(args)

	var brief planner.EventBrief
	values := map[planner.Field]string{
		planner.FieldEventType:             *eventType,
		planner.FieldGuestCount:            *guests,
		planner.FieldBudget:                *budget,
		planner.FieldTheme:                 *theme,
		planner.FieldDuration:              *duration,
		planner.FieldSpecialConsiderations: *special,
	}
	for _, f := range planner.Fields {
		if err := brief.Set(f, values[f]); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid brief: %v\n", err)
			os.Exit(2)
		}
	}

	var refinements []planner.Refinement
	for _, name := range strings.Split(*refine, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		r, err := planner.ParseRefinement(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		refinements = append(refinements, r)
	}

	if err := brief.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	cfg := loadConfig(*cfgPath)
	log, err := newLogger(cfg, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d, err := buildDeps(ctx, cfg, log, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	sess := session.New()
	res := d.app.SubmitBrief(ctx, sess, brief)
	if !res.OK() {
		fmt.Fprintln(os.Stderr, res.Text)
		d.Close()
		os.Exit(1)
	}

	for _, r := range refinements {
		if _, err := d.app.Refine(ctx, sess, r); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			d.Close()
			os.Exit(1)
		}
	}

	display(sess.Plan(), cfg.UI.Theme, cfg.UI.WordWrap)
	if list := sess.Checklist(); !list.Empty() {
		fmt.Println()
		display("## Checklist\n\n"+storage.RenderChecklist(list), cfg.UI.Theme, cfg.UI.WordWrap)
	}

	if *outDir != "" {
		path, err := d.app.Export(sess)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			d.Close()
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Saved plan to %s\n", path)
	}
}

// display renders markdown only when stdout is a terminal so piped output stays plain.
func display(md, theme string, wrap int) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(ui.RenderMarkdown(md, theme, wrap))
		return
	}
	fmt.Println(md)
}

func runMetrics(args []string) {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	cfgPath := fs.String("config", "", "TOML configuration file")
	days := fs.Int("days", 7, "Report the last N days")
	fs.Parse(args)

	cfg := readConfig(*cfgPath)
	db, store, err := openMetrics(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	usage, err := store.GetDailyUsage(*days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read metrics: %v\n", err)
		db.Close()
		os.Exit(1)
	}
	fmt.Print(metrics.FormatReport(usage, metrics.GetSysHealth(filepath.Dir(cfg.DatabasePath), cfg.ExportDir)))
}

func runMetricsCleanup(args []string) {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	cfgPath := fs.String("config", "", "TOML configuration file")
	days := fs.Int("days", 30, "Keep records for the last N days")
	fs.Parse(args)

	cfg := readConfig(*cfgPath)
	db, store, err := openMetrics(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	affected, err := store.Cleanup(*days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cleanup failed: %v\n", err)
		db.Close()
		os.Exit(1)
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
}

func runExports(args []string) {
	fs := flag.NewFlagSet("exports", flag.ExitOnError)
	cfgPath := fs.String("config", "", "TOML configuration file")
	dir := fs.String("dir", "", "Export directory (defaults to export_dir)")
	fs.Parse(args)

	cfg := readConfig(*cfgPath)
	if *dir == "" {
		*dir = cfg.ExportDir
	}
	if err := listExports(os.Stdout, *dir); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// listExports prints saved plans in dir, newest first, one path per line.
func listExports(w io.Writer, dir string) error {
	store, err := storage.NewPlanStore(dir)
	if err != nil {
		return err
	}
	paths, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list exports: %w", err)
	}
	if len(paths) == 0 {
		fmt.Fprintf(w, "No saved plans in %s\n", store.Dir())
		return nil
	}
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
	return nil
}
