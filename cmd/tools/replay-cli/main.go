package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/annel0/aicup-bot/internal/arena"
	"github.com/annel0/aicup-bot/internal/config"
	"github.com/annel0/aicup-bot/internal/logging"
	"github.com/annel0/aicup-bot/internal/record"
	"github.com/annel0/aicup-bot/internal/render"
	"github.com/annel0/aicup-bot/internal/replay"
	"github.com/annel0/aicup-bot/internal/runner"
	"github.com/annel0/aicup-bot/internal/store"
	"github.com/annel0/aicup-bot/internal/strategy"
	"github.com/gdamore/tcell/v2"
)

const (
	defaultMatchID = "local"
	defaultTicks   = 100
)

func main() {
	var (
		command    = flag.String("cmd", "stats", "Command: gen, run, show, stats")
		configPath = flag.String("config", "", "YAML config (strategy, recorder)")
		input      = flag.String("in", "", "Input replay file")
		output     = flag.String("out", "", "Output replay file (.zst enables compression; default: <recorder.dir>/<match>...)")
		matchID    = flag.String("match", defaultMatchID, "Match ID")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Arena generator seed")
		ticks      = flag.Int("ticks", defaultTicks, "Number of generated ticks")
		width      = flag.Int("width", 0, "Arena width (0 = default)")
		height     = flag.Int("height", 0, "Arena height (0 = default)")
		badgerPath = flag.String("badger", "", "Badger directory for decision records")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}
	// CLI пишет только в консоль
	logging.Configure("", logging.ParseLevel(cfg.Logging.ConsoleLevel), logging.ERROR)
	if *badgerPath == "" {
		*badgerPath = cfg.Recorder.BadgerPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *command {
	case "gen":
		scenario := arena.DefaultScenario()
		if *width > 0 {
			scenario.Width = *width
		}
		if *height > 0 {
			scenario.Height = *height
		}
		out, err := outputPath(*output, cfg.Recorder.Dir, *matchID, "frames", cfg.Recorder.Compress)
		if err != nil {
			log.Fatalf("❌ Gen failed: %v", err)
		}
		if err := generate(out, *matchID, *seed, *ticks, scenario, cfg.Recorder.Compress); err != nil {
			log.Fatalf("❌ Gen failed: %v", err)
		}

	case "run":
		out, err := outputPath(*output, cfg.Recorder.Dir, *matchID, "decisions", cfg.Recorder.Compress)
		if err != nil {
			log.Fatalf("❌ Run failed: %v", err)
		}
		if err := runReplay(ctx, cfg.Strategy, *input, out, *matchID, *badgerPath, cfg.Recorder.Compress); err != nil {
			log.Fatalf("❌ Run failed: %v", err)
		}

	case "show":
		if err := showReplay(cfg.Strategy, *input); err != nil {
			log.Fatalf("❌ Show failed: %v", err)
		}

	case "stats":
		if err := showStats(*input, *matchID, *badgerPath); err != nil {
			log.Fatalf("❌ Stats failed: %v", err)
		}

	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: gen, run, show, stats")
		os.Exit(1)
	}
}

// outputPath возвращает out, если он задан, иначе файл матча в каталоге dir.
// Пустые out и dir означают, что файл не пишется.
func outputPath(out, dir, matchID, kind string, compress bool) (string, error) {
	if out != "" || dir == "" {
		return out, nil
	}
	if err := record.ValidateMatchID(matchID); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("каталог реплеев %s: %w", dir, err)
	}

	name := fmt.Sprintf("%s.%s.jsonl", matchID, kind)
	if compress {
		name += ".zst"
	}
	return filepath.Join(dir, name), nil
}

// generate пишет сгенерированный матч в файл реплея
func generate(path, matchID string, seed int64, ticks int, scenario arena.ScenarioConfig, compress bool) error {
	if path == "" {
		return fmt.Errorf("-out is required")
	}

	frames, err := runner.GenerateMatch(matchID, seed, ticks, scenario)
	if err != nil {
		return err
	}

	w, err := replay.Create(path, compress)
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := w.WriteFrame(f); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	fmt.Printf("🗺️  Generated %d frames (seed %d, %dx%d) → %s\n",
		len(frames), seed, scenario.Width, scenario.Height, path)
	return nil
}

// runReplay прогоняет стратегию по кадрам файла
func runReplay(ctx context.Context, cfg strategy.Config, in, out, matchID, badgerPath string, compress bool) error {
	if in == "" {
		return fmt.Errorf("-in is required")
	}

	r, err := replay.Open(in)
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		sinks []runner.RecordSink
		w     *replay.Writer
	)
	if badgerPath != "" {
		s, err := store.NewRecordStore(badgerPath)
		if err != nil {
			return err
		}
		defer s.Close()
		sinks = append(sinks, s)
	}
	if out != "" {
		if w, err = replay.Create(out, compress); err != nil {
			return err
		}
		sinks = append(sinks, runner.WriterSink(w))
	}

	botRunner := runner.New(runner.Options{
		Strategy: strategy.NewStrategy(cfg),
		Sinks:    sinks,
		Source:   "replay-cli",
	})

	summary, err := botRunner.Run(ctx, matchID, runner.NewReaderSource(r))
	if w != nil {
		// Close дописывает zstd-кадр и буфер
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("закрытие %s: %w", out, cerr)
		}
	}
	if err != nil {
		return err
	}

	printSummary(matchID, summary)
	if out != "" {
		fmt.Printf("💾 Decisions written to %s\n", out)
	}
	return nil
}

// showReplay открывает кадры файла в терминальном просмотрщике
func showReplay(cfg strategy.Config, in string) error {
	if in == "" {
		return fmt.Errorf("-in is required")
	}

	r, err := replay.Open(in)
	if err != nil {
		return err
	}
	frames, records, err := r.ReadAll()
	r.Close()
	if err != nil {
		return err
	}

	views := buildViews(strategy.NewStrategy(cfg), frames, records)
	if len(views) == 0 {
		return fmt.Errorf("no valid frames in %s", in)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	render.NewViewer(screen, views).Run()
	return nil
}

type recordKey struct {
	tick, unit int
}

// buildViews сопоставляет кадры с записанными решениями. Цель всегда
// пересчитывается, чтобы показать найденного противника и линию прицела.
func buildViews(s *strategy.Strategy, frames []replay.Frame, records []record.Record) []render.View {
	recorded := make(map[recordKey]record.Record, len(records))
	for _, rec := range records {
		recorded[recordKey{rec.Tick, rec.UnitID}] = rec
	}

	views := make([]render.View, 0, len(frames))
	for i := range frames {
		f := frames[i]
		if f.Validate() != nil {
			continue
		}
		unit, _ := f.Game.UnitByID(f.UnitID)
		action, target := s.Decide(unit, f.Game, nil)
		if rec, ok := recorded[recordKey{f.Tick, f.UnitID}]; ok {
			action = rec.Action
		}
		views = append(views, render.View{
			Game:   f.Game,
			UnitID: f.UnitID,
			Target: &target,
			Action: &action,
		})
	}
	return views
}

// showStats выводит сводку решений из файла или хранилища
func showStats(in, matchID, badgerPath string) error {
	var records []record.Record
	switch {
	case in != "":
		r, err := replay.Open(in)
		if err != nil {
			return err
		}
		_, records, err = r.ReadAll()
		r.Close()
		if err != nil {
			return err
		}
	case badgerPath != "":
		s, err := store.NewRecordStore(badgerPath)
		if err != nil {
			return err
		}
		defer s.Close()
		if records, err = s.LoadMatch(matchID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("-in or -badger is required")
	}

	printSummary(matchID, record.Summarize(records))
	return nil
}

// printSummary выводит сводку в читаемом формате
func printSummary(matchID string, s record.Summary) {
	fmt.Printf("📊 Match %s: %d decisions\n", matchID, s.Decisions)
	if s.Decisions == 0 {
		return
	}

	kinds := make([]strategy.TargetKind, 0, len(s.ByTarget))
	for kind := range s.ByTarget {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	fmt.Println("\nBy target:")
	for _, kind := range kinds {
		fmt.Printf("  %-14s %d\n", kind, s.ByTarget[kind])
	}

	fmt.Println("\nActions:")
	fmt.Printf("  shots   %d\n", s.Shots)
	fmt.Printf("  reloads %d\n", s.Reloads)
	fmt.Printf("  mines   %d\n", s.Mines)
	fmt.Printf("  swaps   %d\n", s.Swaps)
	fmt.Printf("  jumps   %d\n", s.Jumps)
	fmt.Printf("\nAvg decision time: %s\n", s.Elapsed/time.Duration(s.Decisions))
}
