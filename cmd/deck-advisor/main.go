package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/deckadvisor/deck-advisor/internal/advisor"
	"github.com/deckadvisor/deck-advisor/internal/cards/cache"
	"github.com/deckadvisor/deck-advisor/internal/cards/scryfall"
	"github.com/deckadvisor/deck-advisor/internal/collection"
	"github.com/deckadvisor/deck-advisor/internal/config"
	"github.com/deckadvisor/deck-advisor/internal/deck"
	"github.com/deckadvisor/deck-advisor/internal/deckimport"
	"github.com/deckadvisor/deck-advisor/internal/export"
	"github.com/deckadvisor/deck-advisor/internal/storage"
	"github.com/deckadvisor/deck-advisor/internal/version"
)

const usage = `deck-advisor - card recommendation engine for constructed decks

Usage:
  deck-advisor analyze   -deck <file> [-format <fmt>]
  deck-advisor recommend -deck <file> [-count <n>] [-format <fmt>] [-interactive] [-export <file>]
  deck-advisor import    -collection <csv>
  deck-advisor watch     -collection <csv>
  deck-advisor chart     -deck <file> [-out <dir>]
  deck-advisor deck      save|list|delete [args]
  deck-advisor backup    create|restore [args]
  deck-advisor prune
  deck-advisor version

Flags for each subcommand are listed with: deck-advisor <command> -h
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.App.DebugMode || os.Getenv("DECK_ADVISOR_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	app := &cli{cfg: cfg, logger: logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "analyze":
		err = app.runAnalyze(ctx, os.Args[2:])
	case "recommend":
		err = app.runRecommend(ctx, os.Args[2:])
	case "import":
		err = app.runImport(ctx, os.Args[2:])
	case "watch":
		err = app.runWatch(ctx, os.Args[2:])
	case "chart":
		err = app.runChart(ctx, os.Args[2:])
	case "deck":
		err = app.runDeck(ctx, os.Args[2:])
	case "backup":
		err = app.runBackup(os.Args[2:])
	case "prune":
		err = app.runPrune(ctx)
	case "version":
		fmt.Printf("deck-advisor %s\n", version.GetVersion())
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

type cli struct {
	cfg    *config.Config
	logger *slog.Logger
}

// openStorage opens the database and applies pending migrations.
func (c *cli) openStorage() (*storage.DB, error) {
	dbPath, err := c.cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	storageCfg := storage.DefaultConfig(dbPath)
	storageCfg.AutoMigrate = true
	db, err := storage.Open(storageCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// buildEngine wires the catalog client, the tiered cache, and the
// recommendation engine.
func (c *cli) buildEngine(db *storage.DB) (*advisor.Engine, *cache.Catalog, error) {
	var clientOpts []scryfall.Option
	if c.cfg.Catalog.BaseURL != "" {
		clientOpts = append(clientOpts, scryfall.WithBaseURL(c.cfg.Catalog.BaseURL))
	}
	client := scryfall.NewClient(clientOpts...)

	ttl, err := c.cfg.GetCacheTTL()
	if err != nil {
		return nil, nil, err
	}

	var repo storage.CardRepository
	if db != nil {
		repo = storage.NewCardRepository(db.Conn())
	}
	cached, err := cache.New(client, repo, cache.WithTTL(ttl), cache.WithLogger(c.logger))
	if err != nil {
		return nil, nil, err
	}

	engine := advisor.NewEngine(cached, advisor.WithLogger(c.logger))
	return engine, cached, nil
}

func (c *cli) loadDeck(path, name, format string) (*deck.Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return deckimport.ParseDeck(f, name, format)
}

// loadCollection returns the stored collection, preferring the database
// and falling back to the configured CSV file.
func (c *cli) loadCollection(ctx context.Context, db *storage.DB) deck.Collection {
	if db != nil {
		repo := storage.NewCollectionRepository(db.Conn())
		if snapshot, err := repo.Snapshot(ctx); err == nil && len(snapshot) > 0 {
			return snapshot
		}
	}
	if c.cfg.Collection.CSVPath != "" {
		f, err := os.Open(c.cfg.Collection.CSVPath)
		if err == nil {
			defer func() { _ = f.Close() }()
			if parsed, err := deckimport.ParseCollectionCSV(f); err == nil {
				return parsed
			}
		}
	}
	return nil
}

func (c *cli) runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to the deck list file")
	deckName := fs.String("name", "", "Deck name (defaults to file name)")
	format := fs.String("format", c.cfg.Advisor.Format, "Format for legality checks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *deckPath == "" {
		return fmt.Errorf("-deck is required")
	}

	d, err := c.loadDeck(*deckPath, *deckName, *format)
	if err != nil {
		return err
	}

	db, err := c.openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	engine, _, err := c.buildEngine(db)
	if err != nil {
		return err
	}

	profile := engine.Analyze(ctx, d)
	archetype, scores := engine.Classify(profile)

	fmt.Printf("Deck: %s (%d mainboard cards)\n", d.Name, d.MainboardCount())
	fmt.Printf("Colors: %s\n", strings.Join(d.Colors(), ""))
	fmt.Printf("Archetype: %s\n\n", archetype)

	fmt.Println("Archetype scores:")
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-10s %.2f\n", name, scores[name])
	}

	fmt.Println("\nMana curve (non-land):")
	for mv := 0; mv <= 7; mv++ {
		count := profile.ManaValues[mv]
		label := fmt.Sprintf("%d", mv)
		if mv == 7 {
			label = "7+"
		}
		fmt.Printf("  %-3s %3d %s\n", label, count, strings.Repeat("#", count))
	}

	fmt.Printf("\nCreatures: %d (%.0f%% of nonland)\n",
		profile.CreatureCount, profile.CreatureRatio()*100)
	if len(profile.Tribes) > 0 {
		fmt.Printf("Tribes: %s\n", strings.Join(topTribes(profile), ", "))
	}
	return nil
}

func topTribes(profile *advisor.DeckProfile) []string {
	type tribe struct {
		name  string
		count int
	}
	tribes := make([]tribe, 0, len(profile.Tribes))
	for name, count := range profile.Tribes {
		tribes = append(tribes, tribe{name, count})
	}
	sort.Slice(tribes, func(i, j int) bool {
		if tribes[i].count != tribes[j].count {
			return tribes[i].count > tribes[j].count
		}
		return tribes[i].name < tribes[j].name
	})
	out := make([]string, 0, len(tribes))
	for _, t := range tribes {
		out = append(out, fmt.Sprintf("%s (%d)", t.name, t.count))
	}
	return out
}

func (c *cli) runRecommend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to the deck list file")
	deckName := fs.String("name", "", "Deck name (defaults to file name)")
	format := fs.String("format", c.cfg.Advisor.Format, "Format for legality checks")
	count := fs.Int("count", 10, "Number of recommendations")
	interactive := fs.Bool("interactive", false, "Batch mode: press Enter for more suggestions")
	exportPath := fs.String("export", "", "Write results to a .csv or .json file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *deckPath == "" {
		return fmt.Errorf("-deck is required")
	}

	d, err := c.loadDeck(*deckPath, *deckName, *format)
	if err != nil {
		return err
	}

	db, err := c.openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	engine, _, err := c.buildEngine(db)
	if err != nil {
		return err
	}
	owned := c.loadCollection(ctx, db)

	if !*interactive {
		recs, err := engine.Recommend(ctx, d, owned, *count, *format)
		if err != nil {
			return err
		}
		if *exportPath != "" {
			return exportRecommendations(recs, *exportPath)
		}
		printRecommendations(recs, 0)
		return nil
	}

	state := advisor.NewBatchState(d)
	increment := c.cfg.Advisor.BatchIncrement
	reader := bufio.NewReader(os.Stdin)
	offset := 0
	for {
		recs, err := engine.RecommendBatch(ctx, state, d, owned, increment, *format)
		if err != nil {
			return err
		}
		printRecommendations(recs, offset)
		offset += len(recs)

		if state.Exhausted() {
			fmt.Println("\nNo further suggestions.")
			return nil
		}
		fmt.Print("\nPress Enter for more (q to quit): ")
		line, err := reader.ReadString('\n')
		if err != nil || strings.TrimSpace(line) == "q" {
			return nil
		}
	}
}

// exportRecommendations writes results to a file, inferring the format
// from the extension.
func exportRecommendations(recs []*advisor.Recommendation, path string) error {
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	opts := export.Options{
		Format:     format,
		FilePath:   path,
		PrettyJSON: true,
		Overwrite:  true,
	}
	if err := export.ExportRecommendations(recs, opts); err != nil {
		return err
	}
	fmt.Printf("Wrote %d recommendations to %s\n", len(recs), path)
	return nil
}

func printRecommendations(recs []*advisor.Recommendation, offset int) {
	if len(recs) == 0 {
		fmt.Println("No recommendations.")
		return
	}
	for i, rec := range recs {
		fmt.Printf("%2d. %s  [%.2f]  %s\n", offset+i+1, rec.Name, rec.Confidence, rec.TypeLine)
		fmt.Printf("    %s | %s\n", rec.Rarity, rec.Ownership)
		for _, reason := range rec.Reasons {
			fmt.Printf("    - %s\n", reason)
		}
	}
}

func (c *cli) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	csvPath := fs.String("collection", "", "Path to the collection CSV export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *csvPath == "" {
		return fmt.Errorf("-collection is required")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open collection file: %w", err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := deckimport.ParseCollectionCSV(f)
	if err != nil {
		return err
	}

	db, err := c.openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	repo := storage.NewCollectionRepository(db.Conn())
	if err := repo.ReplaceAll(ctx, parsed); err != nil {
		return err
	}
	fmt.Printf("Imported %d cards into the collection.\n", len(parsed))
	return nil
}

func (c *cli) runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	csvPath := fs.String("collection", c.cfg.Collection.CSVPath, "Path to the collection CSV export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *csvPath == "" {
		return fmt.Errorf("-collection is required")
	}

	db, err := c.openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := storage.NewCollectionRepository(db.Conn())

	watcher := collection.NewWatcher(*csvPath, func(snapshot deck.Collection) {
		if err := repo.ReplaceAll(ctx, snapshot); err != nil {
			c.logger.Warn("collection sync failed", "error", err)
		}
	}, c.logger)

	fmt.Printf("Watching %s for changes (Ctrl-C to stop)...\n", *csvPath)
	err = watcher.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *cli) runChart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to the deck list file")
	deckName := fs.String("name", "", "Deck name (defaults to file name)")
	format := fs.String("format", c.cfg.Advisor.Format, "Format for legality checks")
	outDir := fs.String("out", ".", "Output directory for chart HTML files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *deckPath == "" {
		return fmt.Errorf("-deck is required")
	}

	d, err := c.loadDeck(*deckPath, *deckName, *format)
	if err != nil {
		return err
	}

	db, err := c.openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	engine, _, err := c.buildEngine(db)
	if err != nil {
		return err
	}

	profile := engine.Analyze(ctx, d)
	archetype, scores := engine.Classify(profile)

	chartCfg := export.DefaultChartConfig()
	curvePath := filepath.Join(*outDir, "mana_curve.html")
	if err := export.RenderCurveChart(d.Name, profile, chartCfg, curvePath); err != nil {
		return err
	}
	archetypePath := filepath.Join(*outDir, "archetypes.html")
	if err := export.RenderArchetypeChart(d.Name, archetype, scores, chartCfg, archetypePath); err != nil {
		return err
	}

	fmt.Printf("Wrote %s and %s\n", curvePath, archetypePath)
	return nil
}

func (c *cli) runDeck(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: deck-advisor deck save|list|delete")
	}

	db, err := c.openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := storage.NewDeckRepository(db.Conn())

	switch args[0] {
	case "save":
		fs := flag.NewFlagSet("deck save", flag.ExitOnError)
		deckPath := fs.String("deck", "", "Path to the deck list file")
		deckName := fs.String("name", "", "Deck name (defaults to file name)")
		format := fs.String("format", c.cfg.Advisor.Format, "Deck format")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *deckPath == "" {
			return fmt.Errorf("-deck is required")
		}
		d, err := c.loadDeck(*deckPath, *deckName, *format)
		if err != nil {
			return err
		}
		d.ID = deckID(d.Name)
		if err := repo.SaveDeck(ctx, d); err != nil {
			return err
		}
		fmt.Printf("Saved deck %q as %s (%d cards).\n", d.Name, d.ID, d.MainboardCount())
		return nil

	case "list", "ls":
		decks, err := repo.ListDecks(ctx)
		if err != nil {
			return err
		}
		if len(decks) == 0 {
			fmt.Println("No saved decks.")
			return nil
		}
		for _, d := range decks {
			fmt.Printf("%-20s %-30s %-10s\n", d.ID, d.Name, d.Format)
		}
		return nil

	case "delete", "rm":
		fs := flag.NewFlagSet("deck delete", flag.ExitOnError)
		id := fs.String("id", "", "Deck ID to delete")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" {
			return fmt.Errorf("-id is required")
		}
		if err := repo.DeleteDeck(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("Deleted deck %s.\n", *id)
		return nil

	default:
		return fmt.Errorf("unknown deck command %q", args[0])
	}
}

// deckID turns a display name into a stable identifier.
func deckID(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.Join(strings.Fields(id), "-")
	return id
}

func (c *cli) runBackup(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: deck-advisor backup create|restore")
	}

	dbPath, err := c.cfg.DatabasePath()
	if err != nil {
		return err
	}
	manager := storage.NewBackupManager(dbPath)

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("backup create", flag.ExitOnError)
		dir := fs.String("dir", "", "Backup directory (default: next to the database)")
		passphrase := fs.String("passphrase", "", "Encrypt the backup with this passphrase")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		path, err := manager.Backup(storage.BackupOptions{
			Dir:        *dir,
			Passphrase: *passphrase,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", path)
		return nil

	case "restore":
		fs := flag.NewFlagSet("backup restore", flag.ExitOnError)
		file := fs.String("file", "", "Backup file to restore")
		passphrase := fs.String("passphrase", "", "Passphrase for encrypted backups")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *file == "" {
			return fmt.Errorf("-file is required")
		}
		if err := manager.Restore(*file, *passphrase); err != nil {
			return err
		}
		fmt.Println("Database restored.")
		return nil

	default:
		return fmt.Errorf("unknown backup command %q", args[0])
	}
}

func (c *cli) runPrune(ctx context.Context) error {
	db, err := c.openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	_, cached, err := c.buildEngine(db)
	if err != nil {
		return err
	}
	pruned, err := cached.Prune(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d stale cache entries.\n", pruned)
	return nil
}
