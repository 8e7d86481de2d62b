package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/lpedit"
	"github.com/fwojciec/lpedit/editor"
	"github.com/fwojciec/lpedit/fs"
	"github.com/fwojciec/lpedit/goquery"
	lpslog "github.com/fwojciec/lpedit/slog"
	"github.com/fwojciec/lpedit/sqlite"
	"github.com/fwojciec/lpedit/zip"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run() to override configuration.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ProjectService lpedit.ProjectService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: os.Getenv("LPEDIT_DB"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lpedit"),
		kong.Description("Edit the copy, links and images of landing-page bundles."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lpedit --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cli.Verbose || cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	deps.Logger = logger

	// Open database
	dbPath := m.DBPath
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LPEDIT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.ProjectService = sqlite.NewProjectService(m.DB)
	deps.DB = m.DB
	deps.Projects = m.ProjectService
	deps.Editor = &editor.Editor{
		Archives:    lpslog.NewLoggingArchiveReader(&bundleReader{dirs: fs.NewDirReader(), zips: zip.NewReader()}, logger),
		Analyzer:    lpslog.NewLoggingAnalyzer(goquery.NewAnalyzer(goquery.ExtractorConfig{MinTextLength: cfg.MinTextLength}), logger),
		Scanner:     goquery.NewScanner(),
		Patcher:     lpslog.NewLoggingPatcher(goquery.NewPatcher(), logger),
		Inliner:     goquery.NewInliner(),
		Concurrency: cfg.Concurrency,
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lpedit.db"
	}
	dir := filepath.Join(home, ".lpedit")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "lpedit.db")
}

// bundleReader reads unpacked bundle directories and zip archives.
type bundleReader struct {
	dirs lpedit.ArchiveReader
	zips lpedit.ArchiveReader
}

func (r *bundleReader) ReadArchive(ctx context.Context, path string) ([]lpedit.ArchiveEntry, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return r.dirs.ReadArchive(ctx, path)
	}
	return r.zips.ReadArchive(ctx, path)
}
