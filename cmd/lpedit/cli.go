package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/fwojciec/lpedit"
	"github.com/fwojciec/lpedit/editor"
	"github.com/fwojciec/lpedit/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Projects lpedit.ProjectService
	Editor   *editor.Editor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `help:"Path to the TOML config file (default ~/.lpedit/config.toml)" type:"path"`
	Verbose bool   `short:"v" help:"Log pipeline steps to stderr"`

	Entries EntriesCmd `cmd:"" help:"List the HTML entries of a bundle"`
	Import  ImportCmd  `cmd:"" help:"Analyze a bundle entry and store it as a project"`
	List    ListCmd    `cmd:"" help:"List all imported projects"`
	Show    ShowCmd    `cmd:"" help:"Show the sections, blocks and diagnostics of a project"`
	Edit    EditCmd    `cmd:"" help:"Apply a YAML edit set to a project"`
	Preview PreviewCmd `cmd:"" help:"Render a self-contained preview of a project"`
	Export  ExportCmd  `cmd:"" help:"Export the edited bundle as a zip file or directory"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a project"`
}

// EntriesCmd is the "entries" subcommand.
type EntriesCmd struct {
	Archive string `arg:"" help:"Bundle zip file or directory"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Archive string `arg:"" help:"Bundle zip file or directory"`
	Entry   string `short:"e" help:"Entry HTML path inside the bundle (default: index.html or the first HTML file)"`
	All     bool   `short:"a" help:"Import every HTML entry of the bundle"`
	Force   bool   `short:"f" help:"Re-import even if an identical import exists"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Project ID"`
	JSON bool   `help:"Print the project as JSON"`
}

// EditCmd is the "edit" subcommand.
type EditCmd struct {
	ID   string `arg:"" help:"Project ID"`
	File string `arg:"" help:"YAML edit set" type:"path"`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	ID     string `arg:"" help:"Project ID"`
	Output string `short:"o" help:"Write the preview to a file instead of stdout" type:"path"`
	Debug  bool   `help:"Append a generation timestamp comment"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	ID     string `arg:"" help:"Project ID"`
	Output string `short:"o" required:"" help:"Output .zip file or directory" type:"path"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Project ID"`
	Force bool   `help:"Confirm deletion"`
}

var (
	colorHeader  = color.New(color.Bold)
	colorWarning = color.New(color.FgYellow)
	colorFrozen  = color.New(color.FgCyan)
)
