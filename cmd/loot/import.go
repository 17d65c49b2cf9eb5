package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lootlog/internal/cli"
	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/config"
	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/ofx"
	"github.com/Veraticus/lootlog/internal/tui"
)

// Input formats accepted by import.
const (
	formatDelimited = "csv"
	formatWorkbook  = "xlsx"
	formatOFX       = "ofx"
)

// errUnsupportedFormat is returned for files whose format cannot be told.
var errUnsupportedFormat = errors.New("unsupported file format")

type importOptions struct {
	format string
	sheet  string
	store  string
	yes    bool
	dryRun bool
	plain  bool
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import purchases from a CSV, XLSX or OFX file",
		Long: `Import purchases from a spreadsheet export or a bank statement.

The first row of CSV and XLSX files is the header. Column names are matched
in English or French (Name/Titre, Price/Prix, ...); unknown columns are
ignored. OFX/QFX statements contribute their debit transactions.

Every row is validated and shown in a preview before anything is saved.

Examples:
  # Review and import a CSV export
  loot import ~/Downloads/purchases.csv

  # Import the "2024" sheet of a workbook without prompting
  loot import purchases.xlsx --sheet 2024 --yes

  # See what a bank statement would import
  loot import statement.qfx --store "Steam" --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.PersistentFlags().BoolP("yes", "y", false, "Import without asking for confirmation")
	cmd.PersistentFlags().Bool("dry-run", false, "Show the preview without saving anything")
	cmd.PersistentFlags().Bool("plain", false, "Print the preview instead of opening the interactive screen")

	cmd.Flags().String("format", "", "Input format (csv, xlsx, ofx); detected from the extension by default")
	cmd.Flags().String("sheet", "", "Workbook sheet to read (default: first sheet)")
	cmd.Flags().String("store", "", "Store to record for statement purchases")

	cmd.AddCommand(importTextCmd())

	return cmd
}

func readImportOptions(cmd *cobra.Command) importOptions {
	var opts importOptions
	opts.yes, _ = cmd.Flags().GetBool("yes")
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.plain, _ = cmd.Flags().GetBool("plain")
	opts.format, _ = cmd.Flags().GetString("format")
	opts.sheet, _ = cmd.Flags().GetString("sheet")
	opts.store, _ = cmd.Flags().GetString("store")
	return opts
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := readImportOptions(cmd)

	settings, err := config.Load()
	if err != nil {
		return err
	}

	path := config.ExpandPath(args[0])
	format, err := detectFormat(path, opts.format)
	if err != nil {
		return common.NewUserError("Cannot import this file", err)
	}

	var progress io.Writer
	if isInteractive() {
		progress = cmd.ErrOrStderr()
	}
	data, err := cli.ReadInputFile(path, settings.MaxFileBytes, progress)
	if err != nil {
		if errors.Is(err, cli.ErrFileTooLarge) {
			return common.NewUserError(fmt.Sprintf("Files over %d bytes cannot be imported", settings.MaxFileBytes), err)
		}
		return err
	}

	store, err := openStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	session, err := newSession(settings, store, nil)
	if err != nil {
		return err
	}

	slog.Info("importing file", "path", path, "format", format, "bytes", len(data))

	if err := loadFile(ctx, session, format, data, opts); err != nil {
		return err
	}

	return review(ctx, cmd, session, settings, opts)
}

// detectFormat picks the input format from the flag or the file extension.
func detectFormat(path, override string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(override))
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch name {
	case "csv", "txt":
		return formatDelimited, nil
	case "xlsx":
		return formatWorkbook, nil
	case "ofx", "qfx":
		return formatOFX, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, name)
	}
}

// loadFile parses data in format and moves session to Preview.
func loadFile(ctx context.Context, session *importer.Session, format string, data []byte, opts importOptions) error {
	switch format {
	case formatDelimited:
		return session.LoadDelimited(string(data))

	case formatWorkbook:
		rows, err := importer.ReadWorkbook(bytes.NewReader(data), opts.sheet)
		if err != nil {
			return common.NewUserError("Cannot read workbook", err)
		}
		return session.LoadRows(rows)

	case formatOFX:
		parser := ofx.NewParser(ofx.WithStore(opts.store), ofx.WithLogger(slog.Default()))
		records, err := parser.ParseFile(ctx, bytes.NewReader(data))
		if err != nil {
			return common.NewUserError("Cannot read statement", err)
		}
		return session.LoadRecords(records)

	default:
		return fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

// review shows the preview and commits on the user's word, either on the
// interactive screen or as printed text.
func review(ctx context.Context, cmd *cobra.Command, session *importer.Session, settings *config.Settings, opts importOptions) error {
	if !opts.plain && !opts.dryRun && !opts.yes && isInteractive() {
		return runScreen(ctx, cmd.OutOrStdout(), session, settings)
	}
	return reviewPlain(ctx, session, opts, cmd.InOrStdin(), cmd.OutOrStdout())
}

func runScreen(ctx context.Context, out io.Writer, session *importer.Session, settings *config.Settings) error {
	outcome, err := tui.Run(ctx, session, tui.WithLanguage(settings.Language))
	slog.Debug("import screen closed", "outcome", outcome)

	switch outcome {
	case tui.OutcomeCommitted:
		result, _ := session.Result()
		if renderErr := cli.RenderResult(out, result); renderErr != nil {
			return renderErr
		}
		if err != nil {
			return common.NewUserError("Some purchases could not be saved", err)
		}
		return nil
	case tui.OutcomeDiscarded:
		_, _ = fmt.Fprintln(out, cli.FormatInfo("Import discarded. Nothing was saved."))
	default:
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, cli.FormatInfo("Nothing was saved."))
	}
	return nil
}

// reviewPlain prints the preview and, unless this is a dry run, asks before
// committing.
func reviewPlain(ctx context.Context, session *importer.Session, opts importOptions, in io.Reader, out io.Writer) error {
	if err := cli.RenderPreview(out, session.Rows(), session.Unmapped()); err != nil {
		return err
	}

	if opts.dryRun {
		_, _ = fmt.Fprintln(out, cli.FormatInfo("Dry run: nothing was saved."))
		return nil
	}
	if !session.CanCommit() {
		return common.NewUserError("Nothing to import", importer.ErrNothingToCommit)
	}

	handler := cli.NewInterruptHandler(out)
	ctx = handler.HandleInterrupts(ctx)

	if !opts.yes {
		question := fmt.Sprintf("Import %d purchases?", len(session.ImportableRows()))
		ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(in), out, question)
		if err != nil {
			if handler.WasInterrupted() {
				return common.NewUserError("Import interrupted", err)
			}
			return err
		}
		if !ok {
			_ = session.Discard()
			_, _ = fmt.Fprintln(out, cli.FormatInfo("Import canceled. Nothing was saved."))
			return nil
		}
	}

	handler.SetCommitting(true)
	result, err := session.Commit(ctx)
	handler.SetCommitting(false)

	if renderErr := cli.RenderResult(out, result); renderErr != nil {
		return renderErr
	}
	if err != nil {
		return common.NewUserError("Some purchases could not be saved", err)
	}
	return nil
}
