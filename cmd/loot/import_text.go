package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Veraticus/lootlog/internal/cli"
	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/config"
	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/llm"
)

func importTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [text...]",
		Short: "Extract purchases from free text",
		Long: `Extract purchases from receipts, order emails or notes using an LLM.

Text is taken from the arguments, or read from stdin when there are none
(or the only argument is "-"). On a terminal with no text given, an editor
opens where text can be pasted.

Only the first characters of the text are sent (import.max_text_chars).
Purchases without a date default to today.`,
		RunE: runImportText,
	}

	cmd.Flags().String("language", "", "Language hint for the extractor (default: import.language)")

	return cmd
}

func runImportText(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := readImportOptions(cmd)

	settings, err := config.Load()
	if err != nil {
		return err
	}
	if language, _ := cmd.Flags().GetString("language"); language != "" {
		settings.Language = language
	}

	// Create extractor before reading stdin so a missing key fails fast
	extractor, err := llm.NewExtractor(settings.LLM, slog.Default())
	if err != nil {
		return common.NewUserError("Text import needs an LLM provider (set llm.provider and llm.api_key)", err)
	}

	stdinIsTerminal := term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115
	text, err := readText(cmd.InOrStdin(), args, stdinIsTerminal, settings.MaxFileBytes)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	session, err := newSession(settings, store, extractor)
	if err != nil {
		return err
	}

	// Nothing given: let the user paste into the upload screen
	if strings.TrimSpace(text) == "" {
		if !opts.plain && !opts.dryRun && !opts.yes && isInteractive() {
			return runScreen(ctx, cmd.OutOrStdout(), session, settings)
		}
		return common.NewUserError("No text to import", importer.ErrEmptyInput)
	}

	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(cli.RobotIcon+" Extracting purchases..."))
	if err := session.Extract(ctx, text, settings.Language); err != nil {
		if errors.Is(err, importer.ErrExtractionEmpty) {
			return common.NewUserError("No purchases found in that text", err)
		}
		return common.NewUserError("Could not extract purchases, please try again", err)
	}

	return review(ctx, cmd, session, settings, opts)
}

// readText returns the text to extract from. Stdin is only read when no
// text argument is given and it is not a terminal.
func readText(in io.Reader, args []string, stdinIsTerminal bool, maxBytes int64) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	if stdinIsTerminal && len(args) == 0 {
		return "", nil
	}

	// Read one byte past the limit to detect oversized input
	data, err := io.ReadAll(io.LimitReader(in, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", common.NewUserError(fmt.Sprintf("Input over %d bytes cannot be imported", maxBytes), cli.ErrFileTooLarge)
	}
	return string(data), nil
}
