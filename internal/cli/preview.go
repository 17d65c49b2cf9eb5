package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/model"
)

var reasonText = map[importer.Reason]string{
	importer.ReasonTitleRequired:   "title is required",
	importer.ReasonUnknownType:     "unknown type, defaulted to " + string(model.DefaultType),
	importer.ReasonInvalidPrice:    "unreadable price, defaulted to 0",
	importer.ReasonUnknownCurrency: "unknown currency, defaulted to " + string(model.DefaultCurrency),
	importer.ReasonUnknownPlatform: "unknown platform, defaulted to " + string(model.DefaultPlatform),
	importer.ReasonUnknownGenre:    "unknown genre, defaulted to " + string(model.DefaultGenre),
	importer.ReasonUnknownStatus:   "unknown status, defaulted to " + string(model.DefaultStatus),
	importer.ReasonInvalidDate:     "unreadable date, defaulted to today",
}

// DescribeIssue renders an issue as a short human-readable sentence.
func DescribeIssue(issue importer.Issue) string {
	text, ok := reasonText[issue.Reason]
	if !ok {
		text = string(issue.Reason)
	}
	if issue.Value != "" {
		return fmt.Sprintf("%s: %q %s", issue.Field, issue.Value, text)
	}
	return fmt.Sprintf("%s: %s", issue.Field, text)
}

// RowBadge is the status marker shown next to a previewed row.
func RowBadge(row importer.ValidatedRow) string {
	switch {
	case !row.Importable():
		return ErrorStyle.Render(ErrorIcon)
	case len(row.Warnings) > 0:
		return WarningStyle.Render("!")
	default:
		return SuccessStyle.Render(SuccessIcon)
	}
}

// FormatPrice renders an amount with its currency code.
func FormatPrice(txn model.Transaction) string {
	return txn.PriceString() + " " + string(txn.Currency)
}

// SummarizeRows is the one-line count shown above a preview.
func SummarizeRows(rows []importer.ValidatedRow) string {
	var importable, warned int
	for _, row := range rows {
		if row.Importable() {
			importable++
			if len(row.Warnings) > 0 {
				warned++
			}
		}
	}
	return fmt.Sprintf("%d rows, %d importable (%d with warnings), %d blocked",
		len(rows), importable, warned, len(rows)-importable)
}

// RenderPreview writes a non-interactive preview of validated rows.
func RenderPreview(w io.Writer, rows []importer.ValidatedRow, unmapped []importer.Column) error {
	var b strings.Builder

	b.WriteString(FormatTitle("Import preview"))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(SummarizeRows(rows)))
	b.WriteString("\n")

	// List headers the mapper could not place
	if len(unmapped) > 0 {
		headers := make([]string, 0, len(unmapped))
		for _, col := range unmapped {
			h := fmt.Sprintf("%q", col.Header)
			if col.DuplicateOf != "" {
				h += fmt.Sprintf(" (duplicate %s)", col.DuplicateOf)
			}
			headers = append(headers, h)
		}
		b.WriteString(FormatWarning("Ignored columns: " + strings.Join(headers, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(FormatInfo("No rows found."))
		b.WriteString("\n")
	}

	for i, row := range rows {
		b.WriteString(renderRow(i, row))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderRow(index int, row importer.ValidatedRow) string {
	d := row.Data
	title := d.Title
	if title == "" {
		title = SubtleStyle.Render("(untitled)")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(5).Render(fmt.Sprintf("%d.", index+1)),
		lipgloss.NewStyle().Width(3).Render(RowBadge(row)),
		BoldStyle.Render(title),
	)
	details := SubtleStyle.Render(fmt.Sprintf("        %s · %s · %s · %s · %s",
		d.Type, FormatPrice(d), d.Platform, d.Genre, d.PurchaseDate))

	lines := []string{line, details}
	// Errors first, then warnings
	for _, issue := range row.Errors {
		lines = append(lines, ErrorStyle.Render("        "+ErrorIcon+" "+DescribeIssue(issue)))
	}
	for _, issue := range row.Warnings {
		lines = append(lines, WarningStyle.Render("        ! "+DescribeIssue(issue)))
	}
	return strings.Join(lines, "\n")
}

// RenderResult writes the outcome of a commit.
func RenderResult(w io.Writer, result importer.ImportResult) error {
	var msg string
	switch {
	case result.Errors == 0:
		msg = FormatSuccess(fmt.Sprintf("Imported %d purchases.", result.Success))
	case result.Success == 0:
		msg = FormatError(fmt.Sprintf("No purchases imported; %d failed.", result.Errors))
	default:
		msg = FormatWarning(fmt.Sprintf("Imported %d purchases; %d failed.", result.Success, result.Errors))
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

// RenderTransactions writes stored purchases as an aligned list.
func RenderTransactions(w io.Writer, txns []model.Transaction) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No purchases stored yet."))
		return err
	}

	// Size the title column to the longest title, up to 40
	titleWidth := len("Title")
	for _, txn := range txns {
		titleWidth = max(titleWidth, lipgloss.Width(txn.Title))
	}
	titleWidth = min(titleWidth, 40)

	col := func(width int) lipgloss.Style {
		return lipgloss.NewStyle().Width(width)
	}

	var b strings.Builder
	// Header row
	b.WriteString(BoldStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		col(12).Render("Date"),
		col(titleWidth+2).Render("Title"),
		col(14).Render("Type"),
		col(14).Render("Price"),
		col(13).Render("Platform"),
		"Status",
	)))
	b.WriteString("\n")
	for _, txn := range txns {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			col(12).Render(txn.PurchaseDate),
			col(titleWidth+2).Render(truncate(txn.Title, titleWidth)),
			col(14).Render(string(txn.Type)),
			col(14).Render(FormatPrice(txn)),
			col(13).Render(string(txn.Platform)),
			string(txn.Status),
		))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
