// Package ofx turns OFX/QFX bank and card statements into import records.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser reads purchases out of OFX/QFX statements. Only debits are kept;
// each becomes one record priced at the absolute amount and dated by the
// posting date.
type Parser struct {
	logger *slog.Logger
	store  string
}

// Option configures a Parser.
type Option func(*Parser)

// WithStore sets the store recorded on every purchase, e.g. "Steam" for a
// statement of a card used only there.
func WithStore(store string) Option {
	return func(p *Parser) {
		p.store = strings.TrimSpace(store)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new OFX parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML exports sometimes drop the closing bracket of a bare tag line.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file and returns one record per debit.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]importer.Record, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var (
		records          []importer.Record
		bankStmts        int
		ccStmts, skipped int
	)

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			recs, n := p.convertList(stmt.BankTranList, stmt.CurDef)
			records = append(records, recs...)
			skipped += n
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			recs, n := p.convertList(stmt.BankTranList, stmt.CurDef)
			records = append(records, recs...)
			skipped += n
		}
	}

	p.logger.Info("Parsed OFX file",
		"purchases", len(records),
		"skipped_credits", skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return records, nil
}

// convertList converts the debits of one statement and reports how many
// credits were skipped.
func (p *Parser) convertList(list *ofxgo.TransactionList, curDef ofxgo.CurrSymbol) ([]importer.Record, int) {
	if list == nil {
		return nil, 0
	}

	var (
		records []importer.Record
		skipped int
	)
	for _, ofxTx := range list.Transactions {
		if ofxTx.TrnAmt.Sign() >= 0 {
			skipped++
			continue
		}
		records = append(records, p.convertTransaction(ofxTx, curDef))
	}
	return records, skipped
}

// convertTransaction converts an OFX debit to a record.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, curDef ofxgo.CurrSymbol) importer.Record {
	amount := new(big.Rat).Abs(&ofxTx.TrnAmt.Rat)

	currency := curDef.String()
	if ofxTx.Currency != nil {
		currency = ofxTx.Currency.CurSym.String()
	}

	rec := importer.Record{
		importer.FieldTitle:    p.extractMerchantName(ofxTx),
		importer.FieldPrice:    amount.FloatString(2),
		importer.FieldCurrency: currency,
		importer.FieldDate:     ofxTx.DtPosted.Format(model.DateLayout),
	}
	if p.store != "" {
		rec[importer.FieldStore] = p.store
	}
	if memo := strings.TrimSpace(string(ofxTx.Memo)); memo != "" && memo != rec[importer.FieldTitle] {
		rec[importer.FieldNotes] = memo
	}
	return rec
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)

	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
		"PAYPAL *",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip a leading "MM/DD " posting date
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(strings.TrimSpace(name))
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
