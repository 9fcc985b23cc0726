// Package ofx turns OFX/QFX bank and credit card statements into expense
// candidates.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/Veraticus/spendlog/internal/engine"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/aclindsa/ofxgo"
	"golang.org/x/sync/errgroup"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Candidate is one debit transaction ready to be imported.
type Candidate struct {
	Input   engine.Input
	FITID   string
	Account string
}

// Statement is the parsed content of one file.
type Statement struct {
	Path       string
	Candidates []Candidate
	Accounts   []string
	// Credits counts deposits and refunds, which are not expenses.
	Credits int
}

// Inputs returns the candidates' inputs in file order.
func (s *Statement) Inputs() []engine.Input {
	out := make([]engine.Input, len(s.Candidates))
	for i, c := range s.Candidates {
		out[i] = c.Input
	}
	return out
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	workers int
}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{workers: 4}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of an opening tag at the end
	// of a line.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses a statement. Only debits become candidates.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	st := &Statement{}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			p.collect(st, stmt.BankTranList, string(stmt.BankAcctFrom.AcctID), stmt.CurDef.String())
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			p.collect(st, stmt.BankTranList, string(stmt.CCAcctFrom.AcctID), stmt.CurDef.String())
		}
	}

	slog.Info("Parsed OFX file",
		"debits", len(st.Candidates),
		"credits", st.Credits,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return st, nil
}

// ParseFiles parses paths concurrently. Results keep the order of paths.
// done, if set, is called once per finished file.
func (p *Parser) ParseFiles(ctx context.Context, paths []string, done func(path string)) ([]*Statement, error) {
	out := make([]*Statement, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path) //nolint:gosec // paths come from the command line
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			st, err := p.ParseFile(ctx, f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			st.Path = path
			out[i] = st
			if done != nil {
				done(path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) collect(st *Statement, list *ofxgo.TransactionList, account, curDef string) {
	if account != "" && !slices.Contains(st.Accounts, account) {
		st.Accounts = append(st.Accounts, account)
	}
	if list == nil {
		return
	}

	cur := model.BaseCurrency
	if c, err := model.ParseCurrency(curDef); err == nil {
		cur = c
	} else if curDef != "" {
		slog.Warn("Unsupported statement currency, using base currency", "currency", curDef, "account", account)
	}

	for _, tx := range list.Transactions {
		if tx.TrnAmt.Sign() >= 0 {
			st.Credits++
			continue
		}
		st.Candidates = append(st.Candidates, p.convertTransaction(tx, account, cur))
	}
}

// convertTransaction converts an OFX debit into a candidate.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, account string, cur model.Currency) Candidate {
	amount := tx.TrnAmt.FloatString(model.AmountPlaces)
	amount = strings.TrimPrefix(amount, "-")

	merchant := p.extractMerchantName(tx)
	if merchant == "" {
		merchant = tx.TrnType.String()
	}
	if len([]rune(merchant)) > model.MaxDescriptionLength {
		merchant = string([]rune(merchant)[:model.MaxDescriptionLength])
	}

	return Candidate{
		Input: engine.Input{
			Date:        model.DateOf(tx.DtPosted.Time).String(),
			Category:    string(Categorize(tx.TrnType.String(), merchant)),
			Description: merchant,
			Amount:      amount,
			Currency:    string(cur),
		},
		FITID:   string(tx.FiTID),
		Account: account,
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)

	// Use MEMO field if NAME is generic
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}
	return slices.Contains(generic, strings.ToUpper(strings.TrimSpace(name)))
}
