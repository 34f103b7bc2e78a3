package fiscal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// jtransaction is the object read from a JSONL ledger line.
//
// Both naming conventions found in exports are accepted: camelCase
// ("isDeductible") and snake_case ("is_deductible").
type jtransaction struct {
	ID              string  `json:"id"`
	Date            Date    `json:"date"`
	Amount          *Money  `json:"amount"`
	Type            string  `json:"type"`
	Category        string  `json:"category"`
	Account         string  `json:"account"`
	Description     string  `json:"description"`
	IsDeductible    *bool   `json:"isDeductible"`
	IsDeductibleOld *bool   `json:"is_deductible"`
	Currency        *string `json:"currency"`
}

// DecodeTransactions decodes transactions from a stream of JSONL data.
//
// A line that is not valid JSON is an error. Missing fields are not: a
// missing amount decodes as zero and a missing date as the zero Date, so
// that a single bad record does not abort a report; the engine then skips
// them where they cannot be used. Transactions without an id get a random one.
func DecodeTransactions(r io.Reader, currency string) ([]Transaction, error) {
	txs := make([]Transaction, 0, 1000)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue // Skip empty lines
		}

		var jt jtransaction
		if err := json.Unmarshal([]byte(text), &jt); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", line, text, err)
		}
		tx, err := jt.transaction(currency)
		if err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading transactions: %w", err)
	}
	return txs, nil
}

func (jt jtransaction) transaction(currency string) (Transaction, error) {
	kind, err := ParseKind(jt.Type)
	if err != nil {
		return Transaction{}, err
	}
	if jt.Currency != nil && *jt.Currency != "" {
		currency = *jt.Currency
	}
	var amount Money
	if jt.Amount != nil {
		amount = *jt.Amount
	}
	deductible := false
	switch {
	case jt.IsDeductible != nil:
		deductible = *jt.IsDeductible
	case jt.IsDeductibleOld != nil:
		deductible = *jt.IsDeductibleOld
	}
	id := jt.ID
	if id == "" {
		id = uuid.NewString()
	}
	return NewTransaction(id, jt.Date, amount.In(currency), kind, jt.Category, jt.Account, jt.Description, deductible), nil
}

// EncodeTransactions writes transactions as JSONL, one per line.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	enc := json.NewEncoder(w)
	for _, tx := range txs {
		if err := enc.Encode(tx); err != nil {
			return fmt.Errorf("cannot encode transaction %q: %w", tx.ID, err)
		}
	}
	return nil
}
