package fiscal

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDecodeTransactions(t *testing.T) {
	input := `
{"id":"t1","date":"2024-01-10","amount":-1000,"account":"A","description":"Pago tarjeta","type":"expense"}
{"id":"t2","date":"2024-01-11","amount":1000,"account":"B","type":"income","category":"ventas"}
{"id":"t3","date":"2024-01-12","amount":250.50,"type":"expense","is_deductible":true}
{"date":"","amount":12}
{"id":"t5","date":"2024-01-15"}
`
	txs, err := DecodeTransactions(strings.NewReader(input), "MXN")
	if err != nil {
		t.Fatalf("DecodeTransactions() unexpected error: %v", err)
	}
	if len(txs) != 5 {
		t.Fatalf("DecodeTransactions() returned %d transactions, want 5", len(txs))
	}

	if got := txs[0].Flow(); got != Outflow {
		t.Errorf("t1 flow = %v, want expense", got)
	}
	if txs[1].Date != NewDate(2024, time.January, 11) {
		t.Errorf("t2 date = %v", txs[1].Date)
	}
	// unsigned expense is normalized to a negative amount
	if want := MXN(-250.50); !txs[2].Amount.Equal(want) {
		t.Errorf("t3 amount = %v, want %v", txs[2].Amount, want)
	}
	if !txs[2].Deductible {
		t.Errorf("t3 should be deductible")
	}
	if txs[3].ID == "" {
		t.Errorf("a transaction without id should get one")
	}
	if txs[3].Dated() {
		t.Errorf("an empty date should decode as undated")
	}
	if !txs[4].Amount.IsZero() {
		t.Errorf("a missing amount should decode as zero, got %v", txs[4].Amount)
	}
	if txs[0].Amount.Currency() != "MXN" {
		t.Errorf("currency = %q, want MXN", txs[0].Amount.Currency())
	}
}

func TestDecodeTransactions_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"not json", `{"id": `},
		{"bad date", `{"id":"x","date":"10/01/2024","amount":1}`},
		{"bad type", `{"id":"x","date":"2024-01-10","amount":1,"type":"refund"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeTransactions(strings.NewReader(tc.input), "MXN"); err == nil {
				t.Errorf("DecodeTransactions(%q) expected an error", tc.input)
			}
		})
	}
}

func TestEncodeTransactions(t *testing.T) {
	txs := []Transaction{
		NewTransaction("t1", NewDate(2024, time.March, 1), MXN(120.5), KindIncome, "ventas", "A", "Factura 12", false),
		NewTransaction("t2", NewDate(2024, time.March, 2), MXN(80), KindExpense, "", "", "", true),
	}
	var b bytes.Buffer
	if err := EncodeTransactions(&b, txs); err != nil {
		t.Fatalf("EncodeTransactions() unexpected error: %v", err)
	}
	want := `{"id":"t1","date":"2024-03-01","amount":120.5,"type":"income","category":"ventas","account":"A","description":"Factura 12"}
{"id":"t2","date":"2024-03-02","amount":-80,"type":"expense","isDeductible":true}
`
	if got := b.String(); got != want {
		t.Errorf("EncodeTransactions() =\n%s\nwant\n%s", got, want)
	}

	back, err := DecodeTransactions(&b, "MXN")
	if err != nil {
		t.Fatalf("DecodeTransactions() unexpected error: %v", err)
	}
	for i := range txs {
		if !back[i].Amount.Equal(txs[i].Amount) || back[i].Date != txs[i].Date || back[i].Deductible != txs[i].Deductible {
			t.Errorf("round trip [%d] = %+v, want %+v", i, back[i], txs[i])
		}
	}
}
