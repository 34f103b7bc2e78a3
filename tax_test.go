package fiscal

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/etnz/fiscal/date"
	"github.com/shopspring/decimal"
)

// exampleBrackets is a three brackets table around the 65,651.07 boundary.
func exampleBrackets() []TaxBracket {
	return []TaxBracket{
		NewBracket(0, 65651.07, 0, 0.0192),
		NewBracket(65651.07, 115375.90, 3855.14, 0.1088),
		NewBracket(115375.90, -1, 9265.20, 0.16),
	}
}

func TestCalculateISR(t *testing.T) {
	brackets := exampleBrackets()
	testCases := []struct {
		name    string
		taxable float64
		want    float64
	}{
		{"zero income", 0, 0},
		{"negative income", -5000, 0},
		{"first bracket", 10000, 192},
		// 3855.14 + (100000 - 65651.07) * 0.1088
		{"second bracket", 100000, 7592.30},
		{"unbounded bracket", 200000, 9265.20 + (200000-115375.90)*0.16},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateISR(MXN(tc.taxable), brackets)
			assertMoney(t, "CalculateISR()", got, tc.want)
			if got.IsNegative() {
				t.Errorf("CalculateISR() = %v is negative", got)
			}
		})
	}
}

func TestCalculateISR_Continuity(t *testing.T) {
	cfg := DefaultFiscalConfig()
	epsilon := decimal.RequireFromString("0.01")
	for i, b := range cfg.Brackets {
		if !b.Bounded() {
			continue
		}
		at := CalculateISR(M(*b.Limit, "MXN"), cfg.Brackets)
		above := CalculateISR(M(b.Limit.Add(epsilon), "MXN"), cfg.Brackets)
		// the jump over one cent can be the rate of one cent plus the table's own rounding.
		if diff := above.Sub(at).Abs().Float(); diff > 0.05 {
			t.Errorf("bracket %d: tax jumps by %.4f at limit %s (%v -> %v)", i+1, diff, b.Limit, at, above)
		}
	}
}

func TestCalculateISR_Extrapolation(t *testing.T) {
	bounded := []TaxBracket{
		NewBracket(0, 1000, 0, 0.10),
		NewBracket(1000, 2000, 100, 0.20),
	}
	// above the top bound the last bracket keeps applying.
	assertMoney(t, "CalculateISR()", CalculateISR(MXN(3000), bounded), 100+2000*0.20)

	cfg := &FiscalConfig{Brackets: bounded, IVARate: DefaultIVARate, Extrapolation: StrictCoverage}
	if _, err := cfg.ISR(MXN(3000)); !errors.Is(err, ErrIncomeNotCovered) {
		t.Errorf("strict ISR() error = %v, want ErrIncomeNotCovered", err)
	}
	got, err := cfg.ISR(MXN(1500))
	if err != nil {
		t.Fatalf("strict ISR() unexpected error: %v", err)
	}
	assertMoney(t, "strict ISR()", got, 200)

	cfg.Extrapolation = ExtrapolateLastBracket
	got, err = cfg.ISR(MXN(3000))
	if err != nil {
		t.Fatalf("ISR() unexpected error: %v", err)
	}
	assertMoney(t, "ISR()", got, 500)
}

func TestCalculateISR_CentGap(t *testing.T) {
	// official tables start each bracket one cent above the previous limit.
	brackets := []TaxBracket{
		NewBracket(0.01, 1000, 0, 0.10),
		NewBracket(1000.01, -1, 100, 0.20),
	}
	got := CalculateISR(MXN(1000.005), brackets)
	assertMoney(t, "CalculateISR() in the gap", got, 100)
}

func TestCalculateIVA(t *testing.T) {
	r := CalculateIVA(MXN(50000), MXN(20000), decimal.RequireFromString("0.16"))
	assertMoney(t, "charged", r.Charged, 8000)
	assertMoney(t, "creditable", r.Creditable, 3200)
	assertMoney(t, "payable", r.Payable, 4800)
	assertMoney(t, "credit", r.Credit, 0)

	r = CalculateIVA(MXN(20000), MXN(50000), DefaultIVARate)
	assertMoney(t, "payable", r.Payable, 0)
	assertMoney(t, "credit", r.Credit, 4800)
}

func TestFiscalConfig_IVAWithRetention(t *testing.T) {
	cfg := DefaultFiscalConfig()
	cfg.IVARetentionRate = decimal.RequireFromString("0.106667")
	r := cfg.IVA(MXN(10000), MXN(2000))
	assertMoney(t, "charged", r.Charged, 1600)
	assertMoney(t, "creditable", r.Creditable, 320)
	assertMoney(t, "retained", r.Retained, 1066.67)
	assertMoney(t, "payable", r.Payable, 213.33)
}

func TestEffectiveRate(t *testing.T) {
	if got := EffectiveRate(MXN(1500), MXN(10000)); !got.Equal(15) {
		t.Errorf("EffectiveRate() = %v, want 15%%", got)
	}
	if got := EffectiveRate(MXN(1500), MXN(0)); got != 0 {
		t.Errorf("EffectiveRate() with no income = %v, want 0", got)
	}
}

func TestValidateBrackets(t *testing.T) {
	testCases := []struct {
		name     string
		brackets []TaxBracket
		wantErrs int
	}{
		{"default table", DefaultFiscalConfig().Brackets, 0},
		{"example table", exampleBrackets(), 0},
		{"empty", nil, 1},
		{"not starting at zero", []TaxBracket{NewBracket(100, -1, 0, 0.1)}, 1},
		{"rate above one", []TaxBracket{NewBracket(0, -1, 0, 16)}, 1},
		{"negative fee", []TaxBracket{NewBracket(0, -1, -3, 0.1)}, 1},
		{"gap", []TaxBracket{NewBracket(0, 100, 0, 0.1), NewBracket(150, -1, 10, 0.2)}, 1},
		{"overlap", []TaxBracket{NewBracket(0, 100, 0, 0.1), NewBracket(90, -1, 10, 0.2)}, 1},
		{"unordered", []TaxBracket{NewBracket(0, 100, 0, 0.1), NewBracket(200, 300, 10, 0.2), NewBracket(100, -1, 10, 0.2)}, 2},
		{"bounded top", []TaxBracket{NewBracket(0, 100, 0, 0.1)}, 1},
		{"unbounded in the middle", []TaxBracket{NewBracket(0, -1, 0, 0.1), NewBracket(100, -1, 10, 0.2)}, 1},
		{"empty bracket", []TaxBracket{NewBracket(0, 0, 0, 0.1), NewBracket(0, -1, 0, 0.2)}, 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateBrackets(tc.brackets)
			if len(res.Errors) != tc.wantErrs {
				t.Errorf("ValidateBrackets() errors = %q, want %d errors", res.Errors, tc.wantErrs)
			}
			if res.IsValid != (tc.wantErrs == 0) {
				t.Errorf("ValidateBrackets() IsValid = %v with errors %q", res.IsValid, res.Errors)
			}
			if err := res.Err(); (err == nil) != res.IsValid {
				t.Errorf("Err() = %v for IsValid = %v", err, res.IsValid)
			} else if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Err() = %v, want it to wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestFiscalConfig_Validate(t *testing.T) {
	cfg := DefaultFiscalConfig()
	if res := cfg.Validate(); !res.IsValid {
		t.Fatalf("default configuration is invalid: %q", res.Errors)
	}

	// a bounded top bracket is fine when extrapolating, not when strict.
	cfg.Brackets = cfg.Brackets[:len(cfg.Brackets)-1]
	if res := cfg.Validate(); !res.IsValid {
		t.Errorf("extrapolate policy should accept a bounded table: %q", res.Errors)
	}
	cfg.Extrapolation = StrictCoverage
	if res := cfg.Validate(); res.IsValid {
		t.Errorf("strict policy should reject a bounded table")
	}

	cfg = DefaultFiscalConfig()
	cfg.IVARate = decimal.RequireFromString("1.6")
	cfg.Extrapolation = "sometimes"
	if res := cfg.Validate(); len(res.Errors) != 2 {
		t.Errorf("Validate() = %q, want the rate and policy errors", res.Errors)
	}
}

func TestSummarize(t *testing.T) {
	on := func(d int) Date { return NewDate(2024, time.March, d) }
	txs := []Transaction{
		NewTransaction("1", on(1), MXN(50000), KindIncome, "ventas", "banco", "Factura A", false),
		NewTransaction("2", on(5), MXN(-20000), KindExpense, "renta", "banco", "Renta oficina", true),
		NewTransaction("3", on(6), MXN(-5000), KindExpense, "personal", "banco", "Cena", false),
		NewTransaction("4", on(7), MXN(-10000), KindTransfer, "", "banco", "Traspaso", false),
		NewTransaction("5", on(7), MXN(10000), KindTransfer, "", "ahorro", "Traspaso", false),
		NewTransaction("6", NewDate(2024, time.April, 1), MXN(90000), KindIncome, "ventas", "banco", "Fuera de rango", false),
		NewTransaction("7", Date{}, MXN(90000), KindIncome, "ventas", "banco", "Sin fecha", false),
	}
	s, err := Summarize(txs, DefaultFiscalConfig(), date.NewRange(on(1), date.Monthly))
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	assertMoney(t, "Income", s.Income, 50000)
	assertMoney(t, "Expenses", s.Expenses, 25000)
	assertMoney(t, "Deductions", s.Deductions, 20000)
	assertMoney(t, "TaxableBase", s.TaxableBase, 30000)
	// 171.88 + (30000 - 8952.49) * 0.064
	assertMoney(t, "ISR", s.ISR, 1518.92)
	assertMoney(t, "IVA payable", s.IVA.Payable, 4800)
	assertMoney(t, "TotalTax", s.TotalTax, 6318.92)
	assertMoney(t, "NetIncome", s.NetIncome, 50000-25000-6318.92)
	if !s.EffectiveRate.Equal(12.64) {
		t.Errorf("EffectiveRate = %v, want 12.64%%", s.EffectiveRate)
	}
	if s.Currency != "MXN" {
		t.Errorf("Currency = %q, want MXN", s.Currency)
	}
}

func TestProvisionalSchedule(t *testing.T) {
	var txs []Transaction
	for m := time.January; m <= time.December; m++ {
		txs = append(txs, NewTransaction("", NewDate(2024, m, 15), MXN(20000), KindIncome, "", "banco", "Honorarios", false))
	}
	cfg := DefaultFiscalConfig()

	monthly, err := ProvisionalSchedule(cfg, txs, 2024, date.Monthly, Cumulative)
	if err != nil {
		t.Fatalf("ProvisionalSchedule() unexpected error: %v", err)
	}
	if len(monthly) != 12 {
		t.Fatalf("ProvisionalSchedule() returned %d periods, want 12", len(monthly))
	}
	// 171.88 + (20000 - 8952.49) * 0.064
	assertMoney(t, "January ISR", monthly[0].ISRDue, 878.92)
	// 171.88 + (40000 - 8952.49) * 0.064 - 878.92
	assertMoney(t, "February ISR", monthly[1].ISRDue, 1280)
	if monthly[2].Period != "2024-03" {
		t.Errorf("Period = %q, want 2024-03", monthly[2].Period)
	}

	// the dues add up to the tax of the whole year.
	sum := MXN(0)
	for _, p := range monthly {
		if p.ISRDue.IsNegative() {
			t.Errorf("%s: negative ISR due %v", p.Period, p.ISRDue)
		}
		sum = sum.Add(p.ISRDue)
	}
	annual := CalculateISR(MXN(240000), cfg.Brackets)
	assertMoney(t, "sum of dues", sum, annual.Float())

	quarterly, err := ProvisionalSchedule(cfg, txs, 2024, date.Quarterly, Annualized)
	if err != nil {
		t.Fatalf("ProvisionalSchedule() unexpected error: %v", err)
	}
	if len(quarterly) != 4 {
		t.Fatalf("ProvisionalSchedule() returned %d periods, want 4", len(quarterly))
	}
	// steady income: each quarter pays a quarter of the annual tax, give or take a cent.
	sum = MXN(0)
	for _, p := range quarterly {
		if diff := math.Abs(p.ISRDue.Float() - annual.Float()/4); diff > 0.011 {
			t.Errorf("%s: ISR due %v, want about %.3f", p.Period, p.ISRDue, annual.Float()/4)
		}
		assertMoney(t, p.Period+" IVA", p.IVA.Payable, 60000*0.16)
		sum = sum.Add(p.ISRDue)
	}
	assertMoney(t, "sum of quarterly dues", sum, annual.Float())

	if _, err := ProvisionalSchedule(cfg, txs, 2024, date.Weekly, Cumulative); err == nil {
		t.Errorf("ProvisionalSchedule(Weekly) expected an error")
	}
}

func TestSummarize_MixedCurrencies(t *testing.T) {
	s, err := Summarize(mixedLedger(), DefaultFiscalConfig(), date.Year(2024))
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	// the dollar income is not in the peso summary.
	assertMoney(t, "Income", s.Income, 62000)
	assertMoney(t, "Deductions", s.Deductions, 5000)
	assertMoney(t, "TaxableBase", s.TaxableBase, 57000)
}

func TestProvisionalSchedule_MixedCurrencies(t *testing.T) {
	payments, err := ProvisionalSchedule(DefaultFiscalConfig(), mixedLedger(), 2024, date.Monthly, Cumulative)
	if err != nil {
		t.Fatalf("ProvisionalSchedule() unexpected error: %v", err)
	}
	assertMoney(t, "January income", payments[0].Income, 30000)
	assertMoney(t, "February income", payments[1].Income, 32000)
	assertMoney(t, "February base", payments[1].CumulativeBase, 57000)
}

func TestCalculateISR_EmptyTable(t *testing.T) {
	if got := CalculateISR(MXN(1000), nil); !got.IsZero() {
		t.Errorf("CalculateISR() with no brackets = %v, want 0", got)
	}
	cfg := &FiscalConfig{Extrapolation: StrictCoverage}
	if _, err := cfg.ISR(MXN(1000)); !errors.Is(err, ErrIncomeNotCovered) {
		t.Errorf("strict ISR() with no brackets error = %v, want ErrIncomeNotCovered", err)
	}
	if _, err := cfg.ISR(MXN(0)); err != nil {
		t.Errorf("strict ISR() of 0 with no brackets error = %v, want nil", err)
	}
}
