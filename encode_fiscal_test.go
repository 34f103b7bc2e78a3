package fiscal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFiscalConfigYAML(t *testing.T) {
	input := `
year: 2024
currency: MXN
iva_rate: 0.16
brackets:
  - lower_limit: 0
    limit: 65651.07
    fixed_fee: 0
    rate: 0.0192
  - lower_limit: 65651.07
    limit: 115375.90
    fixed_fee: 3855.14
    rate: 0.1088
  - lower_limit: 115375.90
    limit: null
    fixed_fee: 9265.20
    rate: 0.16
`
	cfg, err := DecodeFiscalConfigYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeFiscalConfigYAML() unexpected error: %v", err)
	}
	if res := cfg.Validate(); !res.IsValid {
		t.Fatalf("decoded configuration is invalid: %q", res.Errors)
	}
	if len(cfg.Brackets) != 3 || cfg.Brackets[2].Bounded() {
		t.Fatalf("decoded brackets = %v, want 3 brackets with an unbounded last one", cfg.Brackets)
	}
	if !cfg.Brackets[1].FixedFee.Equal(decimal.RequireFromString("3855.14")) {
		t.Errorf("FixedFee = %s, want 3855.14", cfg.Brackets[1].FixedFee)
	}
	got, err := cfg.ISR(MXN(100000))
	if err != nil {
		t.Fatalf("ISR() unexpected error: %v", err)
	}
	assertMoney(t, "ISR(100000)", got, 7592.30)

	var buf bytes.Buffer
	if err := EncodeFiscalConfigYAML(&buf, cfg); err != nil {
		t.Fatalf("EncodeFiscalConfigYAML() unexpected error: %v", err)
	}
	back, err := DecodeFiscalConfigYAML(&buf)
	if err != nil {
		t.Fatalf("DecodeFiscalConfigYAML() of encoded config: %v\n%s", err, buf.String())
	}
	if !back.Equal(cfg) {
		t.Errorf("YAML round trip changed the configuration:\n%s", buf.String())
	}
}

func TestFiscalConfigYAML_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"unknown field", "year: 2024\ntaxes: 3\n"},
		{"bad number", "year: 2024\nbrackets:\n  - lower_limit: zero\n"},
		{"bad policy", "year: 2024\nextrapolation: sometimes\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeFiscalConfigYAML(strings.NewReader(tc.input)); err == nil {
				t.Errorf("DecodeFiscalConfigYAML() expected an error")
			}
		})
	}
}

func TestFiscalConfigJSON(t *testing.T) {
	cfg := DefaultFiscalConfig()
	cfg.Extrapolation = StrictCoverage
	cfg.IVARetentionRate = decimal.RequireFromString("0.106667")

	var buf bytes.Buffer
	if err := EncodeFiscalConfigJSON(&buf, cfg); err != nil {
		t.Fatalf("EncodeFiscalConfigJSON() unexpected error: %v", err)
	}
	back, err := DecodeFiscalConfigJSON(&buf)
	if err != nil {
		t.Fatalf("DecodeFiscalConfigJSON() unexpected error: %v", err)
	}
	if !back.Equal(cfg) {
		t.Errorf("JSON round trip changed the configuration")
	}
	if res := back.Validate(); !res.IsValid {
		t.Errorf("round tripped configuration is invalid: %q", res.Errors)
	}
}

func TestLoadFiscalConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultFiscalConfig()

	var yml, jsn bytes.Buffer
	if err := EncodeFiscalConfigYAML(&yml, cfg); err != nil {
		t.Fatal(err)
	}
	if err := EncodeFiscalConfigJSON(&jsn, cfg); err != nil {
		t.Fatal(err)
	}
	files := map[string][]byte{
		"fiscal.yaml": yml.Bytes(),
		"fiscal.json": jsn.Bytes(),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := LoadFiscalConfig(path)
		if err != nil {
			t.Fatalf("LoadFiscalConfig(%s) unexpected error: %v", name, err)
		}
		if !got.Equal(cfg) {
			t.Errorf("LoadFiscalConfig(%s) differs from the saved configuration", name)
		}
	}

	if _, err := LoadFiscalConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("LoadFiscalConfig() of a missing file expected an error")
	}
}
