package fiscal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// number is a decimal written as a plain YAML number, without loss.
type number struct{ decimal.Decimal }

func (n number) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: n.String()}, nil
}

func (n *number) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q: %w", node.Line, node.Value, err)
	}
	n.Decimal = d
	return nil
}

// yconfig is the YAML representation of a FiscalConfig.
type yconfig struct {
	Year             int        `yaml:"year"`
	Currency         string     `yaml:"currency,omitempty"`
	Extrapolation    string     `yaml:"extrapolation,omitempty"`
	IVARate          *number    `yaml:"iva_rate"`
	IVARetentionRate *number    `yaml:"iva_retention_rate,omitempty"`
	Brackets         []ybracket `yaml:"brackets"`
}

type ybracket struct {
	LowerLimit number  `yaml:"lower_limit"`
	Limit      *number `yaml:"limit"` // null for the unbounded bracket
	FixedFee   number  `yaml:"fixed_fee"`
	Rate       number  `yaml:"rate"`
}

// DecodeFiscalConfigYAML decodes a fiscal configuration from YAML.
// A missing IVA rate defaults to DefaultIVARate.
func DecodeFiscalConfigYAML(r io.Reader) (*FiscalConfig, error) {
	var yc yconfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&yc); err != nil {
		return nil, fmt.Errorf("cannot decode fiscal configuration: %w", err)
	}

	extrapolation, err := ParseExtrapolation(yc.Extrapolation)
	if err != nil {
		return nil, err
	}
	cfg := &FiscalConfig{
		Year:          yc.Year,
		Currency:      yc.Currency,
		Brackets:      make([]TaxBracket, 0, len(yc.Brackets)),
		IVARate:       DefaultIVARate,
		Extrapolation: extrapolation,
	}
	if yc.IVARate != nil {
		cfg.IVARate = yc.IVARate.Decimal
	}
	if yc.IVARetentionRate != nil {
		cfg.IVARetentionRate = yc.IVARetentionRate.Decimal
	}
	for _, yb := range yc.Brackets {
		b := TaxBracket{LowerLimit: yb.LowerLimit.Decimal, FixedFee: yb.FixedFee.Decimal, Rate: yb.Rate.Decimal}
		if yb.Limit != nil {
			limit := yb.Limit.Decimal
			b.Limit = &limit
		}
		cfg.Brackets = append(cfg.Brackets, b)
	}
	return cfg, nil
}

// EncodeFiscalConfigYAML writes a fiscal configuration as YAML.
func EncodeFiscalConfigYAML(w io.Writer, cfg *FiscalConfig) error {
	yc := yconfig{
		Year:          cfg.Year,
		Currency:      cfg.Currency,
		Extrapolation: string(cfg.Extrapolation),
		IVARate:       &number{cfg.IVARate},
		Brackets:      make([]ybracket, 0, len(cfg.Brackets)),
	}
	if !cfg.IVARetentionRate.IsZero() {
		yc.IVARetentionRate = &number{cfg.IVARetentionRate}
	}
	for _, b := range cfg.Brackets {
		yb := ybracket{LowerLimit: number{b.LowerLimit}, FixedFee: number{b.FixedFee}, Rate: number{b.Rate}}
		if b.Limit != nil {
			yb.Limit = &number{*b.Limit}
		}
		yc.Brackets = append(yc.Brackets, yb)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yc); err != nil {
		return fmt.Errorf("cannot encode fiscal configuration: %w", err)
	}
	return enc.Close()
}

// DecodeFiscalConfigJSON decodes a fiscal configuration from JSON.
func DecodeFiscalConfigJSON(r io.Reader) (*FiscalConfig, error) {
	cfg := &FiscalConfig{IVARate: DefaultIVARate}
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("cannot decode fiscal configuration: %w", err)
	}
	extrapolation, err := ParseExtrapolation(string(cfg.Extrapolation))
	if err != nil {
		return nil, err
	}
	cfg.Extrapolation = extrapolation
	return cfg, nil
}

// EncodeFiscalConfigJSON writes a fiscal configuration as indented JSON.
func EncodeFiscalConfigJSON(w io.Writer, cfg *FiscalConfig) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// LoadFiscalConfig reads a fiscal configuration file, JSON for a .json
// extension, YAML otherwise.
func LoadFiscalConfig(filename string) (*FiscalConfig, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open fiscal configuration %q: %w", filename, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return DecodeFiscalConfigJSON(f)
	}
	return DecodeFiscalConfigYAML(f)
}
