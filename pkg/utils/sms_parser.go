package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultSmsCurrency  = "FCFA"
	HeuristicConfidence = 0.6
)

// spaceClass also covers the no-break and narrow no-break spaces French number
// formatting puts between thousands; RE2's \s is ASCII only.
const spaceClass = `\s\x{00A0}\x{202F}`

var (
	referencePattern = regexp.MustCompile(`(?i)\bID[:` + spaceClass + `-]*([A-Z0-9.\-]+)\b`)
	amountPattern    = regexp.MustCompile(`(?i)transfert[` + spaceClass + `]+de[` + spaceClass + `]+([\d` + spaceClass + `.,]+)[` + spaceClass + `]*(FCFA|XOF)`)
	fromPhonePattern = regexp.MustCompile(`(?i)du[` + spaceClass + `](\+?\d{6,15})`)
	toPhonePattern   = regexp.MustCompile(`(?i)au[` + spaceClass + `](\+?\d{6,15})`)
	amountStrip      = regexp.MustCompile(`[` + spaceClass + `.]`)
)

// ParsedSmsFields is what can be pulled out of a mobile-money SMS body.
type ParsedSmsFields struct {
	PaymentReference   *string
	AmountCents        *int64
	Currency           string
	CounterpartyNumber *string
	Provider           *string
	ParsedConfidence   float64
}

// ExtractSmsFields runs the regex heuristics tuned for French Orange Money / MTN templates.
// Fields it cannot find are nil; confidence is always HeuristicConfidence.
func ExtractSmsFields(text string) ParsedSmsFields {
	parsed := ParsedSmsFields{
		Currency:         DefaultSmsCurrency,
		ParsedConfidence: HeuristicConfidence,
	}

	if m := referencePattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		ref := m[1]
		parsed.PaymentReference = &ref
	}

	if m := amountPattern.FindStringSubmatch(text); m != nil {
		parsed.AmountCents = normalizeAmount(m[1])
		parsed.Currency = m[2]
	}

	phone := fromPhonePattern.FindStringSubmatch(text)
	if phone == nil {
		phone = toPhonePattern.FindStringSubmatch(text)
	}
	if phone != nil {
		number := phone[1]
		parsed.CounterpartyNumber = &number
	}

	return parsed
}

// ParseSmsAmount applies only the "transfert de <n> FCFA|XOF" rule.
func ParseSmsAmount(text string) *int64 {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return normalizeAmount(m[1])
}

// normalizeAmount drops spaces and dots, then the first comma, and reads the digits
// that remain. "5 000,00" therefore becomes 500000: the value is the digit string,
// not a x100 conversion, and downstream amount comparisons depend on that.
func normalizeAmount(raw string) *int64 {
	cleaned := amountStrip.ReplaceAllString(raw, "")
	cleaned = strings.Replace(cleaned, ",", "", 1)
	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) || value >= math.MaxInt64 {
		return nil
	}
	amount := int64(value)
	return &amount
}
