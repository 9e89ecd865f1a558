package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"contract-management-api/utils"
)

// ExtractedFields is a best-effort projection of the contract input fields
// recovered from raw OCR text. Every field is independently nullable; a
// garbled region of the document blanks that field only. The projection is
// transient and never persisted directly.
type ExtractedFields struct {
	ContractNumber   *string    `json:"contract_number"`
	Name             *string    `json:"name"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	Amount           *float64   `json:"amount"`
	Currency         *string    `json:"currency"`
	ContractType     *string    `json:"contract_type"`
	PaymentFrequency *string    `json:"payment_frequency"`
	AutoRenew        bool       `json:"auto_renew"`
	ProviderContact  *string    `json:"provider_contact"`
}

var (
	reContractNumber  = regexp.MustCompile(`(?i)contrat\s*(?:n°\s*:?)?\s*([A-Za-z0-9\-_/]+)`)
	reName            = regexp.MustCompile(`(?i)objet\s*[:–\-]?\s*(.+)`)
	reStartDate       = regexp.MustCompile(`Date\s*(?:de\s*d[ée]but)\s*[:–\-]?\s*(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2})`)
	reEndDate         = regexp.MustCompile(`Date\s*(?:de\s*f(?:in|inal))\s*[:–\-]?\s*(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2})`)
	reAmount          = regexp.MustCompile(`(?:€|EUR)?\s*((?:\d{1,3}(?:[ .]\d{3})+|\d+)[.,]\d{2})\b`)
	reContractType    = regexp.MustCompile(`(?i)type\s*[:–\-]?\s*(.+)`)
	reFrequency       = regexp.MustCompile(`(?i)fr[ée]quence\s*[:–\-]?\s*(mensuelle|annuel|unique|trimestrielle)`)
	reAutoRenew       = regexp.MustCompile(`(?i)auto[- ]?renouvellement`)
	reProviderContact = regexp.MustCompile(`(?i)contact\s*(?:fournisseur)?\s*[:–\-]?\s*([A-Za-z0-9.%_+\-@ ]+)`)
)

// paymentFrequencies is the closed label set, keyed by lowercase match.
var paymentFrequencies = map[string]string{
	"mensuelle":     "Mensuelle",
	"annuel":        "Annuel",
	"unique":        "Unique",
	"trimestrielle": "Trimestrielle",
}

// fieldExtractors maps each label pattern to its normalizer. The extractors
// are independent: adding a field or locale means appending an entry, not
// touching the others.
var fieldExtractors = []func(text string, f *ExtractedFields){
	func(text string, f *ExtractedFields) { f.ContractNumber = extractGroup(text, reContractNumber) },
	func(text string, f *ExtractedFields) { f.Name = extractGroup(text, reName) },
	func(text string, f *ExtractedFields) { f.StartDate = ExtractDate(text, reStartDate) },
	func(text string, f *ExtractedFields) { f.EndDate = ExtractDate(text, reEndDate) },
	func(text string, f *ExtractedFields) {
		f.Amount = ExtractAmount(text)
		f.Currency = extractCurrency(text, f.Amount)
	},
	func(text string, f *ExtractedFields) { f.ContractType = extractGroup(text, reContractType) },
	func(text string, f *ExtractedFields) { f.PaymentFrequency = ExtractPaymentFrequency(text) },
	func(text string, f *ExtractedFields) { f.AutoRenew = ExtractAutoRenew(text) },
	func(text string, f *ExtractedFields) { f.ProviderContact = extractGroup(text, reProviderContact) },
}

// ParseContractFields runs every extractor over the raw OCR text and returns
// the union of their results. It never fails: a field the text does not
// yield stays nil.
func ParseContractFields(text string) ExtractedFields {
	// OCR output frequently carries non-breaking spaces.
	text = strings.ReplaceAll(text, " ", " ")

	var fields ExtractedFields
	for _, extract := range fieldExtractors {
		extract(text, &fields)
	}
	return fields
}

// extractGroup returns the first occurrence of capture group 1, trimmed,
// or nil when the pattern does not match.
func extractGroup(text string, re *regexp.Regexp) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}

// ExtractDate locates the pattern's capture group and parses it as either
// DD/MM/YYYY or YYYY-MM-DD. Malformed date text is a data-quality issue,
// not an error: it returns nil.
func ExtractDate(text string, re *regexp.Regexp) *time.Time {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := strings.TrimSpace(m[1])

	layout := utils.DateLayout
	if strings.Contains(raw, "/") {
		layout = "02/01/2006"
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// ExtractAmount finds the first numeric token with exactly two fractional
// digits, tolerating space or dot grouping and a decimal comma, e.g.
// "1 200,50", "1.200,50" or "1200.50". The result is the canonical decimal
// value, or nil when no such token exists.
func ExtractAmount(text string) *float64 {
	m := reAmount.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	raw := strings.ReplaceAll(m[1], " ", "")
	// The last separator is the decimal mark; everything before it is grouping.
	sep := strings.LastIndexAny(raw, ",.")
	intPart := strings.Map(keepDigits, raw[:sep])
	fracPart := raw[sep+1:]

	v, err := strconv.ParseFloat(intPart+"."+fracPart, 64)
	if err != nil {
		return nil
	}
	return &v
}

func keepDigits(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

// extractCurrency infers "EUR" only when an amount was found and a euro
// glyph appears anywhere in the text.
func extractCurrency(text string, amount *float64) *string {
	if amount == nil || !strings.Contains(text, "€") {
		return nil
	}
	eur := "EUR"
	return &eur
}

// ExtractPaymentFrequency matches one of the closed label set
// (Mensuelle, Annuel, Unique, Trimestrielle) case-insensitively.
func ExtractPaymentFrequency(text string) *string {
	m := reFrequency.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	canonical, ok := paymentFrequencies[strings.ToLower(m[1])]
	if !ok {
		return nil
	}
	return &canonical
}

// ExtractAutoRenew reports whether the text mentions auto-renewal,
// tolerating hyphen or space between the words and any casing.
func ExtractAutoRenew(text string) bool {
	return reAutoRenew.MatchString(text)
}
