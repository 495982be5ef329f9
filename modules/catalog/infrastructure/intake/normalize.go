package intake

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeToken strips diacritics, uppercases and trims a header or sheet
// token so heuristics match the publishers' inconsistent spelling.
func NormalizeToken(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

var nonAlnum = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizeSheetName additionally removes every non-alphanumeric rune, so
// "Composições - Desonerado" and "CCD 202401" normalize predictably.
func NormalizeSheetName(name string) string {
	return nonAlnum.ReplaceAllString(NormalizeToken(name), "")
}

var (
	hyperlinkSemicolonRe = regexp.MustCompile(`;(\d{4,6})\)`)
	hyperlinkCommaRe     = regexp.MustCompile(`,(\d{4,6})\)`)
	matchRe              = regexp.MustCompile(`MATCH\((\d{4,6})`)
)

// ExtractCode unwraps spreadsheet-formula artifacts around item codes.
// Publishers wrap codes in =HYPERLINK(...;12345) or HYPERLINK+MATCH formulas;
// the embedded numeric code is the real identity.
func ExtractCode(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.Contains(val, "HYPERLINK") {
		if m := hyperlinkSemicolonRe.FindStringSubmatch(val); m != nil {
			return m[1]
		}
		if m := hyperlinkCommaRe.FindStringSubmatch(val); m != nil {
			return m[1]
		}
		if strings.Contains(val, "MATCH") {
			if m := matchRe.FindStringSubmatch(val); m != nil {
				return m[1]
			}
		}
	}
	return val
}

// SimplifyCode is the lighter cleanup used by the analytic link sheets, where
// codes occasionally arrive with formula punctuation but no numeric capture
// group worth trusting.
func SimplifyCode(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if idx := strings.IndexAny(val, ";,"); idx >= 0 {
		val = val[:idx]
	}
	replacer := strings.NewReplacer("HYPERLINK", "", "=", "", `"`, "", "(", "", ")", "")
	return strings.TrimSpace(replacer.Replace(val))
}

// ParseDecimal parses localized decimal text: currency prefix, "." thousands
// separator and "," decimal comma ("R$ 1.234,56"). Returns false when the
// cell holds no parseable number.
func ParseDecimal(raw string) (decimal.Decimal, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero, false
	}
	text = strings.ReplaceAll(text, "R$", "")
	text = strings.ReplaceAll(text, " ", "")
	if strings.Count(text, ",") == 1 && strings.Contains(text, ".") {
		text = strings.ReplaceAll(text, ".", "")
	}
	text = strings.ReplaceAll(text, ",", ".")
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Regions lists the 27 Brazilian UF codes catalog sheets price against.
var Regions = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG",
	"PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

var regionSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Regions))
	for _, r := range Regions {
		set[r] = struct{}{}
	}
	return set
}()

func IsRegion(token string) bool {
	_, ok := regionSet[token]
	return ok
}

var nonLetters = regexp.MustCompile(`[^A-Z]+`)

// RegionFromFilename finds a UF token inside a filename, the last resort for
// single-region catalogs that do not name the state in any header cell.
// Matching is on whole tokens so SICRO never reads as RO nor SINAPI as PI.
func RegionFromFilename(filename string) string {
	for _, token := range nonLetters.Split(NormalizeToken(filename), -1) {
		if IsRegion(token) {
			return token
		}
	}
	return ""
}
