// Package assets resolves free text to a canonical asset identity.
//
// Resolution is a fixed-priority cascade of pattern and keyword rules. The
// first stage that produces a symbol wins; when none does, callers fall back
// to General.
package assets

import (
	"regexp"
	"strings"

	"market-sentiment/internal/types"
)

const (
	GeneralSymbol = "MARKET-GENERAL"
	GeneralName   = "General Market"

	nifty  = "NIFTY-50"
	sensex = "SENSEX"
)

type companySymbol struct {
	name   string
	symbol string
}

// companies is scanned in order; the first name found as a substring wins.
var companies = []companySymbol{
	{"apple", "AAPL"},
	{"tesla", "TSLA"},
	{"microsoft", "MSFT"},
	{"google", "GOOGL"},
	{"amazon", "AMZN"},
	{"meta", "META"},
	{"facebook", "META"},
	{"nvidia", "NVDA"},
	{"netflix", "NFLX"},
	{"jpmorgan", "JPM"},
	{"bank of america", "BAC"},
	{"goldman sachs", "GS"},
	{"bitcoin", "BTC-USD"},
	{"ethereum", "ETH-USD"},
	{"btc", "BTC-USD"},
	{"eth", "ETH-USD"},
	{"crypto", "BTC-USD"},
	{"nifty", nifty},
	{"nifty 50", nifty},
	{"sensex", sensex},
	{"bse", sensex},
	{"nse", nifty},
}

var companyIndex = func() map[string]string {
	m := make(map[string]string, len(companies))
	for _, c := range companies {
		if _, ok := m[c.name]; !ok {
			m[c.name] = c.symbol
		}
	}
	return m
}()

var (
	cryptoKeywords = []string{"bitcoin", "btc", "ethereum", "eth", "crypto", "cryptocurrency", "blockchain"}

	indianContext = []string{"indian market", "indian equity", "stock market", "equity market", "dalal street"}
	macroContext  = []string{"gdp", "rbi", "mpc", "indian market", "stock market", "equity market"}
	indiaTerms    = []string{"india", "indian", "mumbai", "bombay", "dalal"}

	financialNouns = []string{"stock", "shares", "equity", "trading", "market", "price", "earnings"}

	// excludedTokens are uppercase acronyms that are not tickers.
	excludedTokens = map[string]bool{
		"USD": true, "EUR": true, "GBP": true, "INR": true, "API": true, "CEO": true,
		"CFO": true, "AI": true, "ML": true, "GDP": true, "RBI": true, "MPC": true,
		"FII": true, "DII": true, "IPO": true, "ETF": true, "NSE": true, "BSE": true,
	}

	tickerPattern      = regexp.MustCompile(`\b([A-Z]{1,5}(?:-[A-Z]+)?)\b`)
	capitalizedPattern = regexp.MustCompile(`\b([A-Z][a-z]+)\b`)
	nounPatterns       = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(financialNouns))
		for i, n := range financialNouns {
			out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(n))
		}
		return out
	}()
)

// Identify resolves text to an asset. The boolean reports whether a rule
// matched; when it is false the returned identity is General().
func Identify(text string) (types.AssetIdentity, bool) {
	symbol := DetectSymbol(text)
	if symbol == "" {
		return General(), false
	}
	return FromSymbol(symbol), true
}

// DetectSymbol runs the cascade and returns the first matching symbol, or ""
// when no stage matches.
func DetectSymbol(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lower := strings.ToLower(text)

	// explicit index mentions
	if strings.Contains(lower, "nifty") || strings.Contains(lower, "sensex") || strings.Contains(lower, "bse") {
		return resolveIndex(lower)
	}
	if containsAny(lower, indianContext) {
		return resolveIndex(lower)
	}

	for _, m := range tickerPattern.FindAllStringSubmatch(text, -1) {
		if !excludedTokens[m[1]] {
			return strings.ToUpper(m[1])
		}
	}

	for _, c := range companies {
		if strings.Contains(lower, c.name) {
			return c.symbol
		}
	}

	if containsAny(lower, cryptoKeywords) {
		switch {
		case strings.Contains(lower, "bitcoin") || strings.Contains(lower, "btc"):
			return "BTC-USD"
		case strings.Contains(lower, "ethereum") || strings.Contains(lower, "eth"):
			return "ETH-USD"
		default:
			return "BTC-USD"
		}
	}

	if containsAny(lower, macroContext) && containsAny(lower, indiaTerms) {
		return resolveIndex(lower)
	}

	return symbolBeforeNoun(text)
}

// resolveIndex picks the index mentioned more often; ties go to Nifty.
func resolveIndex(lower string) string {
	n := strings.Count(lower, "nifty")
	s := strings.Count(lower, "sensex") + strings.Count(lower, "bse")
	if s > n {
		return sensex
	}
	return nifty
}

// symbolBeforeNoun looks at the last three capitalized words preceding the
// first occurrence of each financial noun and matches them against the
// company table.
func symbolBeforeNoun(text string) string {
	for _, re := range nounPatterns {
		loc := re.FindStringIndex(text)
		if loc == nil || loc[0] == 0 {
			continue
		}
		words := capitalizedPattern.FindAllString(text[:loc[0]], -1)
		if len(words) > 3 {
			words = words[len(words)-3:]
		}
		for _, w := range words {
			if sym, ok := companyIndex[strings.ToLower(w)]; ok {
				return sym
			}
		}
	}
	return ""
}

// FromSymbol builds an identity for an explicit symbol. Names of crypto
// assets drop the quote currency; everything else is named after its symbol.
func FromSymbol(symbol string) types.AssetIdentity {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" || s == GeneralSymbol {
		return General()
	}
	typ := ClassifyType(s)
	name := s
	if typ == types.Crypto {
		name = strings.ReplaceAll(s, "-USD", "")
	}
	return types.AssetIdentity{Symbol: s, Name: name, Type: typ}
}

// ClassifyType infers the asset type from a symbol.
func ClassifyType(symbol string) types.AssetType {
	s := strings.ToUpper(symbol)
	switch {
	case strings.Contains(s, "-USD") || s == "BTC" || s == "ETH":
		return types.Crypto
	case s == nifty || s == sensex:
		return types.Index
	default:
		return types.Stock
	}
}

// General is the sentinel identity used when nothing matched.
func General() types.AssetIdentity {
	return types.AssetIdentity{Symbol: GeneralSymbol, Name: GeneralName, Type: types.Stock}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
