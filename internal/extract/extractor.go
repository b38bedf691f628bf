// Package extract recognizes ticker symbols in post text.
//
// Three strategies run in order of confidence: cashtags ($GME), tickers
// adjacent to a trading trigger phrase ("buying GME", "GME calls"), and
// bare uppercase tokens filtered through an exclusion set. Tickers inside
// markdown link targets, code spans, URLs and quoted attributions are
// ignored. Extraction never fails: malformed input yields an empty result.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Confidence is the extraction confidence tier of a match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // cashtag form
	ConfidenceMedium Confidence = "medium" // contextual form
	ConfidenceLow    Confidence = "low"    // standalone form
)

// Match is one extracted ticker with the context of its first occurrence.
type Match struct {
	Ticker     string
	Start      int
	End        int
	Context    string
	Confidence Confidence
	Cashtag    bool
}

var (
	cashtagPattern    = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	standalonePattern = regexp.MustCompile(`\b([A-Z]{2,5})\b`)

	contextualPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:\b|^)(?i:buying|bought|buy|long|calls?\s+on|puts?\s+on|sold|selling|sell|short(?:ing)?|ticker)[:\s]+\$?([A-Z]{2,5})\b`),
		regexp.MustCompile(`\b([A-Z]{2,5})\s+(?i:calls?|puts?|options?|shares?|stock)\b`),
		regexp.MustCompile(`\b([A-Z]{2,5})\s+(?:at\s+)?\$\d`),
	}

	// Spans blanked out before any matching.
	codeFencePattern  = regexp.MustCompile("(?s)```.*?```")
	codeSpanPattern   = regexp.MustCompile("`[^`\n]*`")
	linkTargetPattern = regexp.MustCompile(`\]\([^)\s]*\)`)
	urlPattern        = regexp.MustCompile(`https?://\S+`)

	// Quoted attributions are suppressed for the standalone pass only.
	quotedPattern = regexp.MustCompile(`"[^"\n]{1,200}"`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

const maxContextLen = 500

// Extractor recognizes ticker symbols in raw text. It is stateless and
// safe for concurrent use. Exclusions are fixed at construction; there is
// no ambient mutable state.
type Extractor struct {
	exclusions    map[string]struct{}
	contextRadius int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithExtraExclusions adds tokens to the default exclusion set.
func WithExtraExclusions(tokens []string) Option {
	return func(e *Extractor) {
		for _, t := range tokens {
			e.exclusions[strings.ToUpper(strings.TrimSpace(t))] = struct{}{}
		}
	}
}

// WithContextRadius sets the snippet radius in characters (default 100).
func WithContextRadius(radius int) Option {
	return func(e *Extractor) {
		if radius > 0 {
			e.contextRadius = radius
		}
	}
}

// NewExtractor creates an extractor with the default exclusion set.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		exclusions:    make(map[string]struct{}, len(defaultExclusions)),
		contextRadius: 100,
	}
	for token := range defaultExclusions {
		e.exclusions[token] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the distinct tickers judged present in text, one Match
// per ticker keyed on its first and highest-confidence occurrence.
func (e *Extractor) Extract(text string) []Match {
	if text == "" {
		return nil
	}

	clean := blankSpans(text, codeFencePattern, codeSpanPattern, linkTargetPattern, urlPattern)
	seen := make(map[string]int)
	var matches []Match

	record := func(ticker string, start, end int, conf Confidence, cashtag bool) {
		if _, dup := seen[ticker]; dup {
			return
		}
		seen[ticker] = len(matches)
		matches = append(matches, Match{
			Ticker:     ticker,
			Start:      start,
			End:        end,
			Context:    e.snippet(text, start, end),
			Confidence: conf,
			Cashtag:    cashtag,
		})
	}

	// Pass 1: cashtags. Always accepted, including single letters and
	// tokens on the exclusion list; the $ prefix is unambiguous.
	for _, loc := range cashtagPattern.FindAllStringSubmatchIndex(clean, -1) {
		ticker := clean[loc[2]:loc[3]]
		record(ticker, loc[0], loc[1], ConfidenceHigh, true)
	}

	// Pass 2: contextual form next to a trigger phrase or price figure.
	for _, pattern := range contextualPatterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(clean, -1) {
			ticker := clean[loc[2]:loc[3]]
			if e.excluded(ticker) {
				continue
			}
			record(ticker, loc[2], loc[3], ConfidenceMedium, false)
		}
	}

	// Pass 3: standalone uppercase tokens, with quoted spans suppressed.
	bare := blankSpans(clean, quotedPattern)
	for _, loc := range standalonePattern.FindAllStringSubmatchIndex(bare, -1) {
		ticker := bare[loc[2]:loc[3]]
		if e.excluded(ticker) {
			continue
		}
		record(ticker, loc[0], loc[1], ConfidenceLow, false)
	}

	return matches
}

// ExtractSymbols returns just the distinct ticker symbols.
func (e *Extractor) ExtractSymbols(text string) []string {
	matches := e.Extract(text)
	if len(matches) == 0 {
		return nil
	}
	symbols := make([]string, len(matches))
	for i, m := range matches {
		symbols[i] = m.Ticker
	}
	return symbols
}

func (e *Extractor) excluded(ticker string) bool {
	_, ok := e.exclusions[ticker]
	return ok
}

// snippet extracts the context window around a match against the original
// text, collapsing whitespace and marking truncation.
func (e *Extractor) snippet(text string, start, end int) string {
	ctxStart := start - e.contextRadius
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + e.contextRadius
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}

	// The radius is in bytes; snap the window to rune boundaries so
	// emoji-heavy posts are never cut mid-rune.
	for ctxStart > 0 && !utf8.RuneStart(text[ctxStart]) {
		ctxStart--
	}
	for ctxEnd < len(text) && !utf8.RuneStart(text[ctxEnd]) {
		ctxEnd++
	}

	snippet := whitespacePattern.ReplaceAllString(strings.TrimSpace(text[ctxStart:ctxEnd]), " ")
	if ctxStart > 0 {
		snippet = "..." + snippet
	}
	if ctxEnd < len(text) {
		snippet = snippet + "..."
	}
	if len(snippet) > maxContextLen {
		cut := maxContextLen
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}
	return snippet
}

// blankSpans replaces every match of the given patterns with spaces so
// later matching cannot see them while byte offsets stay stable.
func blankSpans(text string, patterns ...*regexp.Regexp) string {
	buf := []byte(text)
	for _, pattern := range patterns {
		for _, loc := range pattern.FindAllIndex(buf, -1) {
			for i := loc[0]; i < loc[1]; i++ {
				buf[i] = ' '
			}
		}
	}
	return string(buf)
}
