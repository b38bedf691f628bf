// Package sentiment scores text spans with a rule-based lexicon model.
//
// The scorer follows the usual valence-rules approach: per-token lexicon
// lookup with negation flipping, degree modifiers, capitalization and
// punctuation emphasis, then alpha normalization of the summed valences
// into a compound score in [-1, 1]. A community lexicon is layered over
// the general-purpose table and wins on overlap; emoji are normalized to
// lexicon tokens before scoring.
package sentiment

import (
	"math"
	"regexp"
	"strings"

	"wsbpulse/internal/domain"
)

// Scaling constants of the valence-rules model.
const (
	boostIncr     = 0.293 // degree modifier increment
	capsIncr      = 0.733 // ALL-CAPS emphasis
	negationScale = -0.74 // negation flips and damps
	alphaNorm     = 15.0  // normalization denominator constant
	maxExclPoint  = 4.0   // exclamation emphasis cap (count)
	exclScale     = 0.292
	quesScaleLow  = 0.18
	quesScaleHigh = 0.96
)

var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nobody": {},
	"nothing": {}, "neither": {}, "nor": {}, "cannot": {}, "cant": {},
	"can't": {}, "wont": {}, "won't": {}, "dont": {}, "don't": {},
	"doesnt": {}, "doesn't": {}, "didnt": {}, "didn't": {}, "isnt": {},
	"isn't": {}, "wasnt": {}, "wasn't": {}, "aint": {}, "ain't": {},
	"without": {}, "hardly": {}, "barely": {},
}

var boosters = map[string]float64{
	"very": boostIncr, "extremely": boostIncr, "absolutely": boostIncr,
	"completely": boostIncr, "incredibly": boostIncr, "really": boostIncr,
	"so": boostIncr, "super": boostIncr, "totally": boostIncr,
	"insanely": boostIncr, "hugely": boostIncr, "massively": boostIncr,
	"slightly": -boostIncr, "somewhat": -boostIncr, "kind of": -boostIncr,
	"kinda": -boostIncr, "marginally": -boostIncr, "barely": -boostIncr,
	"a bit": -boostIncr, "a little": -boostIncr,
}

var (
	// RE2 has no backreferences, so ([a-zA-Z])\1{3,} is spelled out per letter.
	repeatedLetters = regexp.MustCompile(`a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|A{4,}|B{4,}|C{4,}|D{4,}|E{4,}|F{4,}|G{4,}|H{4,}|I{4,}|J{4,}|K{4,}|L{4,}|M{4,}|N{4,}|O{4,}|P{4,}|Q{4,}|R{4,}|S{4,}|T{4,}|U{4,}|V{4,}|W{4,}|X{4,}|Y{4,}|Z{4,}`)
	excessBangs     = regexp.MustCompile(`!{4,}`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	tokenSplit      = regexp.MustCompile(`[^\w'$-]+`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
)

// Analyzer scores text spans. It is immutable after construction and safe
// for concurrent use across posts.
type Analyzer struct {
	lexicon *Lexicon
}

// NewAnalyzer creates an analyzer over the given lexicon.
func NewAnalyzer(lexicon *Lexicon) *Analyzer {
	if lexicon == nil {
		lexicon = NewLexicon()
	}
	return &Analyzer{lexicon: lexicon}
}

// Analyze scores a text span and returns its sentiment. It never fails;
// text with no lexicon hits scores neutral.
func (a *Analyzer) Analyze(text string) domain.Sentiment {
	processed := a.preprocess(text)
	tokens := tokenize(processed)
	if len(tokens) == 0 {
		return domain.Sentiment{Neutral: 1.0}
	}

	allCaps := isAllCaps(processed)
	valences := make([]float64, len(tokens))

	for i, token := range tokens {
		// Joined phrases carry underscores; the lexicon keys use spaces.
		lower := strings.ReplaceAll(strings.ToLower(token), "_", " ")
		valence, ok := a.lexicon.Valence(lower)
		if !ok {
			continue
		}

		// Capitalization emphasis, unless the whole text is shouting.
		if !allCaps && isUpperWord(token) {
			if valence > 0 {
				valence += capsIncr
			} else if valence < 0 {
				valence -= capsIncr
			}
		}

		// Degree modifiers up to three tokens back, damped by distance.
		for dist := 1; dist <= 3 && i-dist >= 0; dist++ {
			prev := strings.ToLower(tokens[i-dist])
			boost, isBooster := boosters[prev]
			if !isBooster {
				continue
			}
			if valence < 0 {
				boost = -boost
			}
			switch dist {
			case 2:
				boost *= 0.95
			case 3:
				boost *= 0.9
			}
			valence += boost
		}

		// Negation within the three preceding tokens flips and damps.
		for dist := 1; dist <= 3 && i-dist >= 0; dist++ {
			prev := strings.ToLower(tokens[i-dist])
			if _, isNegator := negators[prev]; isNegator {
				valence *= negationScale
				break
			}
		}

		valences[i] = valence
	}

	var sum, posSum, negSum float64
	neuCount := 0
	for _, v := range valences {
		sum += v
		switch {
		case v > 0:
			posSum += v + 1
		case v < 0:
			negSum += v - 1
		default:
			neuCount++
		}
	}

	// Punctuation emphasis shifts the total toward its sign.
	emphasis := punctuationEmphasis(text)
	if sum > 0 {
		sum += emphasis
	} else if sum < 0 {
		sum -= emphasis
	}

	compound := normalize(sum)

	total := posSum + math.Abs(negSum) + float64(neuCount)
	sentiment := domain.Sentiment{Compound: compound}
	if total > 0 {
		sentiment.Positive = math.Abs(posSum / total)
		sentiment.Negative = math.Abs(negSum / total)
		sentiment.Neutral = float64(neuCount) / total
	} else {
		sentiment.Neutral = 1.0
	}
	return sentiment
}

// AnalyzeForTicker scores text weighted toward the sentences that mention
// the ticker: 40% overall, 60% ticker-bearing sentences.
func (a *Analyzer) AnalyzeForTicker(text, ticker string) domain.Sentiment {
	overall := a.Analyze(text)
	if ticker == "" {
		return overall
	}

	upper := strings.ToUpper(ticker)
	var tickerSentences []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		sentenceUpper := strings.ToUpper(sentence)
		if strings.Contains(sentenceUpper, upper) || strings.Contains(sentenceUpper, "$"+upper) {
			tickerSentences = append(tickerSentences, sentence)
		}
	}
	if len(tickerSentences) == 0 {
		return overall
	}

	focused := a.Analyze(strings.Join(tickerSentences, " "))
	blended := overall.Compound*0.4 + focused.Compound*0.6
	overall.Compound = clamp(blended)
	return overall
}

// preprocess normalizes emoji, collapses letter repetition used for
// emphasis (MOOOOON), trims excess exclamation runs and joins multi-word
// lexicon phrases into single tokens so they survive tokenization.
func (a *Analyzer) preprocess(text string) string {
	text = normalizeEmoji(text)
	text = repeatedLetters.ReplaceAllStringFunc(text, func(m string) string { return m[:3] })
	text = excessBangs.ReplaceAllString(text, "!!!")
	text = whitespaceRuns.ReplaceAllString(text, " ")

	lower := strings.ToLower(text)
	for _, phrase := range a.lexicon.Phrases() {
		if strings.Contains(lower, phrase) {
			joined := strings.ReplaceAll(phrase, " ", "_")
			text = replaceFold(text, phrase, joined)
			lower = strings.ToLower(text)
		}
	}
	return strings.TrimSpace(text)
}

// tokenize splits on non-word runs. Underscores survive the split so
// joined phrases stay single tokens.
func tokenize(text string) []string {
	parts := tokenSplit.Split(text, -1)
	tokens := parts[:0]
	for _, part := range parts {
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// replaceFold replaces all case-insensitive occurrences of old with new.
func replaceFold(s, old, new string) string {
	var b strings.Builder
	lower := strings.ToLower(s)
	oldLower := strings.ToLower(old)
	for {
		idx := strings.Index(lower, oldLower)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString(new)
		s = s[idx+len(old):]
		lower = lower[idx+len(oldLower):]
	}
}

func punctuationEmphasis(text string) float64 {
	bangs := strings.Count(text, "!")
	if bangs > int(maxExclPoint) {
		bangs = int(maxExclPoint)
	}
	emphasis := float64(bangs) * exclScale

	questions := strings.Count(text, "?")
	if questions > 1 {
		if questions <= 3 {
			emphasis += float64(questions) * quesScaleLow
		} else {
			emphasis += quesScaleHigh
		}
	}
	return emphasis
}

// normalize maps the summed valence onto [-1, 1].
func normalize(score float64) float64 {
	norm := score / math.Sqrt(score*score+alphaNorm)
	return clamp(norm)
}

func clamp(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return v
}

func isAllCaps(text string) bool {
	hasLetter := false
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func isUpperWord(token string) bool {
	hasLetter := false
	for _, r := range token {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter && len(token) > 1
}
