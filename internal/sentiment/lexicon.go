package sentiment

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Lexicon maps lowercase tokens (words, phrases, normalized emoji) to
// signed valences on the -4..+4 scale. It is built once at startup and
// passed into the Analyzer; there is no ambient mutable lexicon state.
// Domain terms take precedence over base terms for overlapping tokens.
type Lexicon struct {
	valences map[string]float64
	phrases  []string // multi-word entries, longest first
}

// NewLexicon builds the default lexicon: the base general-purpose valence
// table with the domain (community slang) table layered on top.
func NewLexicon() *Lexicon {
	lex := &Lexicon{valences: make(map[string]float64, len(baseLexicon)+len(domainLexicon))}
	for token, valence := range baseLexicon {
		lex.valences[token] = valence
	}
	for token, valence := range domainLexicon {
		lex.valences[token] = valence
	}
	lex.indexPhrases()
	return lex
}

// LoadExtraTerms layers additional token->valence entries from a YAML
// file on top of the lexicon. Values are clamped to [-4, 4].
func (l *Lexicon) LoadExtraTerms(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read lexicon file: %w", err)
	}
	var terms map[string]float64
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return fmt.Errorf("parse lexicon file: %w", err)
	}
	for token, valence := range terms {
		l.Set(token, valence)
	}
	return nil
}

// Set adds or overrides a single token valence, clamped to [-4, 4].
func (l *Lexicon) Set(token string, valence float64) {
	if valence > 4.0 {
		valence = 4.0
	} else if valence < -4.0 {
		valence = -4.0
	}
	l.valences[strings.ToLower(strings.TrimSpace(token))] = valence
	l.indexPhrases()
}

// Valence returns the valence for a lowercase token.
func (l *Lexicon) Valence(token string) (float64, bool) {
	v, ok := l.valences[token]
	return v, ok
}

// Phrases returns the multi-word lexicon entries, longest first, for
// pre-tokenization phrase joining.
func (l *Lexicon) Phrases() []string {
	return l.phrases
}

// Len returns the number of entries.
func (l *Lexicon) Len() int {
	return len(l.valences)
}

func (l *Lexicon) indexPhrases() {
	l.phrases = l.phrases[:0]
	for token := range l.valences {
		if strings.Contains(token, " ") {
			l.phrases = append(l.phrases, token)
		}
	}
	// Longest first so "literally cannot go tits up" wins over subsets.
	for i := 1; i < len(l.phrases); i++ {
		for j := i; j > 0 && len(l.phrases[j]) > len(l.phrases[j-1]); j-- {
			l.phrases[j], l.phrases[j-1] = l.phrases[j-1], l.phrases[j]
		}
	}
}

// domainLexicon holds community-specific bullish and bearish terms on the
// same -4..+4 scale as the base lexicon.
var domainLexicon = map[string]float64{
	// Bullish
	"moon": 3.0, "mooning": 3.5, "moonshot": 3.5,
	"rockets": 3.0, "rocket": 2.5,
	"tendies": 2.5,
	"squeeze": 2.0, "squeezing": 2.5, "gamma squeeze": 3.0, "short squeeze": 3.0,
	"diamond hands": 2.5, "diamondhands": 2.5,
	"free money": 3.0, "infinite money glitch": 3.0,
	"cant go tits up": 2.5, "literally cannot go tits up": 3.0,
	"bullish": 3.0, "very bullish": 3.5, "extremely bullish": 4.0, "super bullish": 3.5,
	"undervalued": 2.0,
	"breakout": 2.0, "breaking out": 2.5,
	"printing": 2.0, "printer": 1.5, "brrrr": 2.0, "brrr": 2.0,
	"lambo": 2.5, "lambos": 2.5, "wen lambo": 2.0, "yacht": 2.0,
	"gainz": 2.0, "gains": 2.0, "gain porn": 2.5,
	"profit": 1.5, "profits": 1.5, "green": 1.5,
	"ripping": 2.5, "rips": 2.0, "rip": 2.0, "parabolic": 2.5,
	"apes": 1.5, "ape": 1.0, "apes together strong": 2.0,
	"strong": 1.5, "buying": 1.5, "bought": 1.0, "buy": 1.0, "long": 1.0,
	"calls": 1.5, "call options": 1.5, "accumulating": 1.5,
	"hodl": 2.0, "hodling": 2.0, "hold": 1.0, "holding": 1.0,
	"loading": 1.5, "loaded": 1.5,
	"btfd": 1.5, "buy the dip": 1.5, "dip buying": 1.5,
	"support": 1.0, "bounce": 1.5, "recovery": 1.5,
	"rally": 2.0, "rallying": 2.0, "upside": 1.5, "winner": 1.5,

	// Bearish
	"bearish": -3.0, "very bearish": -3.5, "extremely bearish": -4.0, "super bearish": -3.5,
	"rug pull": -3.5, "rugpull": -3.5, "rugged": -3.5,
	"scam": -3.0, "fraud": -3.5, "ponzi": -3.5,
	"guh": -3.5,
	"rekt": -3.0, "wrecked": -2.5,
	"blown up": -3.0, "blew up": -3.0,
	"worthless": -3.0, "zero": -2.5,
	"dump": -2.5, "dumping": -3.0, "dumped": -2.5,
	"crash": -3.0, "crashing": -3.5, "crashed": -3.0,
	"tank": -2.5, "tanking": -3.0, "tanked": -2.5,
	"drilling": -2.5, "drill": -2.0, "drilled": -2.5,
	"bleeding": -2.0, "red": -1.5,
	"bags": -2.0, "bagholder": -2.5, "bagholding": -2.5,
	"bag holder": -2.5, "bag holding": -2.5,
	"loss porn": -2.0, "loss": -2.0, "losses": -2.0,
	"paper hands": -2.0, "paperhands": -2.0,
	"overvalued": -1.5, "bubble": -2.0,
	"manipulation": -2.0, "manipulated": -2.0,
	"puts": -1.5, "put options": -1.5,
	"short": -1.0, "shorting": -1.5, "shorted": -1.0,
	"sell": -1.0, "selling": -1.5, "sold": -1.0,
	"downside": -1.5, "resistance": -0.5,
	"pullback": -1.0, "correction": -1.5, "dip": -0.5,
	"expire worthless": -2.5, "expired worthless": -2.5,
	"theta": -1.0, "iv crush": -2.0,
	"margin call": -3.0, "margin called": -3.0,
	"priced in": -0.5,

	// Neutral / contextual
	"dd": 1.0, "due diligence": 1.0,
	"research": 0.5, "analysis": 0.5,
	"yolo": 0.5, "fomo": 0.0, "fud": -0.5,
	"sec": -0.5, "earnings": 0.0,
}

// baseLexicon is the general-purpose valence table the rule scorer starts
// from. Values follow the usual -4..+4 convention of rule-based sentiment
// lexicons; the domain table above overrides any overlap.
var baseLexicon = map[string]float64{
	"good": 1.9, "great": 3.1, "excellent": 3.2, "amazing": 2.8, "awesome": 3.1,
	"best": 3.2, "better": 1.9, "fantastic": 2.6, "wonderful": 2.7, "perfect": 2.7,
	"love": 3.2, "loved": 2.9, "loves": 2.7, "like": 1.5, "liked": 1.6,
	"happy": 2.7, "glad": 2.0, "excited": 2.3, "exciting": 2.2, "win": 2.8,
	"winning": 2.4, "wins": 2.7, "success": 2.7, "successful": 2.8,
	"opportunity": 1.8, "promising": 1.9, "solid": 1.5, "safe": 1.6,
	"confident": 2.2, "confidence": 2.3, "optimistic": 2.0, "positive": 2.3,
	"huge": 1.3, "massive": 1.0, "growth": 1.9, "growing": 1.7, "grow": 1.6,
	"beat": 1.5, "beats": 1.4, "surge": 1.7, "surged": 1.6, "soar": 2.0,
	"soared": 1.9, "soaring": 2.0, "jump": 1.2, "jumped": 1.1,
	"up": 0.9, "higher": 1.0, "high": 1.1, "record": 1.2, "upgrade": 1.6,
	"upgraded": 1.5, "outperform": 1.8, "beat estimates": 2.0,
	"cheap": 0.8, "value": 1.3, "quality": 1.6, "easy": 1.1, "sweet": 1.8,
	"nice": 1.8, "cool": 1.3, "fun": 2.3, "enjoy": 2.2, "thanks": 1.9,
	"yes": 1.7, "sure": 1.3, "hot": 1.5, "rich": 2.0, "wealth": 2.2,

	"bad": -2.5, "terrible": -2.1, "horrible": -2.5, "awful": -2.0,
	"worst": -3.1, "worse": -2.1, "poor": -2.1, "hate": -2.7, "hated": -2.4,
	"sad": -2.1, "angry": -2.3, "fear": -2.2, "afraid": -2.0, "scared": -1.9,
	"scary": -2.2, "panic": -2.4, "worry": -1.6, "worried": -1.8,
	"worrying": -1.8, "risky": -1.4, "risk": -1.1, "danger": -2.4,
	"dangerous": -2.2, "lose": -2.3, "losing": -2.0, "lost": -2.2,
	"fail": -2.5, "failed": -2.3, "failure": -2.6, "failing": -2.3,
	"fall": -1.3, "falling": -1.5, "fell": -1.2, "drop": -1.2, "dropped": -1.3,
	"dropping": -1.4, "plunge": -2.0, "plunged": -1.9, "plummet": -2.2,
	"plummeted": -2.1, "collapse": -2.5, "collapsed": -2.4, "down": -1.1,
	"lower": -1.0, "low": -0.9, "decline": -1.5, "declined": -1.4,
	"downgrade": -1.7, "downgraded": -1.6, "underperform": -1.8,
	"miss": -1.4, "missed": -1.4, "warning": -1.7, "weak": -1.8,
	"weakness": -1.8, "trouble": -2.0, "problem": -1.7, "problems": -1.8,
	"debt": -1.3, "bankrupt": -3.0, "bankruptcy": -2.9, "lawsuit": -1.8,
	"investigation": -1.4, "concern": -1.2, "concerned": -1.4,
	"doubt": -1.5, "avoid": -1.4,
	"wrong": -2.1, "mistake": -2.0, "stupid": -2.4, "dumb": -2.3,
	"crazy": -1.4, "insane": -1.7, "dead": -3.0, "die": -2.9, "dying": -2.7,
	"pain": -2.3, "painful": -2.3, "hurt": -2.2, "ugly": -2.3,
}
