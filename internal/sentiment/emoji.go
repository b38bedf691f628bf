package sentiment

import "strings"

// emojiMap normalizes common trading emoji to their closest lexicon
// tokens before scoring. Order of application does not matter because
// replacements never overlap after the first pass.
var emojiMap = map[string]string{
	"\U0001F680":         " rocket moon ",    // rocket
	"\U0001F319":         " moon ",           // crescent moon
	"\U0001F315":         " moon ",           // full moon
	"\U0001F48E":         " diamond ",        // gem stone
	"\U0001F64C":         " hands ",          // raised hands
	"\U0001F48E\U0001F64C": " diamond hands ",
	"\U0001F98D":         " ape ",            // gorilla
	"\U0001F9A7":         " ape ",            // orangutan
	"\U0001F4C8":         " bullish rising ", // chart up
	"\U0001F4C9":         " bearish falling ", // chart down
	"\U0001F4B0":         " money profit ",   // money bag
	"\U0001F4B5":         " money ",
	"\U0001F4B8":         " money ",
	"\U0001F525":         " hot fire ",
	"\U0001F4A9":         " bad terrible ",
	"\U0001F43B":         " bear bearish ",
	"\U0001F402":         " bull bullish ",
	"\U0001F403":         " bull bullish ",
	"\U0001F308\U0001F43B": " bear bearish ",
	"\U0001F921":         " clown stupid ",
	"\U0001F3B0":         " gamble gambling ",
	"\U0001F3B2":         " gamble gambling ",
	"⬆️":       " up bullish ",
	"⬇️":       " down bearish ",
	"✅":             " good positive ",
	"❌":             " bad negative ",
	"\U0001F7E2":         " green bullish ",
	"\U0001F534":         " red bearish ",
	"⚠️":       " warning caution ",
	"\U0001F4CA":         " chart analysis ",
	"\U0001F3AF":         " target ",
	"\U0001F480":         " dead rekt ",
	"☠️":       " dead rekt ",
	"\U0001F602":         " funny ",
	"\U0001F923":         " funny ",
	"\U0001F62D":         " crying sad ",
	"\U0001F972":         " sad ",
	"\U0001F631":         " scared ",
	"\U0001F92F":         " mind blown ",
	"\U0001F911":         " money greedy ",
	"\U0001F973":         " celebrating ",
	"\U0001F389":         " celebrating ",
}

var emojiReplacer = buildEmojiReplacer()

func buildEmojiReplacer() *strings.Replacer {
	pairs := make([]string, 0, len(emojiMap)*2)
	// Multi-codepoint sequences must be replaced before their parts.
	for emoji, replacement := range emojiMap {
		if len([]rune(emoji)) > 1 {
			pairs = append(pairs, emoji, replacement)
		}
	}
	for emoji, replacement := range emojiMap {
		if len([]rune(emoji)) == 1 {
			pairs = append(pairs, emoji, replacement)
		}
	}
	return strings.NewReplacer(pairs...)
}

// normalizeEmoji replaces known emoji with lexicon token text.
func normalizeEmoji(text string) string {
	return emojiReplacer.Replace(text)
}
