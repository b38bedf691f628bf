package extract

// defaultExclusions holds uppercase tokens that collide with real ticker
// symbols but are almost always ordinary language in posts. A token in
// this set is never extracted bare; the cashtag form still wins.
var defaultExclusions = map[string]struct{}{}

func init() {
	groups := [][]string{
		// Community slang
		{"YOLO", "FOMO", "HODL", "BTFD", "GTFO", "LMAO", "ROFL", "TLDR",
			"IMHO", "IMO", "FYI", "AFAIK", "TBH", "ICYMI", "IIRC", "GOAT",
			"MOASS", "FUD", "FWIW", "LMFAO", "STFU", "WTF", "OMG", "SMH",
			"TFW", "MFW", "ITT", "IIUC", "IANAL", "YMMV"},
		// Forum / internet terms
		{"OP", "TL", "DR", "EDIT", "UPDATE", "PSA", "AMA", "ELI",
			"TIL", "DAE", "CMV", "AITA", "TIFU", "IRL", "NSFW", "SFW",
			"OC", "META", "MOD", "MODS", "FAQ", "RIP", "GIF", "JPEG",
			"PNG", "PDF", "HTML", "CSS", "API", "URL", "HTTP", "HTTPS"},
		// Financial terms that are not tickers
		{"CEO", "CFO", "CTO", "COO", "IPO", "SEC", "FDA", "FED",
			"GDP", "ETF", "ITM", "OTM", "ATM", "EPS", "PE", "PB",
			"RSI", "MACD", "SMA", "EMA", "VWAP", "ATH", "ATL",
			"DD", "TA", "FA", "PT", "SI", "IV", "DTE", "OI",
			"EOD", "EOW", "AH", "RTH", "SPAC",
			"LEAPS", "FD", "FDS", "LEAP", "PUTS", "CALLS",
			"LONG", "SHORT", "BULL", "BEAR", "BUY", "SELL",
			"HOLD", "DIP", "RUN", "MOON", "TANK", "PUMP", "DUMP",
			"GAIN", "LOSS", "ROI", "YOY", "QOQ", "MOM", "WOW",
			"CAGR", "NAV", "AUM", "FCF", "EBITDA", "GAAP"},
		// Country and currency codes
		{"USA", "USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF",
			"CNY", "HKD", "SGD", "NZD", "KRW", "INR", "BRL", "MXN",
			"UK", "EU", "US", "CN", "JP", "DE", "FR", "IT", "ES"},
		// Time references
		{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG",
			"SEP", "OCT", "NOV", "DEC", "MON", "TUE", "WED", "THU",
			"FRI", "SAT", "SUN", "AM", "PM", "EST", "PST", "CST",
			"UTC", "GMT", "EDT", "PDT", "CDT", "MDT", "MST"},
		// Two-letter tokens: valid tickers exist for some of these, but bare
		// two-letter matches are pure noise. They are still reachable as $AI,
		// $CC and so on.
		{"MY", "IN", "OF", "AT", "TO", "BY", "IF", "OR", "AS", "IS",
			"NO", "BE", "WE", "AN", "SO", "UP", "ON", "DO", "GO", "HE", "ME",
			"AX", "OX", "EX",
			"AI", "CC", "FL", "IP", "HR", "PR", "ED", "CL", "WY", "TV", "OS",
			"PC", "OK", "AC", "DC", "DJ", "CD", "HD", "PS"},
		// Common three-letter words
		{"ARE", "THE", "FOR", "AND", "NOT", "ALL", "CAN", "HAS",
			"HIS", "HER", "NEW", "NOW", "OLD", "OUR", "OUT", "OWN",
			"SAY", "SHE", "TOO", "TWO", "WAY", "WHO", "BOY", "DID",
			"GET", "GOT", "HAD", "HIM", "HOW", "ITS", "LET", "MAN",
			"PUT", "SEE", "SET", "TOP", "TRY", "USE", "WAS",
			"WIN", "WON", "YET", "BIG", "FAT", "LOW", "MAX", "MIN",
			"ONE", "TEN", "SIX", "RED", "HOT", "ICE", "CAR", "DOG",
			"CAT", "BAD", "GAS", "OIL", "TAX", "LAW", "WAR", "PAY",
			"JOB", "AGE", "EYE", "DAY", "END", "BOX", "CUT", "DUE",
			"FEW", "GAP", "GUN", "HIT", "KEY", "LAY", "MIX", "NET",
			"ODD", "PER", "RAW", "ROW", "SKY", "SUM", "TEA", "TIP",
			"VIA", "WEB", "YES", "ZIP", "ACE", "ADD", "AID", "AIM",
			"AIR", "ARM", "ART", "ASK", "BAR", "BAT", "BED", "BET",
			"BIT", "BUS", "CAP", "COP", "CRY", "CUP", "DIG", "DOT",
			"DRY", "EAR", "EAT", "EGG", "ERA", "FAN", "FAR",
			"FIT", "FIX", "FLY", "FOX", "FUN", "GAL", "HAT",
			"HOP", "HUG", "ICY", "ILL", "INK", "JAM", "JAW",
			"JET", "JOY", "KEG", "KID", "KIT", "LAB", "LAP", "LEG",
			"LID", "LIP", "LOG", "LOT", "MAD", "MAP", "MAT",
			"MOB", "MUD", "MUG", "NAP", "NIT", "NUN", "NUT", "OAK",
			"OAT", "ORB", "OWL", "PAD", "PAN", "PAT", "PAW",
			"PEA", "PEN", "PET", "PIE", "PIG", "PIN", "PIT", "POD",
			"POP", "POT", "PUB", "PUN", "RAG", "RAM", "RAP", "RAT",
			"RAY", "REP", "RIB", "RIG", "RIM", "ROB", "ROD", "ROT",
			"RUB", "RUG", "SAD", "SAP", "SAT", "SAW", "SAX", "SEA",
			"SIP", "SIT", "SKI", "SOB", "SOD", "SON", "SOP", "SOT",
			"SOW", "SOY", "SPA", "STY", "SUB", "SUN",
			"TAB", "TAG", "TAN", "TAP", "TAR", "TAT", "TEE",
			"TIE", "TIN", "TOE", "TON", "TOW", "TOY", "TUB",
			"TUG", "URN", "VAN", "VAT", "VET", "VOW", "WAD", "WAG",
			"WAN", "WET", "WIG", "WIT", "WOE", "WOK",
			"WOO", "YAK", "YAM", "YAP", "YAW", "YEA", "YEN",
			"YEW", "YIN", "ZIT", "ZOO"},
		// Longer common words that collide with obscure symbols
		{"THESE", "THOSE", "ABOUT", "AFTER", "FIRST", "BEING",
			"OTHER", "WHICH", "THEIR", "THERE", "WHERE", "WOULD",
			"COULD", "EVERY", "STILL", "WHILE", "THINK",
			"THING", "DOING", "GOING", "NEVER", "SINCE", "UNTIL"},
		{"LIKE", "JUST", "WILL", "LOOK", "MAKE", "KNOW", "TIME",
			"YEAR", "GOOD", "SOME", "THEM", "THAN", "BEEN", "CALL",
			"ONLY", "COME", "MADE", "FIND", "DOWN", "EVEN",
			"BACK", "MOST", "OVER", "SUCH", "INTO", "LAST", "LIFE",
			"WORK", "PART", "TAKE", "GIVE", "MORE", "WANT", "WELL",
			"ALSO", "PLAY", "VERY", "KEEP", "WENT", "SAME", "TOLD",
			"MUST", "NEED", "FEEL", "HIGH", "LEFT", "EACH", "BOTH",
			"NEXT", "USED", "WORD", "DAYS", "WEEK", "YEAH",
			"SURE", "DAMN", "NICE", "COOL", "DUDE",
			"GUYS", "GIRL", "OKAY", "SEEN", "LOVE", "HATE", "HOPE",
			"HELP", "HARD", "EASY", "FAST", "SLOW", "HUGE", "TINY",
			"RICH", "POOR", "FREE", "PAID", "SAFE", "RISK", "REAL",
			"FAKE", "TRUE", "BEST", "MOVE", "NEWS", "POST", "LINK",
			"HERE", "THEN", "WHEN", "WHAT", "WERE", "HAVE", "THAT",
			"WITH", "THIS", "FROM", "YOUR", "THEY"},
	}
	for _, group := range groups {
		for _, token := range group {
			defaultExclusions[token] = struct{}{}
		}
	}
}
