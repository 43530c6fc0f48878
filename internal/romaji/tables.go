package romaji

// Hepburn-style tables, keyed on hiragana. Katakana input is folded to
// hiragana before lookup so only one set of tables is needed.

// digraphs maps base-kana + small-y pairs to a single romaji unit.
// These always win over two monograph lookups at the same position.
var digraphs = map[string]string{
	// k / g
	"きゃ": "kya", "きゅ": "kyu", "きょ": "kyo",
	"ぎゃ": "gya", "ぎゅ": "gyu", "ぎょ": "gyo",
	// s / sh / j
	"しゃ": "sha", "しゅ": "shu", "しょ": "sho",
	"じゃ": "ja", "じゅ": "ju", "じょ": "jo",
	// ch
	"ちゃ": "cha", "ちゅ": "chu", "ちょ": "cho",
	// n
	"にゃ": "nya", "にゅ": "nyu", "にょ": "nyo",
	// h / b / p
	"ひゃ": "hya", "ひゅ": "hyu", "ひょ": "hyo",
	"びゃ": "bya", "びゅ": "byu", "びょ": "byo",
	"ぴゃ": "pya", "ぴゅ": "pyu", "ぴょ": "pyo",
	// m / r
	"みゃ": "mya", "みゅ": "myu", "みょ": "myo",
	"りゃ": "rya", "りゅ": "ryu", "りょ": "ryo",
}

// monographs maps a single kana to its romaji. The sokuon (っ) and the
// chōon mark (ー) are absent on purpose: both get special handling in the
// scanner and contribute no romaji of their own.
var monographs = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'さ': "sa", 'し': "shi", 'す': "su", 'せ': "se", 'そ': "so",
	'た': "ta", 'ち': "chi", 'つ': "tsu", 'て': "te", 'と': "to",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "fu", 'へ': "he", 'ほ': "ho",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'を': "o",
	'ん': "n",
	// dakuten / handakuten rows
	'が': "ga", 'ぎ': "gi", 'ぐ': "gu", 'げ': "ge", 'ご': "go",
	'ざ': "za", 'じ': "ji", 'ず': "zu", 'ぜ': "ze", 'ぞ': "zo",
	'だ': "da", 'ぢ': "ji", 'づ': "zu", 'で': "de", 'ど': "do",
	'ば': "ba", 'び': "bi", 'ぶ': "bu", 'べ': "be", 'ぼ': "bo",
	'ぱ': "pa", 'ぴ': "pi", 'ぷ': "pu", 'ぺ': "pe", 'ぽ': "po",
	// small vowels
	'ぁ': "a", 'ぃ': "i", 'ぅ': "u", 'ぇ': "e", 'ぉ': "o",
	// small ya/yu/yo (only reachable alone; pairs hit the digraph table first)
	'ゃ': "ya", 'ゅ': "yu", 'ょ': "yo",
}

// macronRepls collapse doubled vowels into macron vowels. Applied in order,
// each replacement over the whole string; "oo" must run before "ou" so that
// e.g. "oou" resolves the same way the tool always has.
var macronRepls = [...][2]string{
	{"aa", "ā"},
	{"ii", "ī"},
	{"uu", "ū"},
	{"ee", "ē"},
	{"oo", "ō"},
	{"ou", "ō"},
}
