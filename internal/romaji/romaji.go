// Package romaji converts kana (hiragana or katakana) to modified Hepburn
// romaji. It never fails: runes it does not recognize — kanji, Latin,
// punctuation — pass through unchanged, so a batch of words is never aborted
// by one odd entry.
package romaji

import "strings"

// Options select between Hepburn variants.
type Options struct {
	// Macrons collapses long vowels into macron vowels (toukyou → tōkyō).
	Macrons bool
	// MBeforeBMP writes the syllabic n as "m" before b, m, p
	// (shinbun → shimbun), per traditional Hepburn.
	MBeforeBMP bool
}

const (
	katakanaLo = 0x30A1 // ァ
	katakanaHi = 0x30F6 // ヶ
	kataToHira = 0x60
)

const (
	sokuon = 'っ'
	moraN  = 'ん'
	choon  = 'ー'
)

// Convert transliterates kana text to romaji. Safe for concurrent use; all
// state is local to the call.
func Convert(text string, opts Options) string {
	if text == "" {
		return ""
	}

	hira := toHiragana(text)

	// Chunks are kept separate rather than written straight into a builder:
	// the chōon rule needs to look back at the last emitted unit.
	var out []string
	for i := 0; i < len(hira); {
		ch := hira[i]

		switch ch {
		case sokuon:
			// Double the consonant of whatever follows (がっこう → gakkou).
			// At end of string or before an unmapped rune there is nothing
			// to double, so the sokuon vanishes.
			if next := chunkAt(hira, i+1); next != "" {
				out = append(out, next[:1])
			}
			i++
			continue

		case moraN:
			out = append(out, moraNChunk(hira, i, opts))
			i++
			continue

		case choon:
			// Prolong the previous vowel. A leading chōon has nothing to
			// prolong and is dropped.
			if v := lastVowel(out); v != "" {
				out = append(out, v)
			}
			i++
			continue
		}

		if i+1 < len(hira) {
			if d, ok := digraphs[string(hira[i:i+2])]; ok {
				out = append(out, d)
				i += 2
				continue
			}
		}

		if m, ok := monographs[ch]; ok {
			out = append(out, m)
		} else {
			out = append(out, string(ch))
		}
		i++
	}

	basic := strings.Join(out, "")
	if opts.Macrons {
		return applyMacrons(basic)
	}
	return basic
}

// toHiragana folds katakana runes onto their hiragana equivalents by the
// fixed code-point offset; everything else is untouched. Idempotent.
func toHiragana(text string) []rune {
	rs := []rune(text)
	for i, r := range rs {
		if r >= katakanaLo && r <= katakanaHi {
			rs[i] = r - kataToHira
		}
	}
	return rs
}

// chunkAt peeks the romaji the kana at pos would produce, digraphs first.
// Returns "" past the end or for unmapped runes. Pure; both the scanner and
// the special-case rules rely on it agreeing with the main loop.
func chunkAt(hira []rune, pos int) string {
	if pos >= len(hira) {
		return ""
	}
	if pos+1 < len(hira) {
		if d, ok := digraphs[string(hira[pos:pos+2])]; ok {
			return d
		}
	}
	return monographs[hira[pos]]
}

// moraNChunk resolves ん, whose spelling depends on the following sound.
func moraNChunk(hira []rune, i int, opts Options) string {
	next := chunkAt(hira, i+1)
	if next == "" {
		return "n"
	}
	switch c := next[0]; {
	case strings.ContainsRune("aeiouy", rune(c)):
		// n' keeps しんよう (shin'you) distinct from しにょう (shinyou).
		return "n'"
	case c == 'b' || c == 'm' || c == 'p':
		if opts.MBeforeBMP {
			return "m"
		}
		return "n"
	default:
		return "n"
	}
}

// lastVowel returns the last vowel letter of the last emitted chunk, or "".
func lastVowel(out []string) string {
	if len(out) == 0 {
		return ""
	}
	last := out[len(out)-1]
	for i := len(last) - 1; i >= 0; i-- {
		if strings.ContainsRune("aeiou", rune(last[i])) {
			return string(last[i])
		}
	}
	return ""
}

func applyMacrons(basic string) string {
	s := basic
	for _, r := range macronRepls {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}
