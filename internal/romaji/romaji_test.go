package romaji

import "testing"

func TestConvertBasic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ねこ", "neko"},
		{"さかな", "sakana"},
		{"すし", "sushi"},
		{"ふじさん", "fujisan"},
		{"を", "o"},
	}
	for _, tt := range tests {
		got := Convert(tt.input, Options{})
		if got != tt.want {
			t.Errorf("Convert(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConvertKatakana(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ネコ", "neko"},
		{"コーヒー", "koohii"},
		{"キャンプ", "kyampu"},
	}
	for _, tt := range tests {
		got := Convert(tt.input, Options{MBeforeBMP: true})
		if got != tt.want {
			t.Errorf("Convert(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConvertDigraphsBeatMonographs(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"きゃ", "kya"},
		{"しゃ", "sha"},
		{"じょ", "jo"},
		{"ちゅ", "chu"},
		{"りょ", "ryo"},
		// Lone small-y falls back to its monograph value.
		{"ゃ", "ya"},
	}
	for _, tt := range tests {
		got := Convert(tt.input, Options{})
		if got != tt.want {
			t.Errorf("Convert(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConvertSokuon(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"がっこう", "gakkou"},
		{"きって", "kitte"},
		{"ざっし", "zasshi"},
		// Sokuon before a digraph doubles the digraph's first letter.
		{"しゅっちょう", "shucchou"},
		// Nothing to double: trailing or orphaned sokuon disappears.
		{"あっ", "a"},
		{"っ", ""},
	}
	for _, tt := range tests {
		got := Convert(tt.input, Options{})
		if got != tt.want {
			t.Errorf("Convert(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConvertMoraicN(t *testing.T) {
	tests := []struct {
		input      string
		mBeforeBMP bool
		want       string
	}{
		{"しんよう", false, "shin'you"},
		{"きんえん", false, "kin'en"},
		{"しんぶん", true, "shimbun"},
		{"しんぶん", false, "shinbun"},
		{"さんぽ", true, "sampo"},
		{"せんせい", true, "sensei"},
		{"ほん", true, "hon"},
	}
	for _, tt := range tests {
		got := Convert(tt.input, Options{MBeforeBMP: tt.mBeforeBMP})
		if got != tt.want {
			t.Errorf("Convert(%q, m=%v) = %q, want %q", tt.input, tt.mBeforeBMP, got, tt.want)
		}
	}
}

func TestConvertChoon(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ラーメン", "raamen"},
		{"スキー", "sukii"},
		// Leading chōon has no vowel to prolong.
		{"ーあ", "a"},
	}
	for _, tt := range tests {
		got := Convert(tt.input, Options{})
		if got != tt.want {
			t.Errorf("Convert(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConvertMacrons(t *testing.T) {
	tests := []struct {
		input   string
		macrons bool
		want    string
	}{
		{"とうきょう", false, "toukyou"},
		{"とうきょう", true, "tōkyō"},
		{"おおさか", true, "ōsaka"},
		{"がっこう", true, "gakkō"},
		{"ラーメン", true, "rāmen"},
		{"おねえさん", true, "onēsan"},
		{"くうこう", true, "kūkō"},
	}
	for _, tt := range tests {
		got := Convert(tt.input, Options{Macrons: tt.macrons})
		if got != tt.want {
			t.Errorf("Convert(%q, macrons=%v) = %q, want %q", tt.input, tt.macrons, got, tt.want)
		}
	}
}

func TestConvertPassThrough(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"abc", "abc"},
		{"日本", "日本"},
		{"日本ご", "日本go"},
		{"ねこ!", "neko!"},
	}
	for _, tt := range tests {
		got := Convert(tt.input, Options{Macrons: true, MBeforeBMP: true})
		if got != tt.want {
			t.Errorf("Convert(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestToHiraganaIdempotent(t *testing.T) {
	in := "ねこかわいい"
	once := string(toHiragana(in))
	if once != in {
		t.Fatalf("toHiragana(%q) = %q, want unchanged", in, once)
	}
	kata := "ネコ"
	first := string(toHiragana(kata))
	second := string(toHiragana(first))
	if first != second {
		t.Errorf("toHiragana not idempotent: %q then %q", first, second)
	}
}

func TestMonographRoundTrip(t *testing.T) {
	for kana, want := range monographs {
		if kana == 'ん' {
			continue // end-of-string ん is covered in TestConvertMoraicN
		}
		got := Convert(string(kana), Options{})
		if got != want {
			t.Errorf("Convert(%q) = %q, want %q", string(kana), got, want)
		}
	}
}
