// Package language classifies the language style of a user utterance:
// English, Romanized Hindi, Hinglish (code-mixed) or mixed. Detection is a
// pure function over two fixed vocabularies plus a native-script check.
package language

import (
	"regexp"
	"strings"
)

type Language string

const (
	English  Language = "english"
	Hindi    Language = "hindi"
	Hinglish Language = "hinglish"
	Mixed    Language = "mixed"
)

// Result describes one utterance. Confidence is in [0,1].
type Result struct {
	Language        Language `json:"language"`
	Confidence      float64  `json:"confidence"`
	IsNativeScript  bool     `json:"isNativeScript"`
	HasEnglishWords bool     `json:"hasEnglishWords"`
	HasHindiWords   bool     `json:"hasHindiWords"`
}

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// romanHindi is the fixed Romanized-Hindi vocabulary. Words that are also
// common English words ("to", "me", "no") are deliberately absent.
var romanHindi = map[string]bool{
	"kya": true, "hai": true, "hain": true, "kaise": true, "kaisa": true,
	"kaisi": true, "aap": true, "tum": true, "mera": true, "meri": true,
	"tera": true, "teri": true, "apka": true, "aapka": true, "kyun": true,
	"kyon": true, "nahi": true, "nahin": true, "haan": true, "acha": true,
	"accha": true, "theek": true, "thik": true, "karo": true, "karna": true,
	"batao": true, "bata": true, "bataiye": true, "mujhe": true, "tumhe": true,
	"kitna": true, "kitne": true, "kitni": true, "kaun": true, "kab": true,
	"kahan": true, "hoon": true, "raha": true, "rahi": true, "rahe": true,
	"wala": true, "wali": true, "bhai": true, "yaar": true, "matlab": true,
	"samajh": true, "pata": true, "chahiye": true, "sakta": true, "sakte": true,
	"sakti": true, "bolo": true, "dekho": true, "suno": true, "jaldi": true,
	"abhi": true, "phir": true, "aur": true, "lekin": true, "magar": true,
	"mein": true, "hum": true, "humko": true, "woh": true, "yeh": true,
	"yahan": true, "wahan": true, "kuch": true, "sab": true, "bahut": true,
	"bohot": true, "thoda": true, "zyada": true, "jod": true, "ghata": true,
	"guna": true, "bhag": true, "ginti": true, "shabd": true, "sankhya": true,
	"jawab": true, "sawal": true, "sikhao": true, "sikha": true, "seekh": true,
	"sudhar": true, "galat": true, "sahi": true, "naam": true, "din": true,
	"raat": true, "paani": true, "khana": true, "ghar": true, "dil": true,
	"pyar": true, "dost": true, "kam": true, "kaam": true, "madad": true,
	"namaste": true, "namaskar": true, "shukriya": true, "dhanyavad": true,
	"kripya": true,
}

// markers are strong Hindi signals used only for the confidence bonus.
var markers = map[string]bool{
	"kya": true, "hai": true, "hain": true, "kaise": true, "nahi": true,
	"nahin": true, "kyun": true, "batao": true, "mujhe": true, "chahiye": true,
	"kitna": true, "kitne": true,
}

var englishWords = map[string]bool{
	"the": true, "is": true, "are": true, "was": true, "were": true,
	"what": true, "how": true, "why": true, "when": true, "where": true,
	"who": true, "which": true, "can": true, "could": true, "would": true,
	"should": true, "do": true, "does": true, "did": true, "a": true,
	"an": true, "of": true, "in": true, "on": true, "at": true, "for": true,
	"with": true, "and": true, "or": true, "but": true, "not": true,
	"you": true, "i": true, "we": true, "they": true, "he": true, "she": true,
	"it": true, "my": true, "your": true, "this": true, "that": true,
	"please": true, "tell": true, "me": true, "about": true, "have": true,
	"has": true, "will": true, "to": true, "from": true, "us": true,
}

// Detect classifies text. It is total: every input, including the empty
// string, yields a Result.
func Detect(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Language: English, Confidence: 0}
	}

	if ContainsDevanagari(trimmed) {
		return Result{
			Language:       Hindi,
			Confidence:     1.0,
			IsNativeScript: true,
			HasHindiWords:  true,
		}
	}

	tokens := tokenRe.FindAllString(strings.ToLower(trimmed), -1)
	if len(tokens) == 0 {
		return Result{Language: English, Confidence: 0}
	}

	var hindiCount, englishCount, markerCount, hindiLike int
	for _, tok := range tokens {
		if romanHindi[tok] {
			hindiCount++
			hindiLike++
			if markers[tok] {
				markerCount++
			}
		} else if looksHindi(tok) {
			// Inflected forms ("karunga", "bataunga") miss the exact
			// vocabulary but still count toward the Hindi fraction.
			hindiLike++
		}
		if englishWords[tok] {
			englishCount++
		}
	}

	hindiFraction := float64(hindiLike) / float64(len(tokens))
	res := Result{
		HasHindiWords:   hindiCount > 0,
		HasEnglishWords: englishCount > 0,
	}

	switch {
	case hindiCount > 0 && englishCount > 0:
		res.Language = Hinglish
		res.Confidence = clamp(0.6+0.08*float64(markerCount), 0, 0.95)
	case hindiCount > 0 && englishCount == 0:
		res.Language = Hindi
		res.Confidence = clamp(0.7+0.05*float64(hindiCount), 0, 0.95)
	case hindiFraction > 0.3:
		res.Language = Hinglish
		res.Confidence = clamp(0.5+hindiFraction*0.4, 0, 0.9)
	case hindiFraction > 0:
		res.Language = Mixed
		res.Confidence = clamp(0.4+hindiFraction, 0, 0.7)
	default:
		res.Language = English
		if englishCount > 0 {
			res.Confidence = 0.9
		} else {
			res.Confidence = 0.6
		}
	}
	return res
}

// hindiStems are verb stems matched by prefix for the Hindi fraction.
var hindiStems = []string{
	"kar", "bata", "samajh", "sikh", "seekh", "pooch", "likh", "padh",
	"bol", "dekh", "sun", "chal", "mila", "banao", "bana",
}

func looksHindi(tok string) bool {
	if len(tok) < 4 {
		return false
	}
	for _, stem := range hindiStems {
		if strings.HasPrefix(tok, stem) {
			return true
		}
	}
	return false
}

// ContainsDevanagari reports whether any rune falls in the Devanagari block.
func ContainsDevanagari(s string) bool {
	for _, r := range s {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
