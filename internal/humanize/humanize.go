// Package humanize post-processes model output so it reads like a person
// typing in a group chat: disclosure phrases stripped, casing and periods
// flattened, the occasional typo, slang and filler words mixed in, and a
// hard cap on length.
package humanize

import (
	"math/rand"
	"regexp"
	"strings"
)

// maxLength is the longest reply allowed on the wire. Longer output is cut
// back to the last complete word.
const maxLength = 80

var (
	aiDisclosures = regexp.MustCompile(`(?i)As an AI|AI assistant|I'm an AI|I don't have|I cannot|I'm not able to`)
	aiBoilerplate = regexp.MustCompile(`(?i)I'm here to help|I'd be happy to|Is there anything else|Can I help you with`)

	sentenceBreak = regexp.MustCompile(`([!?])\s+`)
)

type slangRule struct {
	pattern *regexp.Regexp
	repl    string
}

var slangRules = []slangRule{
	{regexp.MustCompile(`\byou\b`), "u"},
	{regexp.MustCompile(`\bwith\b`), "w"},
	{regexp.MustCompile(`\btomorrow\b`), "tmrw"},
	{regexp.MustCompile(`\btonight\b`), "tn"},
	{regexp.MustCompile(`\bwhat are you doing\b`), "wyd"},
	{regexp.MustCompile(`\bhow are you doing\b`), "hyd"},
}

var fillerWords = []string{"lol", "haha", "fr", "yeah", "hmm", "idk"}

type expansion struct {
	key     string
	options []string
}

// expansions is ordered: the first key found as a substring wins.
var expansions = []expansion{
	{"yes", []string{"mhm", "yeah", "yep", "yup", "totally", "yeah man"}},
	{"no", []string{"nah", "not really", "don't think so", "nope", "nuh uh"}},
	{"okay", []string{"ok cool", "sounds good", "alright", "k", "aight", "ight"}},
	{"thanks", []string{"thanks!", "appreciate it", "ty"}},
	{"hello", []string{"heyy", "hey", "hi", "sup", "yoo"}},
	{"goodbye", []string{"later", "see ya", "bye", "peace", "bai", "bye bro"}},
	{"what", []string{"what's up?", "what do you mean?", "huh?", "wym", "whar"}},
	{"why", []string{"how come?", "why's that?", "for real?", "whyy"}},
	{"idk", []string{"i have no idea", "not sure tbh", "beats me"}},
	{"whatever", []string{"ah whatever", "doesn't matter", "it's fine"}},
}

// Tweak rewrites raw model text into group-chat register. All randomness
// comes from rng, so a seeded source makes the output reproducible.
func Tweak(rng *rand.Rand, text string) string {
	text = aiDisclosures.ReplaceAllString(text, "")
	text = aiBoilerplate.ReplaceAllString(text, "")

	if rng.Float64() > 0.9 {
		if rng.Intn(2) == 0 {
			text = transposeTypo(rng, text)
		} else {
			text = doubleCharTypo(rng, text)
		}
	}

	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, ".", "")
	text = sentenceBreak.ReplaceAllString(text, "$1 ")

	if len(text) > 20 && rng.Float64() > 0.8 {
		text = insertPause(rng, text)
	}

	if rng.Float64() > 0.8 {
		text = applySlang(rng, text)
	}

	if rng.Float64() > 0.8 {
		word := fillerWords[rng.Intn(len(fillerWords))]
		if rng.Intn(2) == 0 {
			text = word + " " + text
		} else {
			text = text + " " + word
		}
	}

	if len(strings.Fields(text)) == 1 && rng.Float64() > 0.3 {
		text = expandSingleWord(rng, text)
	}

	return strings.TrimSpace(capLength(text))
}

// capLength enforces the reply length limit, cutting back to the last
// complete word when the hard cut lands mid-word.
func capLength(text string) string {
	if len(text) <= maxLength {
		return text
	}
	text = text[:maxLength]
	if idx := strings.LastIndex(text, " "); idx > 0 && !strings.HasSuffix(text, " ") {
		text = text[:idx]
	}
	return text
}

// transposeTypo swaps two adjacent letters inside one randomly chosen word
// of length > 3. Short inputs are returned unchanged.
func transposeTypo(rng *rand.Rand, text string) string {
	words := strings.Split(text, " ")
	if len(words) <= 2 {
		return text
	}
	idx := rng.Intn(len(words))
	w := words[idx]
	if len(w) <= 3 {
		return text
	}
	pos := rng.Intn(len(w)-2) + 1
	words[idx] = w[:pos] + string(w[pos+1]) + string(w[pos]) + w[pos+2:]
	return strings.Join(words, " ")
}

// doubleCharTypo duplicates a single character at a random position.
func doubleCharTypo(rng *rand.Rand, text string) string {
	if text == "" {
		return text
	}
	pos := rng.Intn(len(text))
	return text[:pos] + string(text[pos]) + text[pos:]
}

// insertPause drops a "..." token or a trailing comma at the midpoint word.
func insertPause(rng *rand.Rand, text string) string {
	words := strings.Split(text, " ")
	mid := len(words) / 2
	if mid == 0 {
		return text
	}
	if rng.Intn(2) == 0 {
		words = append(words[:mid], append([]string{"..."}, words[mid:]...)...)
	} else {
		words[mid-1] += ","
	}
	return strings.Join(words, " ")
}

// applySlang performs 1-2 substitutions drawn from the slang table. The
// same rule may be drawn twice; a rule that doesn't match is a no-op.
func applySlang(rng *rand.Rand, text string) string {
	n := rng.Intn(2) + 1
	for i := 0; i < n; i++ {
		rule := slangRules[rng.Intn(len(slangRules))]
		text = rule.pattern.ReplaceAllString(text, rule.repl)
	}
	return text
}

// expandSingleWord swaps a bare one-word reply for a fuller idiomatic one.
// Keys match as substrings in table order.
func expandSingleWord(rng *rand.Rand, text string) string {
	lower := strings.ToLower(text)
	for _, e := range expansions {
		if strings.Contains(lower, e.key) {
			return e.options[rng.Intn(len(e.options))]
		}
	}
	return text
}
