package validation

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const wordsPerMinute = 200

var (
	sentenceBreak = regexp.MustCompile(`[.!?]+`)
	vowelGroup    = regexp.MustCompile(`[aeiouy]+`)
)

// Words splits text on whitespace, dropping tokens with no letter or digit
// such as dashes, ellipses and stray punctuation.
func Words(text string) []string {
	fields := strings.Fields(text)
	words := fields[:0]
	for _, f := range fields {
		if strings.IndexFunc(f, isWordRune) >= 0 {
			words = append(words, f)
		}
	}
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ReadingTime returns the estimated minutes to read wordCount words, rounded up.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(wordCount) / wordsPerMinute))
}

// CountSentences counts runs of text terminated by ., ! or ?. Text without a
// terminator still counts as one sentence.
func CountSentences(text string) int {
	n := 0
	for _, part := range sentenceBreak.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	if n == 0 && strings.TrimSpace(text) != "" {
		n = 1
	}
	return n
}

// CountSyllables estimates syllables as vowel groups, minus one for a trailing
// silent "e", never less than one.
func CountSyllables(word string) int {
	w := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, word)
	if w == "" {
		return 0
	}
	n := len(vowelGroup.FindAllString(w, -1))
	if strings.HasSuffix(w, "e") && n > 1 {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ReadabilityScore approximates Flesch Reading Ease for text on a 0-100 scale.
// Text without words scores 0.
func ReadabilityScore(text string) float64 {
	words := Words(text)
	if len(words) == 0 {
		return 0
	}
	sentences := CountSentences(text)
	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))
	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord

	return math.Round(math.Max(0, math.Min(100, score)))
}
