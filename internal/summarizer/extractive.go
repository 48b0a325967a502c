package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/kristsTCG/ai-news-bot/internal/feed"
)

// Extractive summarizes by picking the most representative sentences from
// the article text itself. It needs no credentials or network access.
type Extractive struct {
	logger *slog.Logger
}

func NewExtractive(logger *slog.Logger) *Extractive {
	return &Extractive{logger: logger}
}

// Summarize returns a short extractive summary: sentences are scored by the
// average corpus frequency of their words, the top few are selected, and the
// selection is re-ordered by original position so the summary reads
// chronologically. Texts of two sentences or fewer are returned verbatim.
func (s *Extractive) Summarize(_ context.Context, article feed.Article) Result {
	title := displayTitle(article)

	text := sourceText(article)
	if text == "" {
		s.logger.Warn("no content to summarize", "title", title)
		return Unavailable(fmt.Sprintf("No content available to summarize for %s", title))
	}

	sentences := splitSentences(text)
	if len(sentences) <= 2 {
		return OK(text)
	}

	scores := scoreSentences(sentences)

	k := len(sentences) / 5
	if k < 2 {
		k = 2
	}
	if k > 3 {
		k = 3
	}

	// Stable sort by descending score: on a tie the sentence that appears
	// earlier in the text wins.
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	top := append([]int(nil), order[:k]...)
	sort.Ints(top)

	selected := make([]string, 0, k)
	for _, i := range top {
		selected = append(selected, sentences[i])
	}

	s.logger.Info("summarized article", "title", title)
	return OK(strings.Join(selected, " "))
}

// splitSentences breaks text at whitespace that follows '.', '?' or '!'. Two
// guards keep common abbreviations intact: a capital-lowercase-period ending
// ("Mr.", "Dr.") and a letter-period-letter-period ending ("e.g.", "U.S.").
// Best effort, not a full sentence tokenizer.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string

	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) {
			continue
		}
		if p := runes[i-1]; p != '.' && p != '?' && p != '!' {
			continue
		}
		if honorificBefore(runes, i) || initialsBefore(runes, i) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start:i])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// honorificBefore reports whether the text just before the whitespace at i
// ends in a capital letter, a lowercase letter, and a period, as in "Mr.".
func honorificBefore(runes []rune, i int) bool {
	return i >= 3 &&
		unicode.IsUpper(runes[i-3]) &&
		unicode.IsLower(runes[i-2]) &&
		runes[i-1] == '.'
}

// initialsBefore reports whether the text just before the whitespace at i
// ends in a letter-period-letter-period run, as in "U.S." or "e.g.".
func initialsBefore(runes []rune, i int) bool {
	return i >= 4 &&
		isWordRune(runes[i-4]) &&
		runes[i-3] == '.' &&
		isWordRune(runes[i-2])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scoreSentences scores each sentence as the sum of its words' corpus-wide
// frequencies divided by its word count, so sentences built from frequent,
// representative vocabulary score highest. The word count divisor is floored
// at one.
func scoreSentences(sentences []string) []float64 {
	freq := make(map[string]int)
	words := make([][]string, len(sentences))
	for i, sentence := range sentences {
		words[i] = tokenize(sentence)
		for _, w := range words[i] {
			freq[w]++
		}
	}

	scores := make([]float64, len(sentences))
	for i := range sentences {
		total := 0
		for _, w := range words[i] {
			total += freq[w]
		}
		count := len(words[i])
		if count < 1 {
			count = 1
		}
		scores[i] = float64(total) / float64(count)
	}
	return scores
}

// tokenize case-folds a sentence, strips punctuation, and splits it on
// whitespace.
func tokenize(sentence string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(sentence) {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}
