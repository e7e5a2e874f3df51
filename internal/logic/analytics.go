package logic

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	tokenRe  = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

func tokenize(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

func countLines(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func extractNumbers(text string) []float64 {
	var out []float64
	for _, s := range numberRe.FindAllString(text, -1) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// noNumbers is the sentinel message for aggregates over empty input. It is
// a normal reply, not an error.
const noNumbers = "No numbers found in the text."

func sumNumbers(nums []float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	var s float64
	for _, n := range nums {
		s += n
	}
	return s, true
}

func maxNumber(nums []float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	m := nums[0]
	for _, n := range nums[1:] {
		if n > m {
			m = n
		}
	}
	return m, true
}

func minNumber(nums []float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	m := nums[0]
	for _, n := range nums[1:] {
		if n < m {
			m = n
		}
	}
	return m, true
}

// averageNumbers rounds to 2 decimal places.
func averageNumbers(nums []float64) (float64, bool) {
	s, ok := sumNumbers(nums)
	if !ok {
		return 0, false
	}
	avg := s / float64(len(nums))
	return math.Round(avg*100) / 100, true
}

func repeatedWords(text string) []string {
	counts, order := wordCounts(text)
	var out []string
	for _, w := range order {
		if counts[w] > 1 {
			out = append(out, w)
		}
	}
	return out
}

func uniqueWords(text string) []string {
	_, order := wordCounts(text)
	return order
}

func wordFrequency(text string) []string {
	counts, order := wordCounts(text)
	out := make([]string, 0, len(order))
	for _, w := range order {
		out = append(out, fmt.Sprintf("%s: %d", w, counts[w]))
	}
	return out
}

// wordCounts lower-cases tokens and preserves first-appearance order.
func wordCounts(text string) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokenize(strings.ToLower(text)) {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}
	return counts, order
}

func countSpecificWord(text, word string) int {
	target := strings.ToLower(word)
	n := 0
	for _, tok := range tokenize(strings.ToLower(text)) {
		if tok == target {
			n++
		}
	}
	return n
}

func countVowels(text string) int {
	n := 0
	for _, r := range strings.ToLower(text) {
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			n++
		}
	}
	return n
}

func countConsonants(text string) int {
	n := 0
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			switch r {
			case 'a', 'e', 'i', 'o', 'u':
			default:
				n++
			}
		}
	}
	return n
}

// formatNumber renders without trailing zeros ("4", "2.5").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNumbers(nums []float64) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = formatNumber(n)
	}
	return strings.Join(parts, ", ")
}
