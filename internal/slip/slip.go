// Package slip scores payment-proof images. Both checks are advisory, the
// storefront never blocks an order on their outcome.
package slip

import (
	"regexp"
	"strings"
)

// ValidThreshold is the confidence cutoff for IsValid.
const ValidThreshold = 40

type Result struct {
	Confidence int      `json:"confidence"`
	IsValid    bool     `json:"is_valid"`
	Matches    []string `json:"matches,omitempty"`
}

var nameKeywords = []string{"slip", "screenshot", "transfer", "receipt", "โอน", "สลิป"}

// textKeywords are substrings commonly present on Thai bank transfer slips.
var textKeywords = []string{
	"โอนเงินสำเร็จ",
	"โอนเงิน",
	"จำนวนเงิน",
	"บาท",
	"ธนาคาร",
	"กสิกร",
	"ไทยพาณิชย์",
	"กรุงเทพ",
	"กรุงไทย",
	"พร้อมเพย์",
	"promptpay",
	"transfer",
	"successful",
	"amount",
	"baht",
	"ref",
}

var (
	accountRe = regexp.MustCompile(`\d{3}-\d-\d{5}-\d|[xX]{3,}\d{4}`)
	amountRe  = regexp.MustCompile(`\d{1,3}(,\d{3})*\.\d{2}`)
	dateRe    = regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`)
)

// QuickCheck scores a file by name and size alone, for instant feedback
// before any OCR runs. Base score 50, +30 for a slip-looking name, penalties
// for implausible sizes.
func QuickCheck(filename string, size int64) Result {
	score := 50
	var matches []string

	name := strings.ToLower(filename)
	for _, kw := range nameKeywords {
		if strings.Contains(name, kw) {
			score += 30
			matches = append(matches, kw)
			break
		}
	}

	switch {
	case size > 0 && size < 20*1024:
		// too small to be a readable screenshot
		score -= 30
	case size > 10*1024*1024:
		score -= 20
	}

	return finish(score, matches)
}

// ScoreText scores OCR-extracted text: weighted keyword hits plus pattern
// hits for account numbers, currency amounts and dates.
func ScoreText(text string) Result {
	lower := strings.ToLower(text)

	var matches []string
	hits := 0
	for _, kw := range textKeywords {
		if strings.Contains(lower, kw) {
			hits++
			matches = append(matches, kw)
		}
	}

	score := hits * 12
	if score > 50 {
		score = 50
	}

	if accountRe.MatchString(text) {
		score += 20
		matches = append(matches, "account_number")
	}
	if amountRe.MatchString(text) {
		score += 15
		matches = append(matches, "amount")
	}
	if dateRe.MatchString(text) {
		score += 15
		matches = append(matches, "date")
	}

	return finish(score, matches)
}

func finish(score int, matches []string) Result {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Result{
		Confidence: score,
		IsValid:    score >= ValidThreshold,
		Matches:    matches,
	}
}
