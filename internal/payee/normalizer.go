// Package payee canonicalizes raw bank-statement payee strings into vendor
// keys. Bank memo fields carry store codes, phone numbers, trailing dates and
// aggregator prefixes; Normalize strips that noise so that differently
// garbled lines for the same vendor collapse to one key.
package payee

import (
	"regexp"
	"strings"
)

var (
	trailingDateRe = regexp.MustCompile(`\s+\d{2}/\d{2}\s*$`)
	starPhoneRe    = regexp.MustCompile(`\*\d{3}-\d{3}-\d{4}`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)

	ticketRe    = regexp.MustCompile(`#\d+`)
	phoneRe     = regexp.MustCompile(`\d{3}-\d{3}-\d{4}`)
	shortDialRe = regexp.MustCompile(`\d{3}-\d{7}`)
	digitRunRe  = regexp.MustCompile(`\d{5,}`)
	loneStarRe  = regexp.MustCompile(`(^|\s)\*(\s|$)`)
)

// aggregators are payment-service prefixes whose memo lines embed the true
// merchant in a fixed-width field after the service name.
var aggregators = []string{"PAYPAL", "VENMO", "CASH APP", "ZELLE"}

// candidate carries the two views of the input the rules operate on: the
// upper-cased original and the same string with its trailing MM/DD removed.
type candidate struct {
	upper    string
	stripped string
}

// rule is one step of the normalization chain. The first rule whose transform
// matches produces the final result.
type rule struct {
	name      string
	transform func(c candidate) (string, bool)
}

// rules are evaluated in order; inputs no rule claims fall through to scrub.
var rules = []rule{
	{name: "star-phone", transform: starPhone},
	{name: "aggregator", transform: aggregator},
	{name: "amazon-digital", transform: amazonDigital},
}

// Normalize returns the canonical vendor key for a raw payee string.
// It is pure and total: any input produces some output, worst case an
// over-long but harmless string.
func Normalize(raw string) string {
	upper := strings.ToUpper(raw)
	c := candidate{
		upper:    upper,
		stripped: trailingDateRe.ReplaceAllString(upper, ""),
	}

	for _, r := range rules {
		if out, ok := r.transform(c); ok {
			return out
		}
	}
	return scrub(c)
}

// starPhone handles "VENDOR *NNN-NNN-NNNN ..." lines: everything after the
// star is dialing noise, the vendor name is what precedes it.
func starPhone(c candidate) (string, bool) {
	loc := starPhoneRe.FindStringIndex(c.stripped)
	if loc == nil {
		return "", false
	}
	return strings.TrimSpace(c.stripped[:loc[0]]), true
}

// aggregator extracts the true merchant from payment-service memo lines.
// The original (not date-stripped) string is split on runs of 2+ spaces
// because the merchant sits in a fixed-width field.
func aggregator(c candidate) (string, bool) {
	var keyword string
	for _, kw := range aggregators {
		if strings.HasPrefix(c.stripped, kw) {
			keyword = kw
			break
		}
	}
	if keyword == "" {
		return "", false
	}

	fields := multiSpaceRe.Split(strings.TrimSpace(c.upper), -1)
	if len(fields) < 3 {
		return keyword, true
	}
	merchant := trailingDateRe.ReplaceAllString(fields[2], "")
	return strings.TrimSpace(merchant), true
}

// amazonDigital collapses Amazon digital-content lines, which carry random
// order codes that would otherwise fragment the vendor.
func amazonDigital(c candidate) (string, bool) {
	if strings.HasPrefix(c.stripped, "AMZN DIGITAL") || strings.HasPrefix(c.stripped, "AMAZON DIGITAL") {
		return "AMZN DIGITAL", true
	}
	return "", false
}

// scrub is the fallback: remove ticket numbers, phone-like sequences, long
// digit runs and stray star tokens, then collapse whitespace.
func scrub(c candidate) string {
	s := c.stripped
	s = ticketRe.ReplaceAllString(s, "")
	s = phoneRe.ReplaceAllString(s, "")
	s = shortDialRe.ReplaceAllString(s, "")
	s = digitRunRe.ReplaceAllString(s, "")
	s = loneStarRe.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
