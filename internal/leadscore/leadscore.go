// Package leadscore ranks incoming leads so the most promising ones are
// followed up first.
package leadscore

import (
	"strings"
	"unicode/utf8"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/validation"
)

const (
	MinScore = 0
	MaxScore = 100

	emailWeight          = 20
	corporateEmailWeight = 10
	phoneWeight          = 15
	companyWeight        = 15
	serviceWeight        = 10
	shortMessageWeight   = 5
	longMessageWeight    = 15

	// longMessageRunes is the length from which a message counts as detailed.
	longMessageRunes = 100
)

// budgetWeights maps the budget ranges offered on the contact form.
var budgetWeights = map[string]int{
	"under-5k": 3,
	"5k-10k":   6,
	"10k-25k":  9,
	"25k-50k":  12,
	"50k+":     15,
}

var freeMailDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"icloud.com":     {},
	"aol.com":        {},
	"proton.me":      {},
	"protonmail.com": {},
	"mail.ru":        {},
	"yandex.ru":      {},
	"gmx.com":        {},
}

// Score returns a value in [MinScore, MaxScore] for a lead.
func Score(c domain.Contact) int {
	score := 0

	if email := strings.TrimSpace(c.Email); email != "" {
		score += emailWeight

		if IsCorporateEmail(email) {
			score += corporateEmailWeight
		}
	}

	if c.Phone != "" {
		if _, err := validation.NormalizePhone(c.Phone); err == nil {
			score += phoneWeight
		}
	}

	if strings.TrimSpace(c.Company) != "" {
		score += companyWeight
	}

	if strings.TrimSpace(c.ServiceInterest) != "" {
		score += serviceWeight
	}

	score += budgetScore(c.BudgetRange)

	switch msg := strings.TrimSpace(c.Message); {
	case utf8.RuneCountInString(msg) >= longMessageRunes:
		score += longMessageWeight
	case msg != "":
		score += shortMessageWeight
	}

	return clamp(score)
}

// IsCorporateEmail reports whether the address is on a domain other than a
// well-known free mailbox provider.
func IsCorporateEmail(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return false
	}

	_, free := freeMailDomains[strings.ToLower(email[at+1:])]

	return !free
}

func budgetScore(budget string) int {
	budget = strings.ToLower(strings.TrimSpace(budget))
	if budget == "" {
		return 0
	}

	if w, ok := budgetWeights[budget]; ok {
		return w
	}

	// Unrecognised but stated budgets still signal intent.
	return budgetWeights["under-5k"]
}

func clamp(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
