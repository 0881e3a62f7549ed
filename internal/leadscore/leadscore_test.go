package leadscore

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

func TestScore(t *testing.T) {
	testCases := []struct {
		name     string
		contact  domain.Contact
		expected int
	}{
		{
			name:     "empty lead",
			contact:  domain.Contact{},
			expected: 0,
		},
		{
			name:     "free mailbox only",
			contact:  domain.Contact{Email: "someone@gmail.com"},
			expected: 20,
		},
		{
			name:     "corporate mailbox",
			contact:  domain.Contact{Email: "cto@acme.io"},
			expected: 30,
		},
		{
			name:     "invalid phone is ignored",
			contact:  domain.Contact{Email: "someone@gmail.com", Phone: "12"},
			expected: 20,
		},
		{
			name: "short message and mid budget",
			contact: domain.Contact{
				Email:       "someone@gmail.com",
				BudgetRange: "10k-25k",
				Message:     "Need a new site",
			},
			expected: 20 + 9 + 5,
		},
		{
			name: "unknown budget still counts",
			contact: domain.Contact{
				BudgetRange: "whatever it takes",
			},
			expected: 3,
		},
		{
			name: "complete lead hits the ceiling",
			contact: domain.Contact{
				Email:           "ceo@acme.io",
				Phone:           "+1 650-253-0000",
				Company:         "Acme",
				ServiceInterest: "web-development",
				BudgetRange:     "50k+",
				Message:         strings.Repeat("We are rebuilding our storefront. ", 5),
			},
			expected: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Score(tc.contact))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	faker := gofakeit.New(42)
	budgets := []string{"", "under-5k", "5k-10k", "10k-25k", "25k-50k", "50k+", "other"}

	for i := 0; i < 200; i++ {
		c := domain.Contact{
			Name:            faker.Name(),
			Email:           faker.Email(),
			Phone:           faker.Phone(),
			Company:         faker.Company(),
			ServiceInterest: faker.BuzzWord(),
			BudgetRange:     budgets[i%len(budgets)],
			Message:         faker.Paragraph(1, 3, 12, " "),
		}

		score := Score(c)

		assert.GreaterOrEqual(t, score, MinScore)
		assert.LessOrEqual(t, score, MaxScore)
	}
}

func TestIsCorporateEmail(t *testing.T) {
	assert.True(t, IsCorporateEmail("a@agency.dev"))
	assert.False(t, IsCorporateEmail("a@GMAIL.com"))
	assert.False(t, IsCorporateEmail("no-at-sign"))
	assert.False(t, IsCorporateEmail("trailing@"))
}
