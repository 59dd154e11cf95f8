package seed

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jordanlanch/leaddesk/pkg/models"
)

// GeneratorConfig configures fake lead generation
type GeneratorConfig struct {
	Count      int
	Seed       int64   // same seed, same leads
	MaxScore   int     // scores fall in [0, MaxScore]
	DealChance float64 // 0.0-1.0 probability of a deal value
	MaxAge     time.Duration
}

// DefaultGeneratorConfig returns settings that look like a busy week
func DefaultGeneratorConfig(count int) GeneratorConfig {
	return GeneratorConfig{
		Count:      count,
		Seed:       42,
		MaxScore:   100,
		DealChance: 0.25,
		MaxAge:     14 * day,
	}
}

var (
	pipeline = []string{
		models.StatusNewLead, models.StatusQualified, models.StatusCallBooked, models.StatusWon,
		models.StatusLost, models.StatusUnqualified, models.StatusNoShow, models.StatusNeedsFollowup,
		models.StatusCold,
	}
	sources = []string{"Sponsored Ad", "Direct Message", "Story - Replies", "Website Form", "Referral"}
	tagPool = []string{"Interested", "Automations", "Hot Lead", "Pricing", "Follow Up", "VIP"}
	owners  = []string{"Sarah", "Alex", "Jane", "Gav", "Jia"}
	openers = []string{
		"Hi! I saw your ad.",
		"What does the starter plan include?",
		"Can we book a call this week?",
		"Do you integrate with our CRM?",
	}
)

// Generate builds cfg.Count fake leads. Roughly half get a short exchange.
func Generate(cfg GeneratorConfig) []LeadFixture {
	faker := gofakeit.New(cfg.Seed)
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 14 * day
	}

	out := make([]LeadFixture, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		person := faker.Person()

		tags := models.NewTagSet()
		for n := faker.Number(0, 2); n > 0; n-- {
			tags.Add(faker.RandomString(tagPool))
		}

		req := models.CreateLeadRequest{
			Name:       person.FirstName + " " + person.LastName,
			Email:      faker.Email(),
			Status:     faker.RandomString(pipeline),
			Score:      faker.Number(0, cfg.MaxScore),
			Tags:       tags,
			Source:     faker.RandomString(sources),
			AssignedTo: faker.RandomString(owners),
		}
		if faker.Float64Range(0, 1) < cfg.DealChance {
			req.DealValue = deal(float64(faker.Number(5, 100) * 100))
		}

		ago := time.Duration(faker.Int64() % int64(cfg.MaxAge))
		if ago < 0 {
			ago = -ago
		}
		fixture := LeadFixture{Lead: req, Ago: ago}
		if faker.Bool() && ago > time.Minute {
			fixture.Messages = []MessageFixture{
				{Sender: models.SenderLead, Text: faker.RandomString(openers), Ago: ago},
				{Sender: models.SenderUser, Text: faker.Sentence(8), Ago: ago - time.Minute},
			}
		}
		out = append(out, fixture)
	}
	return out
}
