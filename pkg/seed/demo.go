package seed

import (
	"time"

	"github.com/jordanlanch/leaddesk/pkg/models"
)

// LeadFixture is a lead to seed together with its transcript. Ago values are
// offsets back from the seeding time.
type LeadFixture struct {
	Lead     models.CreateLeadRequest
	Ago      time.Duration
	Messages []MessageFixture
}

// MessageFixture is one transcript line of a LeadFixture
type MessageFixture struct {
	Sender string
	Text   string
	Ago    time.Duration
}

const day = 24 * time.Hour

func deal(v float64) *float64 { return &v }

// Demo returns the dashboard demo data set: six leads across the pipeline
// and two short conversations.
func Demo() []LeadFixture {
	return []LeadFixture{
		{
			Lead: models.CreateLeadRequest{
				Name:       "Sarah Parker",
				Email:      "sarah.parker@example.com",
				Status:     models.StatusWon,
				Score:      85,
				Tags:       models.NewTagSet("Interested", "Automations"),
				Source:     "Sponsored Ad",
				AssignedTo: "Sarah",
				DealValue:  deal(2500),
			},
			Ago: 2 * day,
			Messages: []MessageFixture{
				{Sender: models.SenderLead, Text: "Hi, I saw your ad about automations.", Ago: 2 * day},
				{Sender: models.SenderUser, Text: "Hey Sarah! Yes, we help businesses streamline their workflows. What specifically are you looking to automate?", Ago: 2*day - time.Minute},
			},
		},
		{
			Lead: models.CreateLeadRequest{
				Name:       "Mike Brown",
				Email:      "mike.brown@example.com",
				Status:     models.StatusCallBooked,
				Score:      60,
				Tags:       models.NewTagSet("Interested"),
				Source:     "Sponsored Ad",
				AssignedTo: "Alex",
			},
			Ago: 3 * time.Hour,
			Messages: []MessageFixture{
				{Sender: models.SenderLead, Text: "Can we book a call?", Ago: 3 * time.Hour},
				{Sender: models.SenderUser, Text: "Sure, here is my calendar link.", Ago: 3*time.Hour - time.Minute},
			},
		},
		{
			Lead: models.CreateLeadRequest{
				Name:       "Linda Chen",
				Email:      "linda.chen@example.com",
				Status:     models.StatusUnqualified,
				Score:      20,
				Source:     "Sponsored Ad",
				AssignedTo: "Jane",
			},
			Ago: 7 * day,
		},
		{
			Lead: models.CreateLeadRequest{
				Name:       "David Lee",
				Email:      "david.lee@example.com",
				Status:     models.StatusWon,
				Score:      90,
				Tags:       models.NewTagSet("Interested"),
				Source:     "Direct Message",
				AssignedTo: "Gav",
				DealValue:  deal(5000),
			},
			Ago: 4 * day,
		},
		{
			Lead: models.CreateLeadRequest{
				Name:       "Emily White",
				Email:      "emily.white@example.com",
				Status:     models.StatusNoShow,
				Source:     "Story - Replies",
				AssignedTo: "Jia",
			},
			Ago: 15 * time.Minute,
		},
		{
			Lead: models.CreateLeadRequest{
				Name:       "Kevin Harris",
				Email:      "kevin.harris@example.com",
				Status:     models.StatusQualified,
				Score:      75,
				Tags:       models.NewTagSet("Automations"),
				Source:     "Direct Message",
				AssignedTo: "Jane",
			},
			Ago: 1 * day,
		},
	}
}
