package fallback

import (
	"strings"

	"github.com/akolanti/AcademyAssistant/internal/rag/query"
)

type Topic string

const (
	TopicPayment   Topic = "payment"
	TopicSchedule  Topic = "schedule"
	TopicPricing   Topic = "pricing"
	TopicInsurance Topic = "insurance"
	TopicFacility  Topic = "facility"
	TopicSports    Topic = "sports"
	TopicGeneral   Topic = "general"
)

type category struct {
	topic Topic
	terms []string
}

// Order matters: the first category with a matching term wins.
var categories = []category{
	{TopicPayment, []string{"payment", "pay", "paid", "invoice", "refund", "billing", "charge", "card", "autopay", "receipt"}},
	{TopicSchedule, []string{"schedule", "practice", "time", "when", "calendar", "game", "games", "session", "sessions", "cancel", "cancelled", "weather"}},
	{TopicPricing, []string{"cost", "price", "pricing", "fee", "fees", "tuition", "discount", "scholarship", "expensive"}},
	{TopicInsurance, []string{"insurance", "injury", "injured", "medical", "waiver", "liability", "concussion"}},
	{TopicFacility, []string{"facility", "field", "fields", "parking", "location", "address", "gym", "locker", "directions"}},
	{TopicSports, []string{"soccer", "basketball", "tennis", "swim", "swimming", "volleyball", "team", "tryout", "tryouts", "coach", "uniform", "equipment"}},
}

var messages = map[Topic]string{
	TopicPayment:   "I couldn't find a confident answer to that payment question. Please email billing@academy.example or call the front office during business hours and our billing team will sort it out.",
	TopicSchedule:  "I couldn't find that schedule detail. Please check the latest calendar in the parent portal or text the schedule line and a coordinator will confirm times for you.",
	TopicPricing:   "I don't have reliable pricing information for that. Please contact the registration desk at registration@academy.example for current fees and available discounts.",
	TopicInsurance: "I can't answer insurance or medical questions with confidence. Please reach out to our safety coordinator at safety@academy.example, who can walk you through coverage and waivers.",
	TopicFacility:  "I couldn't find that facility information. Please call the front desk and staff will help with directions, parking and field assignments.",
	TopicSports:    "I couldn't find a confident answer about that program. Please speak with your program director or email programs@academy.example for team and tryout details.",
	TopicGeneral:   "I'm not sure about that one. Please contact us at info@academy.example or call the front office and a staff member will get back to you.",
}

// Categorize picks the support topic for a question by keyword match.
func Categorize(question string) Topic {
	words := strings.Fields(query.StripPunctuation(question))
	present := make(map[string]struct{}, len(words))
	for _, w := range words {
		present[w] = struct{}{}
	}
	for _, c := range categories {
		for _, term := range c.terms {
			if _, ok := present[term]; ok {
				return c.topic
			}
		}
	}
	return TopicGeneral
}

// Message returns the canned contact message for a topic.
func Message(topic Topic) string {
	if m, ok := messages[topic]; ok {
		return m
	}
	return messages[TopicGeneral]
}

// For categorizes the question and returns its topic and contact message.
func For(question string) (Topic, string) {
	topic := Categorize(question)
	return topic, Message(topic)
}
