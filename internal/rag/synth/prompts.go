package synth

import (
	"fmt"
	"strings"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
)

// NotAvailable is repeated verbatim by the model when the passages do not answer the question.
const NotAvailable = "I don't have that information available right now. Please contact the academy office and a staff member will help you."

const baseRules = `You answer questions for a youth sports academy.
Rules:
1. Use only the information in the reference passages below. Do not use outside knowledge.
2. Keep answers to 3-4 sentences unless the question has several parts.
3. Always include concrete numbers, dates, times and prices exactly as they appear in the passages.
4. Never mention "the context", "the passages" or "the documents". Answer as if you simply know.
5. If the passages do not contain the answer, or you are unsure, reply with exactly this sentence and nothing else:
"` + NotAvailable + `"`

var audienceRules = map[commonModels.Audience]string{
	commonModels.AudienceParent: `You are speaking with a parent or guardian of an enrolled athlete.
6. Use a warm, plain-language tone. Focus on what the family needs to do: schedules, fees, forms, what to bring, pickup and safety.
7. Never share coaching procedures, staff-only policies, pay or internal notes, even if they appear in a passage.`,
	commonModels.AudienceCoach: `You are speaking with an academy coach.
6. Be direct and operational. Focus on session plans, staff policies, roster and facility logistics, and reporting steps.
7. Never share private family or billing details about a specific athlete, even if they appear in a passage.`,
}

// SystemPrompt is the audience-specific instruction sent with every synthesis.
func SystemPrompt(audience commonModels.Audience) string {
	rules, ok := audienceRules[audience]
	if !ok {
		rules = audienceRules[commonModels.AudienceParent]
	}
	return baseRules + "\n" + rules
}

// UserPrompt numbers each passage and appends the question.
func UserPrompt(question string, passages []answerModel.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("Reference passages:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "\n[%d]", i+1)
		if p.PageNumber != nil {
			fmt.Fprintf(&b, " (page %d)", *p.PageNumber)
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(p.Content))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nQuestion: %s", strings.TrimSpace(question))
	return b.String()
}
