package model

import "time"

// Form is a persistent form definition owned by a host
type Form struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	HostID    string      `json:"hostId" bson:"hostId"`
	Title     string      `json:"title" bson:"title"`
	Category  string      `json:"category" bson:"category"` // Free text, matched against the category table
	Fields    []FormField `json:"fields" bson:"fields"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Questions returns the non-empty field names in order
func (f *Form) Questions() []string {
	return QuestionTexts(f.Fields)
}

// QuestionTexts returns the non-empty field names in order
func QuestionTexts(fields []FormField) []string {
	questions := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.Name != "" {
			questions = append(questions, field.Name)
		}
	}
	return questions
}

// AnalyzeRequest is the request body for POST /v1/analyze
type AnalyzeRequest struct {
	FormID       string      `json:"form_id,omitempty"`
	FormTitle    string      `json:"form_title"`
	Questions    []FormField `json:"questions"`
	UserQuestion string      `json:"user_question"`
}

// AnalyzeResponse is the combined analysis output
type AnalyzeResponse struct {
	FormPurpose        string          `json:"form_purpose"`
	CategorizedFields  []FormField     `json:"categorized_fields"`
	Suggestions        []string        `json:"suggestions"`
	SuggestedQuestions []string        `json:"suggested_questions"`
	QuestionAssistant  []string        `json:"question_assistant"`
	Report             *FeedbackReport `json:"report"`
}

// SuggestQuestionRequest is the request body for POST /v1/suggest-question
type SuggestQuestionRequest struct {
	Question    string `json:"question"`
	FormPurpose string `json:"form_purpose"`
}
