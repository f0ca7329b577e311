package model

import (
	"encoding/json"
	"time"
)

// InteractionEvent is one respondent's timing/skip record for a single question.
// Absent keys decode to their zero values, which are the documented defaults
// (time_spent=0, skipped=false).
type InteractionEvent struct {
	QuestionID   int     `json:"question_id" bson:"questionId"`
	QuestionText string  `json:"question_text" bson:"questionText"`
	TimeSpent    float64 `json:"time_spent" bson:"timeSpent"` // seconds
	Skipped      bool    `json:"skipped" bson:"skipped"`
}

// SubmissionLog is one respondent's full pass through a form
type SubmissionLog struct {
	FormCompleted bool               `json:"form_completed" bson:"formCompleted"`
	Responses     []InteractionEvent `json:"responses" bson:"responses"`
}

// SubmissionRecord is a SubmissionLog as stored for a form
type SubmissionRecord struct {
	ID            string             `json:"id" bson:"_id,omitempty"`
	FormID        string             `json:"formId" bson:"formId"`
	FormCompleted bool               `json:"form_completed" bson:"formCompleted"`
	Responses     []InteractionEvent `json:"responses" bson:"responses"`
	SubmittedAt   time.Time          `json:"submittedAt" bson:"submittedAt"`
}

// Log strips the storage envelope
func (r *SubmissionRecord) Log() SubmissionLog {
	return SubmissionLog{
		FormCompleted: r.FormCompleted,
		Responses:     r.Responses,
	}
}

// FormField is static field metadata supplied by the form owner
type FormField struct {
	Name        string `json:"name" bson:"name"`
	Type        string `json:"type" bson:"type"`
	Placeholder string `json:"placeholder" bson:"placeholder"`
}

// UnmarshalJSON accepts both the "name" and the legacy "field_name" key.
// Missing type defaults to "text".
func (f *FormField) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        string `json:"name"`
		FieldName   string `json:"field_name"`
		Type        string `json:"type"`
		Placeholder string `json:"placeholder"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Name = raw.Name
	if f.Name == "" {
		f.Name = raw.FieldName
	}
	f.Type = raw.Type
	if f.Type == "" {
		f.Type = "text"
	}
	f.Placeholder = raw.Placeholder
	return nil
}

// Sanitized returns a copy fit for storage: negative time_spent values take
// the default of 0 and a missing response list becomes empty
func (l SubmissionLog) Sanitized() SubmissionLog {
	responses := make([]InteractionEvent, len(l.Responses))
	for i, e := range l.Responses {
		if e.TimeSpent < 0 {
			e.TimeSpent = 0
		}
		responses[i] = e
	}
	return SubmissionLog{
		FormCompleted: l.FormCompleted,
		Responses:     responses,
	}
}
