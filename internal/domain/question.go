package domain

import "time"

// AnswerOption is the literal forced choice a respondent makes.
// Which pole it maps to depends on each question's polarity flag.
type AnswerOption string

const (
	OptionFirst  AnswerOption = "A"
	OptionSecond AnswerOption = "B"
)

// ParseAnswerOption validates a raw selected option.
func ParseAnswerOption(s string) (AnswerOption, bool) {
	switch AnswerOption(s) {
	case OptionFirst, OptionSecond:
		return AnswerOption(s), true
	}
	return "", false
}

// Question is immutable reference data for one forced-choice item.
// OptionAMapsToFirst states the polarity: when true, choosing option A
// counts toward the dimension's first pole (E, S, T, J).
type Question struct {
	ID                 string    `json:"id"`
	OrderNumber        int       `json:"order_number"`
	Dimension          Dimension `json:"dimension"`
	TextEn             string    `json:"text_en"`
	TextAr             string    `json:"text_ar"`
	OptionATextEn      string    `json:"option_a_text_en"`
	OptionATextAr      string    `json:"option_a_text_ar"`
	OptionBTextEn      string    `json:"option_b_text_en"`
	OptionBTextAr      string    `json:"option_b_text_ar"`
	OptionAMapsToFirst bool      `json:"option_a_maps_to_first"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Text returns the question text for the requested language.
func (q Question) Text(language string) string {
	if language == "ar" {
		return q.TextAr
	}
	return q.TextEn
}

// OptionText returns the display text of one option for the requested language.
func (q Question) OptionText(opt AnswerOption, language string) string {
	if opt == OptionFirst {
		if language == "ar" {
			return q.OptionATextAr
		}
		return q.OptionATextEn
	}
	if language == "ar" {
		return q.OptionBTextAr
	}
	return q.OptionBTextEn
}

// Answer records one forced choice per question per session. Append-only;
// a resubmission for the same question replaces the stored option.
type Answer struct {
	ID             string       `json:"id"`
	SessionID      string       `json:"session_id"`
	QuestionID     string       `json:"question_id"`
	SelectedOption AnswerOption `json:"selected_option"`
	AnsweredAt     time.Time    `json:"answered_at"`
}
