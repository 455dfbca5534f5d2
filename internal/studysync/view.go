package studysync

import "studysync/internal/models"

// OptionStyle is the highlight applied to one quiz option.
type OptionStyle string

const (
	StyleNeutral           OptionStyle = "neutral"
	StyleCorrectSelected   OptionStyle = "correct-selected"
	StyleIncorrectSelected OptionStyle = "incorrect-selected"
	StyleRevealCorrect     OptionStyle = "reveal-correct"
)

// OptionStyle decides the highlight of an option. Selection is read from the
// current answers while correctness comes from the stored result, so an answer
// changed after grading is colored against the old verdict.
func (s *State) OptionStyle(question, option int) OptionStyle {
	result, graded := s.Results[question]
	if !graded || s.Materials == nil || question >= len(s.Materials.QuizQuestions) {
		return StyleNeutral
	}
	answer, answered := s.Answers[question]
	selected := answered && answer == option
	switch {
	case result && selected:
		return StyleCorrectSelected
	case !result && selected:
		return StyleIncorrectSelected
	case s.Materials.QuizQuestions[question].CorrectAnswer == option:
		return StyleRevealCorrect
	default:
		return StyleNeutral
	}
}

// View is a read-only projection of State for templates and JSON clients.
type View struct {
	File        *models.UploadedFile `json:"uploadedFile"`
	Processing  bool                 `json:"isProcessing"`
	Error       string               `json:"error,omitempty"`
	CanGenerate bool                 `json:"canGenerate"`
	Materials   *MaterialsView       `json:"studyMaterials"`
}

// MaterialsView renders the materials together with quiz progress.
type MaterialsView struct {
	Summary    string             `json:"summary"`
	Questions  []QuestionView     `json:"quizQuestions"`
	Flashcards []models.Flashcard `json:"flashcards"`
	CanSubmit  bool               `json:"canSubmitQuiz"`
	Graded     bool               `json:"graded"`
	Score      int                `json:"score"`
}

type QuestionView struct {
	Index         int          `json:"index"`
	Question      string       `json:"question"`
	Options       []OptionView `json:"options"`
	CorrectAnswer int          `json:"correctAnswer"`
	// Result is nil until the quiz has been submitted.
	Result *bool `json:"result"`
}

type OptionView struct {
	Index    int         `json:"index"`
	Text     string      `json:"text"`
	Selected bool        `json:"selected"`
	Style    OptionStyle `json:"style"`
}

// Verdict returns the text shown under a graded question.
func (q QuestionView) Verdict() string {
	if q.Result == nil {
		return ""
	}
	if *q.Result {
		return "Correct!"
	}
	return "Incorrect"
}

// View builds the projection.
func (s *State) View() View {
	v := View{
		File:        s.File,
		Processing:  s.Processing,
		Error:       s.Error,
		CanGenerate: s.CanGenerate(),
	}
	if s.Materials == nil {
		return v
	}

	m := &MaterialsView{
		Summary:    s.Materials.Summary,
		Flashcards: s.Materials.Flashcards,
		CanSubmit:  s.CanSubmit(),
		Graded:     len(s.Results) > 0,
		Score:      s.Score(),
	}
	for i, q := range s.Materials.QuizQuestions {
		qv := QuestionView{
			Index:         i,
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
		}
		if result, ok := s.Results[i]; ok {
			qv.Result = &result
		}
		answer, answered := s.Answers[i]
		for j, text := range q.Options {
			qv.Options = append(qv.Options, OptionView{
				Index:    j,
				Text:     text,
				Selected: answered && answer == j,
				Style:    s.OptionStyle(i, j),
			})
		}
		m.Questions = append(m.Questions, qv)
	}
	v.Materials = m
	return v
}
