// Package studysync holds the per-workspace state container and the
// transitions applied to it by user events.
package studysync

import (
	"errors"
	"fmt"

	"studysync/internal/models"
)

// NoFileMessage is shown when generation is requested before a file is chosen.
const NoFileMessage = "Please upload a file first"

var (
	ErrNoFileSelected     = errors.New("no file selected")
	ErrGenerationInFlight = errors.New("generation already in progress")
	ErrNoMaterials        = errors.New("no study materials loaded")
	ErrInvalidAnswer      = errors.New("invalid quiz answer")
	ErrQuizIncomplete     = errors.New("every question must be answered before submitting")
)

// State is the whole application state of one workspace.
type State struct {
	File       *models.UploadedFile
	Materials  *models.StudyMaterials
	Processing bool
	Error      string
	Answers    map[int]int
	Results    map[int]bool
}

// New returns an empty workspace state.
func New() *State {
	return &State{
		Answers: map[int]int{},
		Results: map[int]bool{},
	}
}

// SelectFile replaces the selected file and clears the error banner. A nil
// file clears the selection.
func (s *State) SelectFile(f *models.UploadedFile) {
	s.File = f
	s.Error = ""
}

// CanGenerate reports whether the generate control is enabled.
func (s *State) CanGenerate() bool {
	return s.File != nil && !s.Processing
}

// beginGenerate runs the precondition check and enters processing.
func (s *State) beginGenerate() error {
	if s.File == nil {
		s.Error = NoFileMessage
		return ErrNoFileSelected
	}
	if s.Processing {
		return ErrGenerationInFlight
	}
	s.Processing = true
	s.Error = ""
	return nil
}

// finishGenerate applies the outcome of one generation request and leaves
// processing. Exactly one of resp and err is expected to be set.
func (s *State) finishGenerate(resp *models.GenerateResponse, err error) {
	defer func() { s.Processing = false }()

	switch {
	case err != nil:
		s.Error = err.Error()
		s.Materials = nil
	case resp == nil:
		s.Error = "empty response from generation backend"
		s.Materials = nil
	case resp.HasError():
		s.Error = resp.Error
		s.Materials = nil
	default:
		materials := resp.StudyMaterials
		s.Materials = &materials
		s.Answers = map[int]int{}
		s.Results = map[int]bool{}
	}
}

// AdoptGeneration carries the outcome of a generate call over to s. gen is
// the copy the call ran on, loaded before the request went out; err is what
// the call returned. The file selection and anything else saved while the
// request was outstanding are kept.
func (s *State) AdoptGeneration(gen *State, err error) {
	s.Error = gen.Error
	if err != nil {
		// Refused before any request was made: only the banner changes.
		return
	}
	s.Materials = gen.Materials
	if gen.Error == "" {
		s.Answers = gen.Answers
		s.Results = gen.Results
	}
}

// Answer records the selected option for one question, overwriting any
// earlier choice. Grading already stored for the question is left as is.
func (s *State) Answer(question, option int) error {
	if s.Materials == nil {
		return ErrNoMaterials
	}
	if question < 0 || question >= len(s.Materials.QuizQuestions) {
		return fmt.Errorf("%w: question %d out of range", ErrInvalidAnswer, question)
	}
	if option < 0 || option >= len(s.Materials.QuizQuestions[question].Options) {
		return fmt.Errorf("%w: option %d out of range for question %d", ErrInvalidAnswer, option, question)
	}
	if s.Answers == nil {
		s.Answers = map[int]int{}
	}
	s.Answers[question] = option
	return nil
}

// CanSubmit reports whether every question has an answer.
func (s *State) CanSubmit() bool {
	if s.Materials == nil {
		return false
	}
	return len(s.Answers) == len(s.Materials.QuizQuestions)
}

// SubmitQuiz grades every question at once against the current answers and
// replaces the stored results.
func (s *State) SubmitQuiz() error {
	if s.Materials == nil {
		return ErrNoMaterials
	}
	if !s.CanSubmit() {
		return ErrQuizIncomplete
	}
	results := make(map[int]bool, len(s.Materials.QuizQuestions))
	for i, q := range s.Materials.QuizQuestions {
		answer, ok := s.Answers[i]
		results[i] = ok && answer == q.CorrectAnswer
	}
	s.Results = results
	return nil
}

// Graded reports whether the question has a stored result.
func (s *State) Graded(question int) bool {
	_, ok := s.Results[question]
	return ok
}

// Score returns the number of correct stored results.
func (s *State) Score() int {
	n := 0
	for _, ok := range s.Results {
		if ok {
			n++
		}
	}
	return n
}
