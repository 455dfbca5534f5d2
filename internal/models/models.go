package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StudyMaterials is the generated bundle for one uploaded document.
type StudyMaterials struct {
	Summary       string         `json:"summary"`
	QuizQuestions []QuizQuestion `json:"quizQuestions"`
	Flashcards    []Flashcard    `json:"flashcards"`
}

// QuizQuestion is a multiple-choice question with one correct option index.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Flashcard is a term/definition pair for review.
type Flashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// UploadedFile references a user-selected document. The bytes live in a file
// store under Key.
type UploadedFile struct {
	Name        string `json:"name"`
	Key         string `json:"-"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// GenerateResponse is the parsed body of POST /generate-materials. The body is
// either the materials themselves or an object carrying an "error" field.
type GenerateResponse struct {
	StudyMaterials
	// Error is the backend-reported message, empty when the body carries none.
	Error string `json:"-"`
}

// UnmarshalJSON decodes the materials and resolves the "error" field the way
// a loosely typed client would: only a truthy value counts as an error.
func (r *GenerateResponse) UnmarshalJSON(data []byte) error {
	// A bare null decodes into nothing without complaint.
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("generation response is not a JSON object: %.32s", trimmed)
	}
	var body struct {
		StudyMaterials
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	r.StudyMaterials = body.StudyMaterials
	r.Error = errorText(body.Error)
	return nil
}

// HasError reports whether the backend reported an application-level error.
func (r *GenerateResponse) HasError() bool {
	return r.Error != ""
}

// errorText renders a raw "error" value. Falsy values (absent, null, false,
// 0, "") yield the empty string.
func errorText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 {
			return ""
		}
		return fmt.Sprint(t)
	default:
		return string(raw)
	}
}
