package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"studysync/internal/studysync"

	"github.com/gin-gonic/gin"
)

// QuizAnswerRequest selects one option of one question.
type QuizAnswerRequest struct {
	Question *int `form:"question" json:"question" binding:"required,min=0"`
	Option   *int `form:"option" json:"option" binding:"required,min=0"`
}

// HandleQuizAnswer records (or changes) the answer to one question.
func (h *Handler) HandleQuizAnswer(c *gin.Context) {
	var req QuizAnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid quiz answer", err)
		return
	}

	id := workspaceID(c)
	unlock := h.locks.lock(id)
	defer unlock()

	_, st := h.loadState(c)
	if err := st.Answer(*req.Question, *req.Option); err != nil {
		h.Log.Warn().Err(err).Str("workspace", id.String()).Msg("Quiz answer rejected")
		h.rejectQuizAction(c, st, err)
		return
	}

	if err := h.saveState(c, st); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to save workspace", err)
		return
	}
	h.respond(c, http.StatusOK, st)
}

// HandleSubmitQuiz grades every question against the current answers.
func (h *Handler) HandleSubmitQuiz(c *gin.Context) {
	id := workspaceID(c)
	unlock := h.locks.lock(id)
	defer unlock()

	_, st := h.loadState(c)
	if err := st.SubmitQuiz(); err != nil {
		h.Log.Warn().Err(err).Str("workspace", id.String()).Msg("Quiz submission rejected")
		h.rejectQuizAction(c, st, err)
		return
	}

	if err := h.saveState(c, st); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to save workspace", err)
		return
	}
	h.Log.Info().
		Str("workspace", id.String()).
		Str("score", fmt.Sprintf("%d/%d", st.Score(), len(st.Materials.QuizQuestions))).
		Msg("Quiz graded")
	h.respond(c, http.StatusOK, st)
}

// rejectQuizAction answers a refused quiz operation. The page controls never
// produce these requests, so browsers simply land back on the page.
func (h *Handler) rejectQuizAction(c *gin.Context, st *studysync.State, err error) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, studysync.ErrInvalidAnswer) {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	h.respond(c, statusFor(err), st)
}
