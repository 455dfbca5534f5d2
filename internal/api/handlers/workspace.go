package handlers

import (
	"errors"
	"net/http"

	"studysync/internal/models"
	"studysync/internal/studysync"

	"github.com/gin-gonic/gin"
)

// HandleIndex renders the workspace page.
func (h *Handler) HandleIndex(c *gin.Context) {
	_, st := h.loadState(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"View":   st.View(),
		"Accept": AcceptedExtensions,
	})
}

// HandleWorkspace returns the workspace view as JSON.
func (h *Handler) HandleWorkspace(c *gin.Context) {
	_, st := h.loadState(c)
	c.JSON(http.StatusOK, st.View())
}

// HandleSelectFile stores the uploaded document and makes it the workspace's
// selected file. A form without a file clears the selection.
func (h *Handler) HandleSelectFile(c *gin.Context) {
	ctx := c.Request.Context()
	id := workspaceID(c)

	// 1. Store the uploaded bytes, if any, before touching the workspace.
	var selected *models.UploadedFile
	fileHeader, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// Nothing picked: the selection is cleared below.
	case err != nil:
		h.handleError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return
	default:
		file, err := fileHeader.Open()
		if err != nil {
			h.handleError(c, http.StatusInternalServerError, "Failed to open uploaded file "+fileHeader.Filename, err)
			return
		}
		defer file.Close()

		key, err := h.Files.Save(ctx, id, fileHeader.Filename, file)
		if err != nil {
			h.handleError(c, http.StatusInternalServerError, "Failed to store uploaded file "+fileHeader.Filename, err)
			return
		}
		selected = &models.UploadedFile{
			Name:        fileHeader.Filename,
			Key:         key,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}
	}

	// 2. Swap the selection on the current state.
	unlock := h.locks.lock(id)
	_, st := h.loadState(c)
	previous := st.File
	st.SelectFile(selected)
	if err := h.saveState(c, st); err != nil {
		unlock()
		if selected != nil {
			h.discardUpload(c, id, selected.Key)
		}
		h.handleError(c, http.StatusInternalServerError, "Failed to save workspace", err)
		return
	}
	unlock()

	if selected != nil {
		h.Log.Info().
			Str("workspace", id.String()).
			Str("file", selected.Name).
			Int64("size", selected.Size).
			Msg("File selected")
	}

	// 3. Drop the replaced upload unless a generation is still reading it.
	if previous != nil && (selected == nil || previous.Key != selected.Key) {
		h.discardUpload(c, id, previous.Key)
	}

	h.respond(c, http.StatusOK, st)
}

// HandleGenerate runs generation for the selected file. A request arriving
// while another one is in flight for the same workspace changes nothing.
func (h *Handler) HandleGenerate(c *gin.Context) {
	id, snapshot := h.loadState(c)
	generatedFrom := snapshot.File

	// 1. Run the generation on a snapshot; this may take as long as the
	// backend needs and other requests keep working meanwhile.
	err := h.Orchestrator.Generate(c.Request.Context(), id.String(), snapshot)
	if errors.Is(err, studysync.ErrGenerationInFlight) {
		h.respond(c, statusFor(err), snapshot)
		return
	}

	// 2. Apply only the outcome to what is saved now, so a file picked while
	// the request was out is not rolled back.
	unlock := h.locks.lock(id)
	_, st := h.loadState(c)
	st.AdoptGeneration(snapshot, err)
	saveErr := h.saveState(c, st)
	unlock()
	if saveErr != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to save workspace", saveErr)
		return
	}

	// 3. The file this run read may have been replaced while it was out.
	if generatedFrom != nil && (st.File == nil || st.File.Key != generatedFrom.Key) {
		h.discardUpload(c, id, generatedFrom.Key)
	}

	h.respond(c, statusFor(err), st)
}

// HandleHealth reports that the server is up.
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
