package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"wordplay-service/internal/domain"
)

const (
	maxBodyBytes      = 1 << 20
	maxThumbnailBytes = 5 << 20
)

var thumbnailExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateGameInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	rec, err := h.service.CreateGame(r.Context(), kindFrom(r.Context()), identityFrom(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "game created", rec)
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.service.ListGames(r.Context(), kindFrom(r.Context()), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "games fetched", games)
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetGame(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "game fetched", rec)
}

func (h *Handler) updateGame(w http.ResponseWriter, r *http.Request) {
	var in domain.UpdateGameInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	rec, err := h.service.UpdateGame(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "game updated", rec)
}

func (h *Handler) deleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if err := h.service.DeleteGame(r.Context(), kindFrom(r.Context()), gameID, identityFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "game deleted", map[string]string{"id": gameID})
}

func (h *Handler) setThumbnail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxThumbnailBytes+1024)
	if err := r.ParseMultipartForm(maxThumbnailBytes); err != nil {
		h.fail(w, r, fmt.Errorf("%w: invalid multipart form", domain.ErrValidation))
		return
	}
	file, header, err := r.FormFile("thumbnail_image")
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: thumbnail_image is required", domain.ErrValidation))
		return
	}
	defer file.Close()
	if !thumbnailExts[strings.ToLower(path.Ext(header.Filename))] {
		h.fail(w, r, fmt.Errorf("%w: thumbnail must be a jpg, png or webp image", domain.ErrValidation))
		return
	}

	rec, err := h.service.SetThumbnail(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()), header.Filename, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "thumbnail updated", rec)
}

func (h *Handler) publishGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.PublishGame(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "game published", rec)
}

func (h *Handler) unpublishGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.UnpublishGame(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "game unpublished", rec)
}

func (h *Handler) previewGame(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.PreviewGame(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "game fetched", view)
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.service.ListQuestions(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "questions fetched", qs)
}

func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var in domain.QuestionInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.service.AddQuestion(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "question added", q)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.GetQuestion(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), chi.URLParam(r, "questionID"), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "question fetched", q)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var patch domain.QuestionPatch
	if err := decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.service.UpdateQuestion(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), chi.URLParam(r, "questionID"), identityFrom(r.Context()), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "question updated", q)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")
	err := h.service.DeleteQuestion(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), questionID, identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "question deleted", map[string]string{"id": questionID})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	return nil
}
