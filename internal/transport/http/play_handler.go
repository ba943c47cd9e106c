package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"wordplay-service/internal/domain"
)

const liveWriteWait = 10 * time.Second

type checkRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer" validate:"min=1,max=100"`
}

type submitRequest struct {
	Answers   []checkRequest `json:"answers" validate:"min=1,dive"`
	TimeTaken *int           `json:"time_taken" validate:"omitempty,min=0"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (h *Handler) playView(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.PlayView(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "game fetched", view)
}

func (h *Handler) checkAnswer(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	answer, err := req.validate()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.service.CheckAnswer(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), answer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "answer checked", res)
}

func (h *Handler) submitAnswers(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	answers, err := req.validate()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	kind := kindFrom(r.Context())
	res, err := h.service.SubmitAnswers(r.Context(), kind, chi.URLParam(r, "gameID"), identityFrom(r.Context()), answers, req.TimeTaken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.metrics.observeSubmission(kind.Slug(), res.Score)
	respond(w, http.StatusOK, "answers submitted", res)
}

func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	lb, err := h.service.Results(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "results fetched", lb)
}

// live streams leaderboard snapshots over a websocket until the client goes away.
func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	updates, cancel, err := h.service.Subscribe(r.Context(), kindFrom(r.Context()), chi.URLParam(r, "gameID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	// the server's read deadline outlives the hijack
	_ = conn.SetReadDeadline(time.Time{})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case lb, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: lb}); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.Debug("ws write error", "error", err)
				}
				return
			}
		}
	}
}

func (c *checkRequest) trim() {
	c.QuestionID = strings.TrimSpace(c.QuestionID)
	c.Answer = strings.TrimSpace(c.Answer)
}

func (c checkRequest) validate() (domain.Answer, error) {
	c.trim()
	if err := validateRequest(c); err != nil {
		return domain.Answer{}, err
	}
	return domain.Answer{QuestionID: c.QuestionID, Answer: c.Answer}, nil
}

func (s submitRequest) validate() ([]domain.Answer, error) {
	answers := make([]checkRequest, len(s.Answers))
	for i, a := range s.Answers {
		a.trim()
		answers[i] = a
	}
	s.Answers = answers
	if err := validateRequest(s); err != nil {
		return nil, err
	}
	out := make([]domain.Answer, 0, len(answers))
	for _, a := range answers {
		out = append(out, domain.Answer{QuestionID: a.QuestionID, Answer: a.Answer})
	}
	return out, nil
}
