package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"flashcard-quiz-service/internal/app"
	"flashcard-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler runs practice sessions over a websocket: the server deals a
// question, grades submitted answers, and deals the next question after a
// correct one.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Token  string `json:"token"`
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and drives a deal/grade loop until the
// client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	moduleID := r.URL.Query().Get("module")
	userID := r.URL.Query().Get("userId")
	if moduleID == "" || userID == "" {
		http.Error(w, "missing module or userId", http.StatusBadRequest)
		return
	}
	filters := domain.Filters{
		Topics:    splitParam(r.URL.Query().Get("topics")),
		Subtopics: splitParam(r.URL.Query().Get("subtopics")),
		Tags:      splitParam(r.URL.Query().Get("tags")),
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	dealt, err := h.service.DealQuestion(r.Context(), moduleID, userID, filters)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[domain.DealtQuestion]{Type: "question", Payload: dealt}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			result, err := h.service.GradeAnswer(r.Context(), payload.Token, userID, payload.Answer)
			if err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
				continue
			}
			if err := conn.WriteJSON(outboundMessage[domain.GradeResult]{Type: "result", Payload: result}); err != nil {
				return
			}
			if !result.Correct {
				continue
			}
			// Correct answer: move on to the next question.
			dealt, err := h.service.DealQuestion(r.Context(), moduleID, userID, filters)
			if err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
				continue
			}
			if err := conn.WriteJSON(outboundMessage[domain.DealtQuestion]{Type: "question", Payload: dealt}); err != nil {
				return
			}
		default:
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}
}

// userMessage collapses token failures the same way the JSON endpoints do.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return "token already used for a correct answer"
	case errors.Is(err, domain.ErrCorruptToken),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrUserMismatch),
		errors.Is(err, domain.ErrTokenExpired):
		return "invalid or expired token"
	case errors.Is(err, domain.ErrQuestionNotFound):
		return "no questions found for the selected criteria"
	default:
		log.Printf("internal error: %v", err)
		return "internal error"
	}
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
