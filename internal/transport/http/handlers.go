package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"flashcard-quiz-service/internal/app"
	"flashcard-quiz-service/internal/dedup"
	"flashcard-quiz-service/internal/domain"
)

// Handler exposes the quiz use cases over JSON endpoints.
type Handler struct {
	service          *app.QuizService
	defaultThreshold float64
}

func NewHandler(service *app.QuizService, defaultThreshold float64) *Handler {
	if defaultThreshold <= 0 {
		defaultThreshold = dedup.DefaultThreshold
	}
	return &Handler{service: service, defaultThreshold: defaultThreshold}
}

// Register wires the handler's routes onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/question", h.DealQuestion)
	mux.HandleFunc("/api/answer", h.GradeAnswer)
	mux.HandleFunc("/api/check_duplicates", h.CheckDuplicates)
}

type dealRequest struct {
	Module string `json:"module"`
	UserID string `json:"userId"`
	domain.Filters
}

func (h *Handler) DealQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Module == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "module and userId are required")
		return
	}

	dealt, err := h.service.DealQuestion(r.Context(), req.Module, req.UserID, req.Filters)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dealt)
}

type gradeRequest struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Answer string `json:"answer"`
}

func (h *Handler) GradeAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" || req.UserID == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "token, userId, and answer are required")
		return
	}

	result, err := h.service.GradeAnswer(r.Context(), req.Token, req.UserID, req.Answer)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type checkDuplicatesRequest struct {
	Module   string `json:"module"`
	Question string `json:"question"`
	Limit    int    `json:"limit"`
}

type checkDuplicatesResponse struct {
	Duplicates []domain.DuplicateMatch `json:"duplicates"`
}

// CheckDuplicates supports a per-request X-Similarity-Threshold header;
// out-of-range values are rejected, never clamped.
func (h *Handler) CheckDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	threshold := h.defaultThreshold
	if raw := r.Header.Get("X-Similarity-Threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "X-Similarity-Threshold must be a valid number")
			return
		}
		threshold = parsed
	}

	var req checkDuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Module == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "module and question are required")
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = dedup.DefaultLimit
	}

	matches, err := h.service.CheckDuplicate(r.Context(), req.Module, req.Question, limit, threshold)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkDuplicatesResponse{Duplicates: matches})
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps the core error taxonomy onto HTTP responses. All
// token verification failures collapse into one message so callers cannot
// distinguish tampering from expiry or ownership.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		writeError(w, http.StatusConflict, "token already used for a correct answer")
	case errors.Is(err, domain.ErrCorruptToken),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrUserMismatch),
		errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusBadRequest, "invalid or expired token")
	case errors.Is(err, domain.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "no questions found for the selected criteria")
	case errors.Is(err, domain.ErrInvalidThreshold), errors.Is(err, domain.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
