package handlers

import (
	"encoding/json"
	"net/http"

	"studyquiz/middleware"
	"studyquiz/models"
	"studyquiz/services"
	"studyquiz/services/llm"

	"github.com/gorilla/mux"
)

type QuizHandler struct {
	service       *services.QuizService
	courseService *services.CourseService
}

func NewQuizHandler(service *services.QuizService, courseService *services.CourseService) *QuizHandler {
	return &QuizHandler{service: service, courseService: courseService}
}

func (h *QuizHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses/{courseId}/quizzes", h.GenerateQuiz).Methods("POST")
	router.HandleFunc("/courses/{courseId}/quizzes", h.GetQuizzes).Methods("GET")
	router.HandleFunc("/quizzes/{id}", h.GetQuiz).Methods("GET")
	router.HandleFunc("/quizzes/{id}/submit", h.SubmitQuiz).Methods("POST")
	router.HandleFunc("/quizzes/{id}", h.DeleteQuiz).Methods("DELETE")
}

func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseId"]
	userID := middleware.UserID(r)

	if _, err := h.courseService.GetCourseByID(courseID, userID); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to verify course")
		}
		return
	}

	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	quiz, err := h.service.GenerateQuiz(r.Context(), userID, courseID, &req)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, quiz)
}

func (h *QuizHandler) GetQuizzes(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseId"]
	userID := middleware.UserID(r)

	if _, err := h.courseService.GetCourseByID(courseID, userID); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to verify course")
		}
		return
	}

	quizzes, err := h.service.GetQuizzesByCourse(courseID, userID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve quizzes")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	quiz, err := h.service.GetQuiz(vars["id"], middleware.UserID(r))
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve quiz")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, quiz)
}

func (h *QuizHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	resp, err := h.service.SubmitQuiz(vars["id"], middleware.UserID(r), &req)
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, resp)
}

func (h *QuizHandler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteQuiz(vars["id"], middleware.UserID(r)); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to delete quiz")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeGenerationError maps LLM failures to responses that tell the user
// whether to fix configuration, wait, or simply retry.
func (h *QuizHandler) writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case llm.IsKind(err, llm.KindAuthFailure):
		h.writeErrorResponse(w, http.StatusInternalServerError,
			"AI provider rejected the configured credentials; check the server's API key")
	case llm.IsKind(err, llm.KindRateLimited):
		h.writeErrorResponse(w, http.StatusTooManyRequests,
			"AI provider rate limit reached; wait a moment and try again")
	case llm.IsKind(err, llm.KindNoJSONFound),
		llm.IsKind(err, llm.KindUnparseableResponse),
		llm.IsKind(err, llm.KindNotAnArray),
		llm.IsKind(err, llm.KindNoQuestionsGenerated),
		llm.IsKind(err, llm.KindMissingField),
		llm.IsKind(err, llm.KindMissingOptions):
		h.writeErrorResponse(w, http.StatusBadGateway,
			"AI provider returned an unusable response; try generating the quiz again")
	case llm.IsKind(err, llm.KindProviderError):
		h.writeErrorResponse(w, http.StatusBadGateway,
			"AI provider request failed; try again later")
	default:
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
	}
}

func (h *QuizHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *QuizHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
