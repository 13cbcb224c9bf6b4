package handlers

import (
	"encoding/json"
	"net/http"

	"studyquiz/middleware"
	"studyquiz/services"

	"github.com/gorilla/mux"
)

type AnalyticsHandler struct {
	service       *services.AnalyticsService
	courseService *services.CourseService
}

func NewAnalyticsHandler(service *services.AnalyticsService, courseService *services.CourseService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, courseService: courseService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses/{courseId}/analytics", h.GetCourseAnalytics).Methods("GET")
	router.HandleFunc("/analytics/summary", h.GetUserSummary).Methods("GET")
}

func (h *AnalyticsHandler) GetCourseAnalytics(w http.ResponseWriter, r *http.Request) {
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

	records, err := h.service.GetCourseAnalytics(userID, courseID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve analytics")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, records)
}

func (h *AnalyticsHandler) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetUserSummary(middleware.UserID(r))
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve analytics summary")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *AnalyticsHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
