package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"studyquiz/middleware"
	"studyquiz/models"
	"studyquiz/services"

	"github.com/gorilla/mux"
)

type CourseHandler struct {
	service *services.CourseService
}

func NewCourseHandler(service *services.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

func (h *CourseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses", h.CreateCourse).Methods("POST")
	router.HandleFunc("/courses", h.GetCourses).Methods("GET")
	router.HandleFunc("/courses/{id}", h.GetCourseByID).Methods("GET")
	router.HandleFunc("/courses/{id}", h.UpdateCourse).Methods("PUT")
	router.HandleFunc("/courses/{id}", h.DeleteCourse).Methods("DELETE")
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	course, err := h.service.CreateCourse(middleware.UserID(r), &req)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, course)
}

func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.GetCoursesByUser(middleware.UserID(r))
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve courses")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, courses)
}

func (h *CourseHandler) GetCourseByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	course, err := h.service.GetCourseByID(vars["id"], middleware.UserID(r))
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve course")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, course)
}

func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	course, err := h.service.UpdateCourse(vars["id"], middleware.UserID(r), &req)
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteCourse(vars["id"], middleware.UserID(r)); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to delete course")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CourseHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *CourseHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func isNotFound(err error) bool {
	return strings.Contains(err.Error(), "not found")
}
