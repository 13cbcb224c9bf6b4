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

type MaterialHandler struct {
	service       *services.MaterialService
	courseService *services.CourseService
}

func NewMaterialHandler(service *services.MaterialService, courseService *services.CourseService) *MaterialHandler {
	return &MaterialHandler{service: service, courseService: courseService}
}

func (h *MaterialHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses/{courseId}/materials", h.CreateMaterial).Methods("POST")
	router.HandleFunc("/courses/{courseId}/materials", h.GetMaterials).Methods("GET")
	router.HandleFunc("/courses/{courseId}/materials/search", h.SearchMaterials).Methods("GET")
	router.HandleFunc("/courses/{courseId}/materials/{id}", h.DeleteMaterial).Methods("DELETE")
}

func (h *MaterialHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.authorizeCourse(w, r)
	if !ok {
		return
	}

	var req models.CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	material, err := h.service.CreateMaterial(middleware.UserID(r), courseID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "material limit reached") {
			h.writeErrorResponse(w, http.StatusForbidden, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, material)
}

func (h *MaterialHandler) GetMaterials(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.authorizeCourse(w, r)
	if !ok {
		return
	}

	materials, err := h.service.GetMaterialsByCourse(courseID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve materials")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, materials)
}

// SearchMaterials matches materials against the repeated "q" query parameter,
// e.g. /materials/search?q=photosynthesis&q=chlorophyll.
func (h *MaterialHandler) SearchMaterials(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.authorizeCourse(w, r)
	if !ok {
		return
	}

	terms := r.URL.Query()["q"]

	materials, err := h.service.SearchMaterialsByContent(courseID, terms)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to search materials")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, materials)
}

func (h *MaterialHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.authorizeCourse(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.service.DeleteMaterial(vars["id"], courseID); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to delete material")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// authorizeCourse resolves the {courseId} path variable and verifies the
// course belongs to the authenticated user.
func (h *MaterialHandler) authorizeCourse(w http.ResponseWriter, r *http.Request) (string, bool) {
	courseID := mux.Vars(r)["courseId"]

	if _, err := h.courseService.GetCourseByID(courseID, middleware.UserID(r)); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to verify course")
		}
		return "", false
	}

	return courseID, true
}

func (h *MaterialHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *MaterialHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
