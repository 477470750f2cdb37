package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/response"
	"github.com/stemsi/lexis/internal/service"
)

// StudentHandler handles student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List handles GET /api/v1/students.
func (h *StudentHandler) List(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}
	page, err := h.students.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

// Schema handles GET /api/v1/students/schema.
func (h *StudentHandler) Schema(c *gin.Context) {
	response.Success(c, http.StatusOK, viewOf(h.students.Schema()))
}

// Get handles GET /api/v1/students/:id.
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// Create handles POST /api/v1/students.
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.CreateStudentRequest
	if !bindBody(c, &req) {
		return
	}
	student, m, err := h.students.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, student, m)
}

// Update handles PATCH /api/v1/students/:id. Only the fields present in the
// body change.
func (h *StudentHandler) Update(c *gin.Context) {
	var patch model.StudentPatch
	if !bindBody(c, &patch) {
		return
	}
	m, err := h.students.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// BatchUpdate handles PATCH /api/v1/students/batch.
func (h *StudentHandler) BatchUpdate(c *gin.Context) {
	var req model.BatchUpdateStudentsRequest
	if !bindBody(c, &req) {
		return
	}
	m, err := h.students.BatchUpdate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// Delete handles DELETE /api/v1/students/:id.
func (h *StudentHandler) Delete(c *gin.Context) {
	m, err := h.students.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// BatchDelete handles POST /api/v1/students/batch-delete.
func (h *StudentHandler) BatchDelete(c *gin.Context) {
	var req keysRequest
	if !bindBody(c, &req) {
		return
	}
	m, err := h.students.BatchDelete(c.Request.Context(), req.Keys)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}
