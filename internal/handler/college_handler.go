package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/response"
	"github.com/stemsi/lexis/internal/service"
)

// CollegeHandler handles college endpoints.
type CollegeHandler struct {
	colleges *service.CollegeService
	programs *service.ProgramService
}

// NewCollegeHandler creates a new CollegeHandler.
func NewCollegeHandler(colleges *service.CollegeService, programs *service.ProgramService) *CollegeHandler {
	return &CollegeHandler{colleges: colleges, programs: programs}
}

// List handles GET /api/v1/colleges.
func (h *CollegeHandler) List(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}
	page, err := h.colleges.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

// Schema handles GET /api/v1/colleges/schema.
func (h *CollegeHandler) Schema(c *gin.Context) {
	response.Success(c, http.StatusOK, viewOf(h.colleges.Schema()))
}

// Options handles GET /api/v1/colleges/options.
func (h *CollegeHandler) Options(c *gin.Context) {
	all, err := h.colleges.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, all)
}

// Programs handles GET /api/v1/colleges/:code/programs.
func (h *CollegeHandler) Programs(c *gin.Context) {
	programs, err := h.programs.ByCollege(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, programs)
}

// Get handles GET /api/v1/colleges/:code.
func (h *CollegeHandler) Get(c *gin.Context) {
	college, err := h.colleges.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, college)
}

// Create handles POST /api/v1/colleges.
func (h *CollegeHandler) Create(c *gin.Context) {
	var req model.CreateCollegeRequest
	if !bindBody(c, &req) {
		return
	}
	college, m, err := h.colleges.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, college, m)
}

// Update handles PATCH /api/v1/colleges/:code.
func (h *CollegeHandler) Update(c *gin.Context) {
	var patch model.CollegePatch
	if !bindBody(c, &patch) {
		return
	}
	m, err := h.colleges.Update(c.Request.Context(), c.Param("code"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// Delete handles DELETE /api/v1/colleges/:code.
func (h *CollegeHandler) Delete(c *gin.Context) {
	m, err := h.colleges.Delete(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// BatchDelete handles POST /api/v1/colleges/batch-delete.
func (h *CollegeHandler) BatchDelete(c *gin.Context) {
	var req keysRequest
	if !bindBody(c, &req) {
		return
	}
	m, err := h.colleges.BatchDelete(c.Request.Context(), req.Keys)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}
