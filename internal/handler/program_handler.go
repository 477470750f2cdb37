package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/response"
	"github.com/stemsi/lexis/internal/service"
)

// ProgramHandler handles program endpoints.
type ProgramHandler struct {
	programs *service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programs *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

func (h *ProgramHandler) List(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}
	page, err := h.programs.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

func (h *ProgramHandler) Schema(c *gin.Context) {
	response.Success(c, http.StatusOK, viewOf(h.programs.Schema()))
}

func (h *ProgramHandler) Get(c *gin.Context) {
	program, err := h.programs.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, program)
}

func (h *ProgramHandler) Create(c *gin.Context) {
	var req model.CreateProgramRequest
	if !bindBody(c, &req) {
		return
	}
	program, m, err := h.programs.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, program, m)
}

// Update renames or reassigns a program; students follow a rename.
func (h *ProgramHandler) Update(c *gin.Context) {
	var patch model.ProgramPatch
	if !bindBody(c, &patch) {
		return
	}
	m, err := h.programs.Update(c.Request.Context(), c.Param("code"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *ProgramHandler) Delete(c *gin.Context) {
	m, err := h.programs.Delete(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *ProgramHandler) BatchDelete(c *gin.Context) {
	var req keysRequest
	if !bindBody(c, &req) {
		return
	}
	m, err := h.programs.BatchDelete(c.Request.Context(), req.Keys)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}
