// Package handler exposes the record services over JSON.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/response"
	"github.com/stemsi/lexis/internal/validator"
)

// keysRequest is the body of the batch-delete endpoints.
type keysRequest struct {
	Keys []string `json:"keys" binding:"required,min=1"`
}

// schemaView describes what a listing can be searched and sorted by.
type schemaView struct {
	Key         string      `json:"key"`
	Fields      []string    `json:"fields"`
	SortPairs   [][2]string `json:"sort_pairs"`
	DefaultSort string      `json:"default_sort"`
	DefaultThen string      `json:"default_then"`
}

func viewOf(s query.Schema) schemaView {
	return schemaView{
		Key:         s.Key,
		Fields:      s.Fields(),
		SortPairs:   s.Pairs,
		DefaultSort: s.DefaultSort,
		DefaultThen: s.DefaultThen,
	}
}

// bindListQuery reads page, sort, then, order, field and q from the query string.
func bindListQuery(c *gin.Context) (model.ListQuery, bool) {
	var q model.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Invalid(c, response.ErrInvalidQuery, validator.TranslateErrors(err))
		return q, false
	}
	q.Order = model.ParseSortOrder(string(q.Order))
	return q, true
}

// bindBody binds and validates the JSON body, answering 400 on failure.
func bindBody(c *gin.Context, dst any) bool {
	if fields := validator.Bind(c, dst); fields != nil {
		response.Invalid(c, response.ErrValidation, fields)
		return false
	}
	return true
}

// created answers 201 with the new record and the mutation summary.
func created(c *gin.Context, record any, m model.Mutation) {
	response.Success(c, http.StatusCreated, gin.H{"record": record, "result": m})
}
