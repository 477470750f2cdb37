// Package service validates requests, keeps the College → Program → Student
// hierarchy consistent across renames and deletions, and pages listings.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/apperror"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
	"github.com/stemsi/lexis/internal/validator"
)

// base carries what every entity service needs.
type base struct {
	store    repository.Store
	validate *validator.Validator
	pageSize int
	log      zerolog.Logger
}

func newBase(store repository.Store, v *validator.Validator, pageSize int, log zerolog.Logger, component string) base {
	if pageSize < 1 {
		pageSize = model.DefaultPageSize
	}
	return base{
		store:    store,
		validate: v,
		pageSize: pageSize,
		log:      log.With().Str("component", component).Logger(),
	}
}

// check validates dst and returns a validation error listing every bad field.
func (b base) check(dst any) error {
	if fields := b.validate.Check(dst); fields != nil {
		return apperror.ValidationFields(fields)
	}
	return nil
}

// listQuery fixes the page size and clamps the page number.
func (b base) listQuery(q model.ListQuery) model.ListQuery {
	q.PageSize = b.pageSize
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// fail converts a repository error into a tagged error, logging anything
// that is not the caller's fault.
func (b base) fail(op, key string, err error) error {
	var tagged *apperror.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tagged):
		return err
	case errors.Is(err, query.ErrUnknownField), errors.Is(err, query.ErrUnknownSort):
		return apperror.Validation(err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(fmt.Sprintf("%s not found", key))
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Integrity(fmt.Sprintf("%s already exists", key))
	case errors.Is(err, repository.ErrDangling):
		return apperror.Integrity(fmt.Sprintf("%s references a record that does not exist", key))
	}
	b.log.Error().Err(err).Str("op", op).Str("key", key).Msg("Storage operation failed")
	return apperror.Persistence(fmt.Sprintf("failed to %s %s", op, key), err)
}

// requireKeys rejects an empty batch.
func requireKeys(keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil, apperror.Validation("at least one key is required")
	}
	return out, nil
}

func trim(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
