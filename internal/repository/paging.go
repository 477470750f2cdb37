package repository

import (
	"context"

	"github.com/stemsi/lexis/internal/model"
)

// CollectAll pages through a listing from page 1 until every match has been
// read. get is a repository's GetPage; q's filter, sort and page size are
// kept. The result is never nil.
func CollectAll[T any](ctx context.Context, q model.ListQuery, get func(context.Context, model.ListQuery) ([]T, int, error)) ([]T, error) {
	q.Page = 1
	out := []T{}
	for {
		items, total, err := get(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) == 0 || len(out) >= total {
			return out, nil
		}
		q.Page++
	}
}
