package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BelongsTo builds a Loader that fetches the row of related referenced by
// each item's foreign key in a single query. key may return nil for items
// without a reference.
func BelongsTo[T, R any](related Table, key func(*T) *int64, id func(*R) int64, attach func(*T, *R)) Loader[T] {
	return func(ctx context.Context, q Querier, items []*T) error {
		ids := make([]int64, 0, len(items))
		seen := make(map[int64]bool, len(items))
		for _, item := range items {
			k := key(item)
			if k == nil || seen[*k] {
				continue
			}
			seen[*k] = true
			ids = append(ids, *k)
		}
		if len(ids) == 0 {
			return nil
		}

		rows, err := q.Query(ctx,
			fmt.Sprintf("SELECT %s FROM %s WHERE id = ANY($1)", related.SelectList(""), related.Name),
			ids)
		if err != nil {
			return err
		}
		found, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[R])
		if err != nil {
			return err
		}

		byID := make(map[int64]*R, len(found))
		for _, r := range found {
			byID[id(r)] = r
		}
		for _, item := range items {
			if k := key(item); k != nil {
				if r, ok := byID[*k]; ok {
					attach(item, r)
				}
			}
		}
		return nil
	}
}
