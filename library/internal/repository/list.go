package repository

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type listQuery struct {
	table   string
	columns []string
	// searchable columns, OR'ed together
	search []string
	where  sq.Sqlizer
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (q listQuery) filter(search string) sq.And {
	var filter sq.And
	if q.where != nil {
		filter = append(filter, q.where)
	}
	if search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		or := make(sq.Or, 0, len(q.search))
		for _, col := range q.search {
			or = append(or, sq.ILike{col: pattern})
		}
		filter = append(filter, or)
	}
	return filter
}

// listPage fetches one page and the total count over the same filter concurrently.
func listPage[T any](ctx context.Context, r *repository, q listQuery, page model.PageRequest) (model.Page[T], error) {
	itemsB := qb.Select(q.columns...).From(q.table)
	countB := qb.Select("COUNT(*)").From(q.table)
	if filter := q.filter(page.Search); len(filter) > 0 {
		itemsB = itemsB.Where(filter)
		countB = countB.Where(filter)
	}
	itemsQuery, itemsArgs, err := itemsB.
		OrderBy("id").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return model.Page[T]{}, err
	}
	countQuery, countArgs, err := countB.ToSql()
	if err != nil {
		return model.Page[T]{}, err
	}
	r.log.Debug("list", zap.String("q", itemsQuery), zap.Any("args", itemsArgs))

	var (
		items = make([]T, 0, page.Limit)
		total int
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.SelectContext(gCtx, &items, itemsQuery, itemsArgs...)
	})
	g.Go(func() error {
		return r.db.GetContext(gCtx, &total, countQuery, countArgs...)
	})
	if err := g.Wait(); err != nil {
		return model.Page[T]{}, errors.Wrapf(err, "list %s", q.table)
	}

	return model.Page[T]{
		Items: items,
		Pagination: model.Pagination{
			Offset: page.Offset,
			Limit:  page.Limit,
			Total:  total,
		},
	}, nil
}
