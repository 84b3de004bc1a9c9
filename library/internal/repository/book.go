package repository

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

var (
	bookColumns = []string{"id", "title", "author", "publisher", "genre", "isbn_no", "num_of_pages", "total_num_of_copies", "available_num_of_copies"}
	bookSearch  = []string{"title", "author", "publisher", "genre", "isbn_no"}
)

func (r *repository) CreateBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error) {
	b := qb.Insert(booksTableName).
		Columns(bookColumns[1:]...).
		Values(req.Title, req.Author, req.Publisher, req.Genre, req.IsbnNo,
			req.NumOfPages, req.TotalNumOfCopies, req.AvailableNumOfCopies).
		Suffix(returning(bookColumns))

	var book model.Book
	if err := r.getOne(ctx, r.db, &book, b); err != nil {
		return model.Book{}, errors.Wrap(err, "create book")
	}
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	b := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1)

	var book model.Book
	if err := r.getOne(ctx, r.db, &book, b); err != nil {
		return model.Book{}, errors.Wrap(err, "book")
	}
	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int64, patch model.BookUpdateRequest) (model.Book, error) {
	set := make(map[string]any)
	setIf(set, "title", patch.Title)
	setIf(set, "author", patch.Author)
	setIf(set, "publisher", patch.Publisher)
	setIf(set, "genre", patch.Genre)
	setIf(set, "isbn_no", patch.IsbnNo)
	setIf(set, "num_of_pages", patch.NumOfPages)
	setIf(set, "total_num_of_copies", patch.TotalNumOfCopies)
	setIf(set, "available_num_of_copies", patch.AvailableNumOfCopies)
	if len(set) == 0 {
		return r.GetBook(ctx, id)
	}

	b := qb.Update(booksTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix(returning(bookColumns))

	var book model.Book
	if err := r.getOne(ctx, r.db, &book, b); err != nil {
		return model.Book{}, errors.Wrap(err, "book")
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, id int64) (model.Book, error) {
	b := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		Suffix(returning(bookColumns))

	var book model.Book
	if err := r.getOne(ctx, r.db, &book, b); err != nil {
		return model.Book{}, errors.Wrap(err, "book")
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, page model.PageRequest) (model.Page[model.Book], error) {
	return listPage[model.Book](ctx, r, listQuery{
		table:   booksTableName,
		columns: bookColumns,
		search:  bookSearch,
	}, page)
}
