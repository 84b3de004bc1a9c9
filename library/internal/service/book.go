package service

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) CreateBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, req model.BookUpdateRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, page model.PageRequest) (model.Page[model.Book], error) {
	return s.repo.ListBooks(ctx, page)
}
