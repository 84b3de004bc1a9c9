package handler

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	Register(ctx context.Context, req model.MemberCreateRequest) (model.Member, error)
	Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error)
	Refresh(ctx context.Context, memberID int64, refreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, memberID int64) error

	GetMember(ctx context.Context, id int64) (model.Member, error)
	UpdateMember(ctx context.Context, id int64, req model.MemberUpdateRequest) (model.Member, error)
	DeleteMember(ctx context.Context, id int64) (model.Member, error)
	ListMembers(ctx context.Context, page model.PageRequest) (model.Page[model.Member], error)

	CreateBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookUpdateRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context, page model.PageRequest) (model.Page[model.Book], error)

	IssueBook(ctx context.Context, caller auth.Identity, req model.IssueRequest) (model.Transaction, error)
	ReturnBook(ctx context.Context, caller auth.Identity, id int64) (model.Transaction, error)
	GetTransaction(ctx context.Context, caller auth.Identity, id int64) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, req model.TransactionUpdateRequest) (model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) (model.Transaction, error)
	ListTransactions(ctx context.Context, caller auth.Identity, page model.TransactionPageRequest) (model.Page[model.Transaction], error)
}

var _ LibraryService = (*service.Service)(nil)
