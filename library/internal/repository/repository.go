package repository

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateMember(ctx context.Context, member model.Member) (model.Member, error)
	GetMember(ctx context.Context, id int64) (model.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (model.Member, error)
	UpdateMember(ctx context.Context, id int64, patch model.MemberUpdateRequest) (model.Member, error)
	DeleteMember(ctx context.Context, id int64) (model.Member, error)
	ListMembers(ctx context.Context, page model.PageRequest) (model.Page[model.Member], error)
	SetRefreshToken(ctx context.Context, memberID int64, token *string) error

	CreateBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, patch model.BookUpdateRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context, page model.PageRequest) (model.Page[model.Book], error)

	IssueBook(ctx context.Context, memberID, bookID int64, issued, due model.Date) (model.Transaction, error)
	ReturnBook(ctx context.Context, id int64, returned model.Date) (model.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, due model.Date) (model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) (model.Transaction, error)
	ListTransactions(ctx context.Context, page model.TransactionPageRequest) (model.Page[model.Transaction], error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	membersTableName      = `members`
	booksTableName        = `books`
	transactionsTableName = `transactions`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error("rollback", zap.Error(rbErr))
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

// getOne runs a single-row query and classifies the driver error.
func (r *repository) getOne(ctx context.Context, q sqlx.QueryerContext, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	r.log.Debug("query", zap.String("q", query), zap.Any("args", args))
	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func setIf[T any](set map[string]any, column string, v *T) {
	if v != nil {
		set[column] = *v
	}
}
