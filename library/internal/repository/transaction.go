package repository

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	transactionColumns = []string{"id", "member_id", "book_id", "book_status", "date_of_issue", "due_date", "date_of_return"}
	transactionSearch  = []string{"book_status"}
)

const (
	takeCopy = `
update books
    set available_num_of_copies = available_num_of_copies - 1
where id = $1`
	putCopy = `
update books
    set available_num_of_copies = available_num_of_copies + 1
where id = $1 and available_num_of_copies < total_num_of_copies`
)

// IssueBook locks the book row, takes one copy and records the loan in one transaction.
func (r *repository) IssueBook(ctx context.Context, memberID, bookID int64, issued, due model.Date) (model.Transaction, error) {
	var t model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		lock := qb.Select("available_num_of_copies").
			From(booksTableName).
			Where(sq.Eq{"id": bookID}).
			Suffix("FOR UPDATE")
		var available int
		if err := r.getOne(ctx, tx, &available, lock); err != nil {
			return errors.Wrap(err, "book")
		}
		if available <= 0 {
			return errs.ErrNoCopiesAvailable
		}
		if _, err := tx.ExecContext(ctx, takeCopy, bookID); err != nil {
			return errors.Wrap(classify(err), "take copy")
		}

		ins := qb.Insert(transactionsTableName).
			Columns("member_id", "book_id", "book_status", "date_of_issue", "due_date").
			Values(memberID, bookID, string(model.BookStatusIssued), issued.Time, due.Time).
			Suffix(returning(transactionColumns))
		return r.getOne(ctx, tx, &t, ins)
	})
	if err != nil {
		return model.Transaction{}, errors.Wrap(err, "issue book")
	}
	return t, nil
}

// ReturnBook moves an issued loan to returned and puts the copy back.
func (r *repository) ReturnBook(ctx context.Context, id int64, returned model.Date) (model.Transaction, error) {
	var t model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		upd := qb.Update(transactionsTableName).
			Set("book_status", string(model.BookStatusReturned)).
			Set("date_of_return", returned.Time).
			Where(sq.Eq{"id": id, "book_status": string(model.BookStatusIssued)}).
			Suffix(returning(transactionColumns))
		err := r.getOne(ctx, tx, &t, upd)
		if errors.Is(err, errs.ErrNotFound) {
			var status model.BookStatus
			st := qb.Select("book_status").From(transactionsTableName).Where(sq.Eq{"id": id})
			if err := r.getOne(ctx, tx, &status, st); err != nil {
				return errors.Wrap(err, "transaction")
			}
			return errs.ErrAlreadyReturned
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, putCopy, t.BookID); err != nil {
			return errors.Wrap(classify(err), "put copy")
		}
		return nil
	})
	if err != nil {
		return model.Transaction{}, errors.Wrap(err, "return book")
	}
	return t, nil
}

func (r *repository) GetTransaction(ctx context.Context, id int64) (model.Transaction, error) {
	b := qb.Select(transactionColumns...).
		From(transactionsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1)

	var t model.Transaction
	if err := r.getOne(ctx, r.db, &t, b); err != nil {
		return model.Transaction{}, errors.Wrap(err, "transaction")
	}
	return t, nil
}

func (r *repository) UpdateTransaction(ctx context.Context, id int64, due model.Date) (model.Transaction, error) {
	b := qb.Update(transactionsTableName).
		Set("due_date", due.Time).
		Where(sq.Eq{"id": id}).
		Suffix(returning(transactionColumns))

	var t model.Transaction
	if err := r.getOne(ctx, r.db, &t, b); err != nil {
		return model.Transaction{}, errors.Wrap(err, "transaction")
	}
	return t, nil
}

// DeleteTransaction gives the copy back when the loan was still open.
func (r *repository) DeleteTransaction(ctx context.Context, id int64) (model.Transaction, error) {
	var t model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		b := qb.Delete(transactionsTableName).
			Where(sq.Eq{"id": id}).
			Suffix(returning(transactionColumns))
		if err := r.getOne(ctx, tx, &t, b); err != nil {
			return err
		}
		if t.BookStatus != model.BookStatusIssued {
			return nil
		}
		_, err := tx.ExecContext(ctx, putCopy, t.BookID)
		return classify(err)
	})
	if err != nil {
		return model.Transaction{}, errors.Wrap(err, "transaction")
	}
	return t, nil
}

func (r *repository) ListTransactions(ctx context.Context, page model.TransactionPageRequest) (model.Page[model.Transaction], error) {
	q := listQuery{
		table:   transactionsTableName,
		columns: transactionColumns,
		search:  transactionSearch,
	}
	if page.MemberID != 0 {
		q.where = sq.Eq{"member_id": page.MemberID}
	}
	return listPage[model.Transaction](ctx, r, q, page.PageRequest)
}
