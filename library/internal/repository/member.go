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
	memberColumns = []string{"id", "name", "age", "phone_number", "email", "address", "password", "role", "refresh_token"}
	memberSearch  = []string{"name", "phone_number", "email"}
)

func (r *repository) CreateMember(ctx context.Context, m model.Member) (model.Member, error) {
	b := qb.Insert(membersTableName).
		Columns("name", "age", "phone_number", "email", "address", "password", "role").
		Values(m.Name, m.Age, m.PhoneNumber, m.Email, m.Address, m.Password, string(m.Role)).
		Suffix(returning(memberColumns))

	var member model.Member
	if err := r.getOne(ctx, r.db, &member, b); err != nil {
		return model.Member{}, errors.Wrap(err, "create member")
	}
	return member, nil
}

func (r *repository) GetMember(ctx context.Context, id int64) (model.Member, error) {
	return r.getMember(ctx, sq.Eq{"id": id})
}

func (r *repository) GetMemberByEmail(ctx context.Context, email string) (model.Member, error) {
	return r.getMember(ctx, sq.Eq{"email": email})
}

func (r *repository) getMember(ctx context.Context, where sq.Eq) (model.Member, error) {
	b := qb.Select(memberColumns...).
		From(membersTableName).
		Where(where).
		Limit(1)

	var member model.Member
	if err := r.getOne(ctx, r.db, &member, b); err != nil {
		return model.Member{}, errors.Wrap(err, "member")
	}
	return member, nil
}

func (r *repository) UpdateMember(ctx context.Context, id int64, patch model.MemberUpdateRequest) (model.Member, error) {
	set := make(map[string]any)
	setIf(set, "name", patch.Name)
	setIf(set, "age", patch.Age)
	setIf(set, "phone_number", patch.PhoneNumber)
	setIf(set, "email", patch.Email)
	setIf(set, "address", patch.Address)
	setIf(set, "password", patch.Password)
	if patch.Role != nil {
		set["role"] = string(*patch.Role)
	}
	if len(set) == 0 {
		return r.GetMember(ctx, id)
	}

	b := qb.Update(membersTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix(returning(memberColumns))

	var member model.Member
	if err := r.getOne(ctx, r.db, &member, b); err != nil {
		return model.Member{}, errors.Wrap(err, "member")
	}
	return member, nil
}

// DeleteMember returns the copies held on the member's open loans to inventory
// before the cascade removes the loans.
func (r *repository) DeleteMember(ctx context.Context, id int64) (model.Member, error) {
	var member model.Member
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		const restore = `
update books b
    set available_num_of_copies = least(b.available_num_of_copies + t.cnt, b.total_num_of_copies)
from (select book_id, count(*) as cnt
      from transactions
      where member_id = $1 and book_status = $2
      group by book_id) t
where b.id = t.book_id`
		if _, err := tx.ExecContext(ctx, restore, id, string(model.BookStatusIssued)); err != nil {
			return errors.Wrap(err, "restore copies")
		}

		b := qb.Delete(membersTableName).
			Where(sq.Eq{"id": id}).
			Suffix(returning(memberColumns))
		return r.getOne(ctx, tx, &member, b)
	})
	if err != nil {
		return model.Member{}, errors.Wrap(err, "member")
	}
	return member, nil
}

func (r *repository) ListMembers(ctx context.Context, page model.PageRequest) (model.Page[model.Member], error) {
	return listPage[model.Member](ctx, r, listQuery{
		table:   membersTableName,
		columns: memberColumns,
		search:  memberSearch,
	}, page)
}

// SetRefreshToken stores the member's single active refresh token; nil clears it.
func (r *repository) SetRefreshToken(ctx context.Context, memberID int64, token *string) error {
	query, args, err := qb.Update(membersTableName).
		Set("refresh_token", token).
		Where(sq.Eq{"id": memberID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(classify(err), "set refresh token")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrap(errs.ErrNotFound, "member")
	}
	return nil
}
