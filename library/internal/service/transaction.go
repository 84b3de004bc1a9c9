package service

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/pkg/errors"
)

// IssueBook lends a book. Members borrow for themselves; admins may borrow on
// behalf of anyone.
func (s *Service) IssueBook(ctx context.Context, caller auth.Identity, req model.IssueRequest) (model.Transaction, error) {
	memberID := req.MemberID
	if memberID == 0 {
		memberID = caller.UserID
	}
	if memberID != caller.UserID && !caller.Role.Can(auth.PermManageLoans) {
		return model.Transaction{}, errors.Wrap(errs.ErrForbidden, "cannot borrow for another member")
	}
	today := model.NewDate(s.now())
	if req.DueDate == nil || req.DueDate.Before(today.Time) {
		return model.Transaction{}, errors.Wrap(errs.ErrValidation, "dueDate must not be in the past")
	}

	t, err := s.repo.IssueBook(ctx, memberID, req.BookID, today, *req.DueDate)
	if err != nil {
		return model.Transaction{}, err
	}
	s.publish(kafka.ActionBookIssued, t.MemberID, t.BookID)
	return t, nil
}

func (s *Service) ReturnBook(ctx context.Context, caller auth.Identity, id int64) (model.Transaction, error) {
	if _, err := s.GetTransaction(ctx, caller, id); err != nil {
		return model.Transaction{}, err
	}
	t, err := s.repo.ReturnBook(ctx, id, model.NewDate(s.now()))
	if err != nil {
		return model.Transaction{}, err
	}
	s.publish(kafka.ActionBookReturned, t.MemberID, t.BookID)
	return t, nil
}

// GetTransaction is visible to the borrower and to admins.
func (s *Service) GetTransaction(ctx context.Context, caller auth.Identity, id int64) (model.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if t.MemberID != caller.UserID && !caller.Role.Can(auth.PermManageLoans) {
		return model.Transaction{}, errs.ErrForbidden
	}
	return t, nil
}

// UpdateTransaction moves the due date of a loan. It cannot fall before the issue date.
func (s *Service) UpdateTransaction(ctx context.Context, id int64, req model.TransactionUpdateRequest) (model.Transaction, error) {
	if req.DueDate == nil {
		return model.Transaction{}, errors.Wrap(errs.ErrValidation, "dueDate is required")
	}
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if req.DueDate.Before(t.DateOfIssue.Time) {
		return model.Transaction{}, errors.Wrap(errs.ErrValidation, "dueDate must not be before dateOfIssue")
	}
	return s.repo.UpdateTransaction(ctx, id, *req.DueDate)
}

func (s *Service) DeleteTransaction(ctx context.Context, id int64) (model.Transaction, error) {
	return s.repo.DeleteTransaction(ctx, id)
}

// ListTransactions pins non-admin callers to their own loans.
func (s *Service) ListTransactions(ctx context.Context, caller auth.Identity, page model.TransactionPageRequest) (model.Page[model.Transaction], error) {
	if !caller.Role.Can(auth.PermManageLoans) {
		page.MemberID = caller.UserID
	}
	return s.repo.ListTransactions(ctx, page)
}
