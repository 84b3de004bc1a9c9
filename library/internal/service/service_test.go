package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	mock_repository "github.com/Astemirdum/library-management/library/internal/repository/mocks"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type statsRecorder struct {
	mu     sync.Mutex
	events []kafka.EventStats
}

func (r *statsRecorder) Log(event kafka.EventStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *statsRecorder) actions() []kafka.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]kafka.Action, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *mock_repository.MockRepository, *auth.TokenManager, *statsRecorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_repository.NewMockRepository(ctrl)
	tokens, err := auth.NewTokenManager(auth.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    120 * time.Hour,
	})
	require.NoError(t, err)
	stats := &statsRecorder{}
	svc := NewService(repo, tokens, stats, bcrypt.MinCost, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, tokens, stats
}

func TestService_Register(t *testing.T) {
	t.Parallel()
	svc, repo, _, stats := newTestService(t)
	ctx := context.Background()

	var stored model.Member
	repo.EXPECT().CreateMember(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, m model.Member) (model.Member, error) {
			stored = m
			m.ID = 1
			return m, nil
		})

	member, err := svc.Register(ctx, model.MemberCreateRequest{
		Name:        "Ann",
		Age:         30,
		PhoneNumber: "1234567890",
		Email:       "ann@mail.com",
		Address:     "Baker st",
		Password:    "secret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), member.ID)
	require.Equal(t, auth.RoleUser, stored.Role)
	require.NotEqual(t, "secret-pass", stored.Password)
	require.True(t, auth.ComparePassword("secret-pass", stored.Password))
	require.Equal(t, []kafka.Action{kafka.ActionMemberRegistered}, stats.actions())

	_, err = svc.Register(ctx, model.MemberCreateRequest{Password: "secret-pass", Role: "librarian"})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestService_Register_Role(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		role    auth.Role
		wantErr error
	}{
		{name: "explicit user", role: auth.RoleUser},
		{name: "err. admin", role: auth.RoleAdmin, wantErr: errs.ErrForbidden},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, _, stats := newTestService(t)
			if tt.wantErr == nil {
				repo.EXPECT().CreateMember(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Member) (model.Member, error) {
						require.Equal(t, auth.RoleUser, m.Role)
						m.ID = 2
						return m, nil
					})
			}

			_, err := svc.Register(context.Background(), model.MemberCreateRequest{
				Name: "Bob", Email: "bob@mail.com", Password: "secret-pass", Role: tt.role,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, stats.actions())
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_Login(t *testing.T) {
	t.Parallel()
	hash, err := auth.HashPassword("secret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	member := model.Member{ID: 7, Email: "ann@mail.com", Password: hash, Role: auth.RoleAdmin}

	tests := []struct {
		name     string
		password string
		mock     func(r *mock_repository.MockRepository)
		wantErr  error
	}{
		{
			name:     "ok",
			password: "secret-pass",
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().GetMemberByEmail(gomock.Any(), "ann@mail.com").Return(member, nil)
				r.EXPECT().SetRefreshToken(gomock.Any(), int64(7), gomock.Not(gomock.Nil())).Return(nil)
			},
		},
		{
			name:     "err. wrong password",
			password: "not-the-pass",
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().GetMemberByEmail(gomock.Any(), "ann@mail.com").Return(member, nil)
			},
			wantErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "err. unknown email",
			password: "secret-pass",
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().GetMemberByEmail(gomock.Any(), "ann@mail.com").Return(model.Member{}, errs.ErrNotFound)
			},
			wantErr: errs.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, tokens, stats := newTestService(t)
			tt.mock(repo)

			pair, err := svc.Login(context.Background(), model.LoginRequest{Email: "ann@mail.com", Password: tt.password})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, stats.actions())
				return
			}
			require.NoError(t, err)
			require.Equal(t, int64(7), pair.MemberID)

			claims, err := tokens.VerifyAccessToken(pair.AccessToken)
			require.NoError(t, err)
			require.Equal(t, auth.RoleAdmin, claims.Role)
			_, err = tokens.VerifyRefreshToken(pair.AccessToken)
			require.Error(t, err)
			_, err = tokens.VerifyRefreshToken(pair.RefreshToken)
			require.NoError(t, err)
			require.Equal(t, []kafka.Action{kafka.ActionMemberLogin}, stats.actions())
		})
	}
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("rotates", func(t *testing.T) {
		t.Parallel()
		svc, repo, tokens, _ := newTestService(t)
		old, err := tokens.GenerateRefreshToken(7, auth.RoleUser)
		require.NoError(t, err)

		var rotated string
		repo.EXPECT().GetMember(gomock.Any(), int64(7)).
			Return(model.Member{ID: 7, Role: auth.RoleUser, RefreshToken: &old}, nil)
		repo.EXPECT().SetRefreshToken(gomock.Any(), int64(7), gomock.Any()).
			Do(func(_ context.Context, _ int64, token *string) { rotated = *token }).
			Return(nil)

		pair, err := svc.Refresh(context.Background(), 7, old)
		require.NoError(t, err)
		require.NotEqual(t, old, pair.RefreshToken)
		require.Equal(t, rotated, pair.RefreshToken)
	})

	t.Run("stored token differs", func(t *testing.T) {
		t.Parallel()
		svc, repo, tokens, _ := newTestService(t)
		presented, err := tokens.GenerateRefreshToken(7, auth.RoleUser)
		require.NoError(t, err)
		other := "other"
		repo.EXPECT().GetMember(gomock.Any(), int64(7)).
			Return(model.Member{ID: 7, Role: auth.RoleUser, RefreshToken: &other}, nil)

		_, err = svc.Refresh(context.Background(), 7, presented)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("logged out", func(t *testing.T) {
		t.Parallel()
		svc, repo, tokens, _ := newTestService(t)
		presented, err := tokens.GenerateRefreshToken(7, auth.RoleUser)
		require.NoError(t, err)
		repo.EXPECT().GetMember(gomock.Any(), int64(7)).Return(model.Member{ID: 7, Role: auth.RoleUser}, nil)

		_, err = svc.Refresh(context.Background(), 7, presented)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("cookie of another member", func(t *testing.T) {
		t.Parallel()
		svc, _, tokens, _ := newTestService(t)
		presented, err := tokens.GenerateRefreshToken(8, auth.RoleUser)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), 7, presented)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("access token instead of refresh", func(t *testing.T) {
		t.Parallel()
		svc, _, tokens, _ := newTestService(t)
		access, err := tokens.GenerateAccessToken(7, auth.RoleUser)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), 7, access)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestService_Logout(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "ok"},
		{name: "ok. member already deleted", repoErr: errs.ErrNotFound},
		{name: "err. store failure", repoErr: context.DeadlineExceeded, wantErr: context.DeadlineExceeded},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, _, _ := newTestService(t)
			repo.EXPECT().SetRefreshToken(gomock.Any(), int64(7), gomock.Nil()).Return(tt.repoErr)

			err := svc.Logout(context.Background(), 7)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_UpdateMember_HashesPassword(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newTestService(t)
	pass := "new-secret-pass"
	repo.EXPECT().UpdateMember(gomock.Any(), int64(3), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, patch model.MemberUpdateRequest) (model.Member, error) {
			require.NotNil(t, patch.Password)
			require.True(t, auth.ComparePassword("new-secret-pass", *patch.Password))
			return model.Member{ID: 3}, nil
		})

	_, err := svc.UpdateMember(context.Background(), 3, model.MemberUpdateRequest{Password: &pass})
	require.NoError(t, err)
	require.Equal(t, "new-secret-pass", pass)
}

func TestService_IssueBook(t *testing.T) {
	t.Parallel()
	user := auth.Identity{UserID: 4, Role: auth.RoleUser}
	admin := auth.Identity{UserID: 1, Role: auth.RoleAdmin}
	due := model.NewDate(fixedNow.AddDate(0, 0, 14))
	past := model.NewDate(fixedNow.AddDate(0, 0, -1))
	today := model.NewDate(fixedNow)

	tests := []struct {
		name    string
		caller  auth.Identity
		req     model.IssueRequest
		mock    func(r *mock_repository.MockRepository)
		wantErr error
	}{
		{
			name:   "member borrows for self",
			caller: user,
			req:    model.IssueRequest{BookID: 2, DueDate: &due},
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().IssueBook(gomock.Any(), int64(4), int64(2), today, due).
					Return(model.Transaction{ID: 1, MemberID: 4, BookID: 2, BookStatus: model.BookStatusIssued}, nil)
			},
		},
		{
			name:   "admin borrows for another",
			caller: admin,
			req:    model.IssueRequest{MemberID: 4, BookID: 2, DueDate: &due},
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().IssueBook(gomock.Any(), int64(4), int64(2), today, due).
					Return(model.Transaction{ID: 1, MemberID: 4, BookID: 2, BookStatus: model.BookStatusIssued}, nil)
			},
		},
		{
			name:    "err. member borrows for another",
			caller:  user,
			req:     model.IssueRequest{MemberID: 5, BookID: 2, DueDate: &due},
			mock:    func(r *mock_repository.MockRepository) {},
			wantErr: errs.ErrForbidden,
		},
		{
			name:    "err. due date in the past",
			caller:  user,
			req:     model.IssueRequest{BookID: 2, DueDate: &past},
			mock:    func(r *mock_repository.MockRepository) {},
			wantErr: errs.ErrValidation,
		},
		{
			name:   "err. no copies",
			caller: user,
			req:    model.IssueRequest{BookID: 2, DueDate: &due},
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().IssueBook(gomock.Any(), int64(4), int64(2), today, due).
					Return(model.Transaction{}, errs.ErrNoCopiesAvailable)
			},
			wantErr: errs.ErrNoCopiesAvailable,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, _, stats := newTestService(t)
			tt.mock(repo)

			got, err := svc.IssueBook(context.Background(), tt.caller, tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, stats.actions())
				return
			}
			require.NoError(t, err)
			require.Equal(t, int64(4), got.MemberID)
			require.Equal(t, []kafka.Action{kafka.ActionBookIssued}, stats.actions())
		})
	}
}

func TestService_ReturnBook(t *testing.T) {
	t.Parallel()
	loan := model.Transaction{ID: 9, MemberID: 4, BookID: 2, BookStatus: model.BookStatusIssued}

	t.Run("owner", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, stats := newTestService(t)
		repo.EXPECT().GetTransaction(gomock.Any(), int64(9)).Return(loan, nil)
		returned := loan
		returned.BookStatus = model.BookStatusReturned
		repo.EXPECT().ReturnBook(gomock.Any(), int64(9), model.NewDate(fixedNow)).Return(returned, nil)

		got, err := svc.ReturnBook(context.Background(), auth.Identity{UserID: 4, Role: auth.RoleUser}, 9)
		require.NoError(t, err)
		require.Equal(t, model.BookStatusReturned, got.BookStatus)
		require.Equal(t, []kafka.Action{kafka.ActionBookReturned}, stats.actions())
	})

	t.Run("err. someone else's loan", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)
		repo.EXPECT().GetTransaction(gomock.Any(), int64(9)).Return(loan, nil)

		_, err := svc.ReturnBook(context.Background(), auth.Identity{UserID: 5, Role: auth.RoleUser}, 9)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestService_UpdateTransaction(t *testing.T) {
	t.Parallel()
	issued := model.NewDate(fixedNow)
	date := func(days int) *model.Date {
		d := model.NewDate(fixedNow.AddDate(0, 0, days))
		return &d
	}
	loan := model.Transaction{ID: 9, MemberID: 4, BookID: 2, DateOfIssue: issued, DueDate: *date(14)}

	tests := []struct {
		name    string
		due     *model.Date
		mock    func(r *mock_repository.MockRepository)
		wantErr error
	}{
		{
			name: "ok. later",
			due:  date(30),
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().GetTransaction(gomock.Any(), int64(9)).Return(loan, nil)
				r.EXPECT().UpdateTransaction(gomock.Any(), int64(9), *date(30)).Return(loan, nil)
			},
		},
		{
			name: "ok. same day as issue",
			due:  date(0),
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().GetTransaction(gomock.Any(), int64(9)).Return(loan, nil)
				r.EXPECT().UpdateTransaction(gomock.Any(), int64(9), *date(0)).Return(loan, nil)
			},
		},
		{
			name: "err. before issue",
			due:  date(-1),
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().GetTransaction(gomock.Any(), int64(9)).Return(loan, nil)
			},
			wantErr: errs.ErrValidation,
		},
		{
			name: "err. unknown loan",
			due:  date(3),
			mock: func(r *mock_repository.MockRepository) {
				r.EXPECT().GetTransaction(gomock.Any(), int64(9)).Return(model.Transaction{}, errs.ErrNotFound)
			},
			wantErr: errs.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, _, _ := newTestService(t)
			tt.mock(repo)

			_, err := svc.UpdateTransaction(context.Background(), 9, model.TransactionUpdateRequest{DueDate: tt.due})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_ListTransactions_PinsMember(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newTestService(t)
	page := model.TransactionPageRequest{PageRequest: model.PageRequest{Limit: 10}, MemberID: 99}

	repo.EXPECT().ListTransactions(gomock.Any(), model.TransactionPageRequest{
		PageRequest: model.PageRequest{Limit: 10},
		MemberID:    4,
	}).Return(model.Page[model.Transaction]{Items: []model.Transaction{}}, nil)
	repo.EXPECT().ListTransactions(gomock.Any(), page).
		Return(model.Page[model.Transaction]{Items: []model.Transaction{}}, nil)

	_, err := svc.ListTransactions(context.Background(), auth.Identity{UserID: 4, Role: auth.RoleUser}, page)
	require.NoError(t, err)
	_, err = svc.ListTransactions(context.Background(), auth.Identity{UserID: 1, Role: auth.RoleAdmin}, page)
	require.NoError(t, err)
}
