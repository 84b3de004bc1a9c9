package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	service_mocks "github.com/Astemirdum/library-management/library/internal/handler/mocks"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func refreshCookie(w *http.Response) *http.Cookie {
	for _, ck := range w.Cookies() {
		if ck.Name == "refreshToken_7" {
			return ck
		}
	}
	return nil
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()
	req := model.LoginRequest{Email: "ann@mail.com", Password: "secret-pass"}
	const reqBody = `{"email":"ann@mail.com","password":"secret-pass"}`

	tests := []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
		expectedBody string
		wantCookie   bool
	}{
		{
			name: "ok",
			body: reqBody,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Login(gomock.Any(), req).
					Return(model.TokenPair{MemberID: 7, AccessToken: "access", RefreshToken: "refresh"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"accessToken":"access"}`,
			wantCookie:   true,
		},
		{
			name: "err. user not found",
			body: reqBody,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Login(gomock.Any(), req).Return(model.TokenPair{}, errors.Wrap(errs.ErrNotFound, "member"))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"user not found"}`,
		},
		{
			name: "err. wrong password",
			body: reqBody,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Login(gomock.Any(), req).Return(model.TokenPair{}, errs.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"invalid credentials"}`,
		},
		{
			name:         "err. email required",
			body:         `{"password":"secret-pass"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"email is required"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newEnv(t)
			tt.mockBehavior(env.svc)

			w := env.do(http.MethodPost, "/api/v1/login", tt.body, "")

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, body(w))
			ck := refreshCookie(w.Result())
			if !tt.wantCookie {
				require.Nil(t, ck)
				return
			}
			require.NotNil(t, ck)
			require.Equal(t, "refresh", ck.Value)
			require.True(t, ck.HttpOnly)
			require.Equal(t, http.SameSiteStrictMode, ck.SameSite)
			require.Equal(t, "/", ck.Path)
			require.Equal(t, 120*60*60, ck.MaxAge)
		})
	}
}

func expiredAccessToken(t *testing.T, id int64, role auth.Role) string {
	t.Helper()
	stale, err := auth.NewTokenManager(auth.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Nanosecond,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	token, err := stale.GenerateAccessToken(id, role)
	require.NoError(t, err)
	return token
}

func TestHandler_Refresh(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		token        func(t *testing.T, env testEnv) string
		cookies      []*http.Cookie
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
		expectedBody string
	}{
		{
			name:    "ok",
			token:   func(t *testing.T, env testEnv) string { return env.token(t, 7, auth.RoleUser) },
			cookies: []*http.Cookie{{Name: "theme", Value: "dark"}, {Name: "refreshToken_7", Value: "old"}},
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Refresh(gomock.Any(), int64(7), "old").
					Return(model.TokenPair{MemberID: 7, AccessToken: "access2", RefreshToken: "new"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"accessToken":"access2"}`,
		},
		{
			name:  "ok. picks the caller's cookie among several",
			token: func(t *testing.T, env testEnv) string { return env.token(t, 7, auth.RoleUser) },
			cookies: []*http.Cookie{
				{Name: "refreshToken_3", Value: "tok3"},
				{Name: "refreshToken_7", Value: "tok7"},
			},
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Refresh(gomock.Any(), int64(7), "tok7").
					Return(model.TokenPair{MemberID: 7, AccessToken: "access7", RefreshToken: "new"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"accessToken":"access7"}`,
		},
		{
			name:    "ok. expired access token",
			token:   func(t *testing.T, _ testEnv) string { return expiredAccessToken(t, 7, auth.RoleUser) },
			cookies: []*http.Cookie{{Name: "refreshToken_7", Value: "old"}},
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Refresh(gomock.Any(), int64(7), "old").
					Return(model.TokenPair{MemberID: 7, AccessToken: "access2", RefreshToken: "new"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"accessToken":"access2"}`,
		},
		{
			name:         "err. no access token",
			token:        func(*testing.T, testEnv) string { return "" },
			cookies:      []*http.Cookie{{Name: "refreshToken_7", Value: "old"}},
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"No Authorization Header"}`,
		},
		{
			name:         "err. only another member's cookie",
			token:        func(t *testing.T, env testEnv) string { return env.token(t, 7, auth.RoleUser) },
			cookies:      []*http.Cookie{{Name: "refreshToken_3", Value: "tok3"}},
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"no refresh token"}`,
		},
		{
			name:         "err. no cookie",
			token:        func(t *testing.T, env testEnv) string { return env.token(t, 7, auth.RoleUser) },
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"no refresh token"}`,
		},
		{
			name:    "err. revoked",
			token:   func(t *testing.T, env testEnv) string { return env.token(t, 7, auth.RoleUser) },
			cookies: []*http.Cookie{{Name: "refreshToken_7", Value: "old"}},
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Refresh(gomock.Any(), int64(7), "old").
					Return(model.TokenPair{}, errors.Wrap(errs.ErrForbidden, "refresh token revoked"))
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"invalid refresh token"}`,
		},
		{
			name:    "err. internal",
			token:   func(t *testing.T, env testEnv) string { return env.token(t, 7, auth.RoleUser) },
			cookies: []*http.Cookie{{Name: "refreshToken_7", Value: "old"}},
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Refresh(gomock.Any(), int64(7), "old").Return(model.TokenPair{}, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Internal Server Error"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newEnv(t)
			tt.mockBehavior(env.svc)

			w := env.do(http.MethodPost, "/api/v1/refresh", "", tt.token(t, env), tt.cookies...)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, body(w))
			if tt.expectedCode == http.StatusOK {
				ck := refreshCookie(w.Result())
				require.NotNil(t, ck)
				require.Equal(t, "new", ck.Value)
			}
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	env.svc.EXPECT().Logout(gomock.Any(), int64(7)).Return(nil)

	w := env.do(http.MethodPost, "/api/v1/logout", "", env.token(t, 7, auth.RoleUser))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"message":"logged out"}`, body(w))
	ck := refreshCookie(w.Result())
	require.NotNil(t, ck)
	require.Empty(t, ck.Value)
	require.Negative(t, ck.MaxAge)
}

func TestHandler_RegisterLoginGetMember(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	member := model.Member{
		ID: 7, Name: "Ann", Age: 30, PhoneNumber: "1234567890", Email: "ann@mail.com",
		Address: "Baker st", Password: "$2a$10$hash", Role: auth.RoleUser,
	}
	access := env.token(t, 7, auth.RoleUser)

	gomock.InOrder(
		env.svc.EXPECT().Register(gomock.Any(), model.MemberCreateRequest{
			Name: "Ann", Age: 30, PhoneNumber: "1234567890", Email: "ann@mail.com",
			Address: "Baker st", Password: "secret-pass",
		}).Return(member, nil),
		env.svc.EXPECT().Login(gomock.Any(), model.LoginRequest{Email: "ann@mail.com", Password: "secret-pass"}).
			Return(model.TokenPair{MemberID: 7, AccessToken: access, RefreshToken: "refresh"}, nil),
		env.svc.EXPECT().GetMember(gomock.Any(), int64(7)).Return(member, nil),
	)

	w := env.do(http.MethodPost, "/api/v1/register",
		`{"name":"Ann","age":30,"phoneNumber":"1234567890","email":"ann@mail.com","address":"Baker st","password":"secret-pass"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, `{"message":"member registered"}`, body(w))

	w = env.do(http.MethodPost, "/api/v1/login", `{"email":"ann@mail.com","password":"secret-pass"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/member/7", "", access)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"id":7,"name":"Ann","age":30,"phoneNumber":"1234567890","email":"ann@mail.com","address":"Baker st","role":"user"}`, body(w))
}

func TestHandler_Register_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		body         string
		expectedBody string
	}{
		{
			name:         "short name",
			body:         `{"name":"An","age":30,"phoneNumber":"1234567890","email":"ann@mail.com","address":"Baker st","password":"secret-pass"}`,
			expectedBody: `{"message":"name must be at least 3"}`,
		},
		{
			name:         "age out of range",
			body:         `{"name":"Ann","age":101,"phoneNumber":"1234567890","email":"ann@mail.com","address":"Baker st","password":"secret-pass"}`,
			expectedBody: `{"message":"age must be less than or equal to 100"}`,
		},
		{
			name:         "phone with letters",
			body:         `{"name":"Ann","age":30,"phoneNumber":"12345abcde","email":"ann@mail.com","address":"Baker st","password":"secret-pass"}`,
			expectedBody: `{"message":"phoneNumber must contain digits only"}`,
		},
		{
			name:         "bad email",
			body:         `{"name":"Ann","age":30,"phoneNumber":"1234567890","email":"ann","address":"Baker st","password":"secret-pass"}`,
			expectedBody: `{"message":"email must be a valid email"}`,
		},
		{
			name:         "short password",
			body:         `{"name":"Ann","age":30,"phoneNumber":"1234567890","email":"ann@mail.com","address":"Baker st","password":"short"}`,
			expectedBody: `{"message":"password must be at least 8"}`,
		},
		{
			name:         "unknown role",
			body:         `{"name":"Ann","age":30,"phoneNumber":"1234567890","email":"ann@mail.com","address":"Baker st","password":"secret-pass","role":"root"}`,
			expectedBody: `{"message":"role must be one of [user admin]"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newEnv(t)

			w := env.do(http.MethodPost, "/api/v1/register", tt.body, "")

			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, tt.expectedBody, body(w))
		})
	}
}

func TestHandler_Register_Conflict(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	env.svc.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(model.Member{}, errors.Wrap(errors.Wrap(errs.ErrConflict, "email"), "create member"))

	w := env.do(http.MethodPost, "/api/v1/register",
		`{"name":"Ann","age":30,"phoneNumber":"1234567890","email":"ann@mail.com","address":"Baker st","password":"secret-pass"}`, "")

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, `{"message":"create member: email: already exists"}`, body(w))
}

func TestHandler_Register_AdminRole(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	env.svc.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(model.Member{}, errors.Wrap(errs.ErrForbidden, "role cannot be self-assigned"))

	w := env.do(http.MethodPost, "/api/v1/register",
		`{"name":"Ann","age":30,"phoneNumber":"1234567890","email":"ann@mail.com","address":"Baker st","password":"secret-pass","role":"admin"}`, "")

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, `{"message":"forbidden"}`, body(w))
}
