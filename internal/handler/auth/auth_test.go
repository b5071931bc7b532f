package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"immoapp/internal/cache"
	"immoapp/internal/database"
	"immoapp/internal/logging"
	"immoapp/internal/model"
	"immoapp/internal/service"
	"immoapp/internal/store"
	"immoapp/internal/worker"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

// syncPool 直接在當前 goroutine 執行任務，便於測試斷言
type syncPool struct {
	mu    sync.Mutex
	tasks int
}

func (p *syncPool) Submit(t worker.Task) {
	p.mu.Lock()
	p.tasks++
	p.mu.Unlock()
	t()
}

func (p *syncPool) Stop() {}

type fakeSender struct {
	mu   sync.Mutex
	to   []string
	err  error
	subs []string
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.to = append(f.to, to)
	f.subs = append(f.subs, subject)
	return f.err
}

func newJSONCtx(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func restore() {
	hashPassword = service.HashPassword
	generateVerifyTok = service.GenerateVerificationToken
	getUserByEmail = store.GetUserByEmail
	createUser = store.CreateUser
	timeNow = time.Now
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	issueRefreshToken = service.IssueRefreshToken
	createSession = store.CreateSession
	recordAdminLog = service.RecordAdminLog
	validateRefreshToken = service.ValidateRefreshToken
	revokeRefreshToken = service.RevokeRefreshToken
	getUserByID = store.GetUserByID
	deleteSessionByTokenHash = store.DeleteSessionByTokenHash
	markEmailVerified = store.MarkEmailVerified
	commitEmailChange = store.CommitEmailChange
	setVerificationToken = store.SetVerificationToken
}

func activeUser() *model.User {
	name := "Alice"
	hash := "$2a$10$hash"
	return &model.User{
		ID:            1,
		Name:          &name,
		Email:         "alice@example.com",
		PasswordHash:  &hash,
		Role:          model.RoleUser,
		Status:        model.StatusActive,
		EmailVerified: true,
	}
}

func TestRegisterHandler(t *testing.T) {
	e := echo.New()
	e.Validator = &stubValidator{}
	log := &logging.FakeLogger{}

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/register", "{bad json")
		require.NoError(t, RegisterHandler(nil, &fakeSender{}, &syncPool{}, log, "http://x")(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return activeUser(), nil
		}
		body := `{"name":"Bob","email":"alice@example.com","password":"Secret123!"}`
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/register", body)
		require.NoError(t, RegisterHandler(nil, &fakeSender{}, &syncPool{}, log, "http://x")(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("success sends verification email", func(t *testing.T) {
		t.Cleanup(restore)
		sender := &fakeSender{}
		pool := &syncPool{}
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return nil, errors.New("no rows")
		}
		createUser = func(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
			require.Equal(t, "bob@example.com", u.Email)
			require.NotNil(t, u.PasswordHash)
			require.NotNil(t, u.VerificationToken)
			require.False(t, u.EmailVerified)
			u.ID = 2
			return u, nil
		}
		body := `{"name":"Bob","email":"Bob@Example.com","password":"Secret123!"}`
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/register", body)
		require.NoError(t, RegisterHandler(nil, sender, pool, log, "http://x")(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, []string{"bob@example.com"}, sender.to)
		require.Equal(t, 1, pool.tasks)
	})

	t.Run("unique violation backstop", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return nil, errors.New("no rows")
		}
		createUser = func(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
			return nil, &pgconn.PgError{Code: "23505"}
		}
		body := `{"name":"Bob","email":"bob@example.com","password":"Secret123!"}`
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/register", body)
		require.NoError(t, RegisterHandler(nil, &fakeSender{}, &syncPool{}, log, "http://x")(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := echo.New()
	e.Validator = &stubValidator{}
	log := &logging.FakeLogger{}

	t.Run("unknown email", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return nil, errors.New("no rows")
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/login", `{"email":"x@example.com","password":"p"}`)
		require.NoError(t, LoginHandler(nil, nil, log)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid credentials")
	})

	t.Run("wrong password same message", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return activeUser(), nil
		}
		authenticateUser = func(ctx context.Context, u model.User, p string) error {
			return service.ErrInvalidCredentials
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)
		require.NoError(t, LoginHandler(nil, nil, log)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid credentials")
	})

	t.Run("inactive refused", func(t *testing.T) {
		t.Cleanup(restore)
		u := activeUser()
		u.Status = model.StatusInactive
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return u, nil
		}
		authenticateUser = func(ctx context.Context, _ model.User, _ string) error { return nil }
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"p"}`)
		require.NoError(t, LoginHandler(nil, nil, log)(ctx))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("success issues tokens and session", func(t *testing.T) {
		t.Cleanup(restore)
		sessionCreated := false
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return activeUser(), nil
		}
		authenticateUser = func(ctx context.Context, _ model.User, _ string) error { return nil }
		issueRefreshToken = func(ctx context.Context, c cache.Cache, id int, role model.Role, ttl time.Duration) (string, error) {
			return "refresh-token", nil
		}
		createSession = func(ctx context.Context, db database.Querier, s *model.Session) (*model.Session, error) {
			sessionCreated = true
			require.Equal(t, 1, s.UserID)
			require.Equal(t, service.HashSessionToken("refresh-token"), s.TokenHash)
			return s, nil
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"p"}`)
		require.NoError(t, LoginHandler(nil, nil, log)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, sessionCreated)
		require.Contains(t, rec.Body.String(), "refresh-token")
		require.Contains(t, rec.Body.String(), "access_token")
	})

	t.Run("admin login audited", func(t *testing.T) {
		t.Cleanup(restore)
		var audit *model.AdminLog
		u := activeUser()
		u.Role = model.RoleAdmin
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return u, nil
		}
		authenticateUser = func(ctx context.Context, _ model.User, _ string) error { return nil }
		issueRefreshToken = func(ctx context.Context, c cache.Cache, id int, role model.Role, ttl time.Duration) (string, error) {
			return "rt", nil
		}
		createSession = func(ctx context.Context, db database.Querier, s *model.Session) (*model.Session, error) {
			return s, nil
		}
		recordAdminLog = func(ctx context.Context, db database.Querier, l logging.Logger, entry *model.AdminLog) {
			audit = entry
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"p"}`)
		require.NoError(t, LoginHandler(nil, nil, log)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, audit)
		require.Equal(t, model.LogActionLogin, audit.Action)
		require.Equal(t, 1, audit.AdminID)
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := echo.New()
	e.Validator = &stubValidator{}

	t.Run("invalid token", func(t *testing.T) {
		t.Cleanup(restore)
		validateRefreshToken = func(ctx context.Context, c cache.Cache, tok string) (*service.RefreshTokenData, error) {
			return nil, errors.New("not found")
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/refresh", `{"refresh_token":"x"}`)
		require.NoError(t, RefreshHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inactive user revoked", func(t *testing.T) {
		t.Cleanup(restore)
		revoked := false
		validateRefreshToken = func(ctx context.Context, c cache.Cache, tok string) (*service.RefreshTokenData, error) {
			return &service.RefreshTokenData{UserID: 1, Role: model.RoleUser}, nil
		}
		getUserByID = func(ctx context.Context, db database.Querier, id int) (*model.User, error) {
			u := activeUser()
			u.Status = model.StatusInactive
			return u, nil
		}
		revokeRefreshToken = func(ctx context.Context, c cache.Cache, tok string) error {
			revoked = true
			return nil
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/refresh", `{"refresh_token":"x"}`)
		require.NoError(t, RefreshHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.True(t, revoked)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		validateRefreshToken = func(ctx context.Context, c cache.Cache, tok string) (*service.RefreshTokenData, error) {
			return &service.RefreshTokenData{UserID: 1, Role: model.RoleUser}, nil
		}
		getUserByID = func(ctx context.Context, db database.Querier, id int) (*model.User, error) {
			return activeUser(), nil
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/refresh", `{"refresh_token":"x"}`)
		require.NoError(t, RefreshHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "access_token")
	})
}

func TestLogoutHandler(t *testing.T) {
	e := echo.New()
	e.Validator = &stubValidator{}

	t.Run("revokes and deletes session", func(t *testing.T) {
		t.Cleanup(restore)
		revoked := false
		deleted := false
		revokeRefreshToken = func(ctx context.Context, c cache.Cache, tok string) error {
			revoked = true
			require.Equal(t, "x", tok)
			return nil
		}
		deleteSessionByTokenHash = func(ctx context.Context, db database.Querier, hash string) error {
			deleted = true
			require.Equal(t, service.HashSessionToken("x"), hash)
			return nil
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/logout", `{"refresh_token":"x"}`)
		require.NoError(t, LogoutHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, revoked)
		require.True(t, deleted)
	})

	t.Run("revoke failure", func(t *testing.T) {
		t.Cleanup(restore)
		revokeRefreshToken = func(ctx context.Context, c cache.Cache, tok string) error {
			return errors.New("down")
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/logout", `{"refresh_token":"x"}`)
		require.NoError(t, LogoutHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestVerifyEmailHandler(t *testing.T) {
	e := echo.New()
	e.Validator = &stubValidator{}

	newVerifyCtx := func(email, token string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, "/auth/verify?email="+email+"&token="+token, nil)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	userWithToken := func(token string, expires time.Time) *model.User {
		u := activeUser()
		u.EmailVerified = false
		u.VerificationToken = &token
		u.VerificationExpires = &expires
		return u
	}

	t.Run("user not found", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return nil, errors.New("no rows")
		}
		ctx, rec := newVerifyCtx("x@example.com", "tok")
		require.NoError(t, VerifyEmailHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("token mismatch", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return userWithToken("expected", time.Now().Add(time.Hour)), nil
		}
		ctx, rec := newVerifyCtx("alice@example.com", "wrong")
		require.NoError(t, VerifyEmailHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid verification token")
	})

	t.Run("token expired", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return userWithToken("tok", time.Now().Add(-time.Hour)), nil
		}
		ctx, rec := newVerifyCtx("alice@example.com", "tok")
		require.NoError(t, VerifyEmailHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "expired")
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		marked := false
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return userWithToken("tok", time.Now().Add(time.Hour)), nil
		}
		markEmailVerified = func(ctx context.Context, db database.Querier, id int) error {
			marked = true
			require.Equal(t, 1, id)
			return nil
		}
		ctx, rec := newVerifyCtx("alice@example.com", "tok")
		require.NoError(t, VerifyEmailHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, marked)
	})
}

func TestResendVerificationHandler(t *testing.T) {
	e := echo.New()
	e.Validator = &stubValidator{}
	log := &logging.FakeLogger{}

	t.Run("unknown email still accepted", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return nil, errors.New("no rows")
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/resend-verification", `{"email":"x@example.com"}`)
		require.NoError(t, ResendVerificationHandler(nil, &fakeSender{}, &syncPool{}, log, "http://x")(ctx))
		require.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("already verified skips email", func(t *testing.T) {
		t.Cleanup(restore)
		pool := &syncPool{}
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			return activeUser(), nil
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/resend-verification", `{"email":"alice@example.com"}`)
		require.NoError(t, ResendVerificationHandler(nil, &fakeSender{}, pool, log, "http://x")(ctx))
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, 0, pool.tasks)
	})

	t.Run("reissues token and resends", func(t *testing.T) {
		t.Cleanup(restore)
		sender := &fakeSender{}
		pool := &syncPool{}
		storedToken := ""
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			u := activeUser()
			u.EmailVerified = false
			return u, nil
		}
		setVerificationToken = func(ctx context.Context, db database.Querier, id int, token string, expires time.Time) error {
			require.Equal(t, 1, id)
			storedToken = token
			return nil
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, "/auth/resend-verification", `{"email":"alice@example.com"}`)
		require.NoError(t, ResendVerificationHandler(nil, sender, pool, log, "http://x")(ctx))
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.NotEmpty(t, storedToken)
		require.Equal(t, []string{"alice@example.com"}, sender.to)
	})
}

func TestVerifyEmailChangeHandler(t *testing.T) {
	e := echo.New()
	e.Validator = &stubValidator{}

	t.Run("success commits pending email", func(t *testing.T) {
		t.Cleanup(restore)
		committed := false
		tok := "tok"
		expires := time.Now().Add(time.Hour)
		pending := "new@example.com"
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			u := activeUser()
			u.PendingEmail = &pending
			u.VerificationToken = &tok
			u.VerificationExpires = &expires
			return u, nil
		}
		commitEmailChange = func(ctx context.Context, db database.Querier, id int) error {
			committed = true
			return nil
		}
		req := httptest.NewRequest(http.MethodGet, "/auth/verify-email-change?email=alice@example.com&token=tok", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		require.NoError(t, VerifyEmailChangeHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, committed)
	})

	t.Run("pending email already taken", func(t *testing.T) {
		t.Cleanup(restore)
		tok := "tok"
		expires := time.Now().Add(time.Hour)
		getUserByEmail = func(ctx context.Context, db database.Querier, email string) (*model.User, error) {
			u := activeUser()
			u.VerificationToken = &tok
			u.VerificationExpires = &expires
			return u, nil
		}
		commitEmailChange = func(ctx context.Context, db database.Querier, id int) error {
			return &pgconn.PgError{Code: "23505"}
		}
		req := httptest.NewRequest(http.MethodGet, "/auth/verify-email-change?email=alice@example.com&token=tok", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		require.NoError(t, VerifyEmailChangeHandler(nil)(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}
