package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaditya574/ledgelogger/internal/shared"
)

type memoryRepo struct {
	owners   map[string]Owner
	sessions map[string]int64
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{owners: map[string]Owner{}, sessions: map[string]int64{}}
}

func (m *memoryRepo) CreateOwner(ctx context.Context, owner Owner) (Owner, error) {
	if _, ok := m.owners[owner.EmailID]; ok {
		return Owner{}, shared.ErrDuplicateEmail
	}
	m.nextID++
	owner.ID = m.nextID
	m.owners[owner.EmailID] = owner
	return owner, nil
}

func (m *memoryRepo) FindByEmail(ctx context.Context, email string) (*Owner, error) {
	owner, ok := m.owners[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &owner, nil
}

func (m *memoryRepo) CreateSession(ctx context.Context, id string, ownerID int64, expiresAt time.Time, ip, ua string) error {
	m.sessions[id] = ownerID
	return nil
}

func (m *memoryRepo) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *memoryRepo) DeleteExpiredSessions(ctx context.Context) error { return nil }

type committingWriter struct {
	http.ResponseWriter
	commit        func()
	headerWritten bool
}

func (w *committingWriter) WriteHeader(statusCode int) {
	if !w.headerWritten {
		w.headerWritten = true
		w.commit()
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *committingWriter) Write(data []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

func newTestRouter(t *testing.T) (*chi.Mux, *memoryRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "ledgelogger_session", "test-secret", time.Hour, false)

	repo := newMemoryRepo()
	handler := NewHandler(slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)), NewService(repo), sessions)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			require.NoError(t, err)
			// Commit before the first byte, the same way the server's
			// session middleware does, so Set-Cookie lands in the response.
			cw := &committingWriter{ResponseWriter: w, commit: func() {
				require.NoError(t, sessions.Commit(req.Context(), w, req, sess))
			}}
			next.ServeHTTP(cw, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
			if !cw.headerWritten {
				cw.commit()
			}
		})
	})
	handler.MountRoutes(r)
	return r, repo
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignupAndLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/signup", map[string]string{
		"name":     "Dev Store",
		"email_id": "dev@store.test",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/login", map[string]string{
		"email_id": "dev@store.test",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "ledgelogger_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestSignupDuplicateEmail(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]string{
		"name":     "Dev Store",
		"email_id": "dev@store.test",
		"password": "secret-password",
	}
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/signup", body).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, router, "/signup", body).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/signup", map[string]string{
		"name":     "Dev Store",
		"email_id": "dev@store.test",
		"password": "secret-password",
	}).Code)

	rec := postJSON(t, router, "/login", map[string]string{
		"email_id": "dev@store.test",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRecordsSessionAudit(t *testing.T) {
	router, repo := newTestRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/signup", map[string]string{
		"name":     "Dev Store",
		"email_id": "dev@store.test",
		"password": "secret-password",
	}).Code)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/login", map[string]string{
		"email_id": "dev@store.test",
		"password": "secret-password",
	}).Code)

	require.Len(t, repo.sessions, 1)
	for _, ownerID := range repo.sessions {
		assert.Equal(t, int64(1), ownerID)
	}
}
