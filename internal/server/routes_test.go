package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/tasktrack/tasktrack-go/internal/config"
	"github.com/tasktrack/tasktrack-go/internal/crypto"
	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/testutil"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		JWTSecret:   testSecret,
		JWTExpiry:   config.TokenExpiry,
		HashScheme:  crypto.SchemeBcrypt,
		BcryptCost:  4,
		CORSOrigins: []string{"*"},
	}
	return NewRouter(cfg, testutil.NewTestDB(t))
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func registerAndLogin(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/register", "", map[string]string{
		"f_name": "Test", "l_name": "User", "email": email, "password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[model.LoginResponse](t, rec).Token
}

func TestRegister(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/register", "", map[string]string{
		"f_name": "Ada", "l_name": "Lovelace", "email": "ada@x.com", "password": "engine",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	res := decode[model.WriteResult](t, rec)
	if res.InsertID == 0 || res.AffectedRows != 1 {
		t.Errorf("register ack = %+v", res)
	}
}

func TestRegisterAndLoginLongPassword(t *testing.T) {
	h := newTestServer(t)
	password := strings.Repeat("x", 80)

	token := registerAndLogin(t, h, "long@x.com", password)
	if _, err := crypto.ValidateToken(token, testSecret); err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}

	rec := do(t, h, http.MethodPost, "/login", "", map[string]string{"email": "long@x.com", "password": password[:40]})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login with truncated password status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRegisterBadInput(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name     string
		body     any
		wantBody string
	}{
		{
			name:     "missing password",
			body:     map[string]string{"f_name": "a", "l_name": "b", "email": "a@x.com"},
			wantBody: "password is required",
		},
		{
			name:     "malformed json",
			body:     "{not json",
			wantBody: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/register", "", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRegisterBodyTooLarge(t *testing.T) {
	h := newTestServer(t)

	huge := `{"f_name":"` + strings.Repeat("a", 2<<20) + `"}`
	rec := do(t, h, http.MethodPost, "/register", "", huge)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestLogin(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "a@x.com", "hunter22")

	claims, err := crypto.ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("token lifetime = %v, want 1h", got)
	}

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
		wantErr  string
	}{
		{name: "unknown email", body: map[string]string{"email": "b@x.com", "password": "hunter22"}, wantCode: http.StatusUnauthorized, wantErr: "Invalid Email"},
		{name: "wrong password", body: map[string]string{"email": "a@x.com", "password": "hunter23"}, wantCode: http.StatusUnauthorized, wantErr: "Invalid Password"},
		{name: "missing email", body: map[string]string{"password": "hunter22"}, wantCode: http.StatusBadRequest, wantErr: "email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/login", "", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := decode[map[string]string](t, rec)["error"]; got != tt.wantErr {
				t.Errorf("error = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestTodoRoutesRequireToken(t *testing.T) {
	h := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/create"},
		{http.MethodGet, "/get-all?email=a@x.com"},
		{http.MethodPut, "/update/1"},
		{http.MethodDelete, "/delete/1"},
		{http.MethodGet, "/me"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := do(t, h, rt.method, rt.path, "", nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestTodoLifecycle(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "a@x.com", "hunter22")

	rec := do(t, h, http.MethodPost, "/create", token, map[string]any{"todo": "buy milk", "done": false, "email": "a@x.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	id := decode[model.WriteResult](t, rec).InsertID

	rec = do(t, h, http.MethodGet, "/get-all?email=a@x.com", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get-all status = %d", rec.Code)
	}
	todos := decode[[]model.Todo](t, rec)
	if len(todos) != 1 || todos[0].ID != id || todos[0].Text != "buy milk" || todos[0].Done {
		t.Fatalf("get-all = %+v", todos)
	}

	path := "/update/" + itoa(id)
	for i, want := range []bool{true, false} {
		rec = do(t, h, http.MethodPut, path, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("update #%d status = %d", i+1, rec.Code)
		}
		if res := decode[model.WriteResult](t, rec); res.AffectedRows != 1 {
			t.Fatalf("update #%d affectedRows = %d", i+1, res.AffectedRows)
		}

		todos = decode[[]model.Todo](t, do(t, h, http.MethodGet, "/get-all", token, nil))
		if todos[0].Done != want {
			t.Errorf("after update #%d done = %v, want %v", i+1, todos[0].Done, want)
		}
	}

	rec = do(t, h, http.MethodDelete, "/delete/"+itoa(id), token, nil)
	if res := decode[model.WriteResult](t, rec); rec.Code != http.StatusOK || res.AffectedRows != 1 {
		t.Fatalf("delete = %d %+v", rec.Code, res)
	}

	todos = decode[[]model.Todo](t, do(t, h, http.MethodGet, "/get-all", token, nil))
	if len(todos) != 0 {
		t.Errorf("get-all after delete = %+v", todos)
	}
}

func TestTodoMissingIDReportsZeroRows(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "a@x.com", "hunter22")

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		path := "/update/999"
		if method == http.MethodDelete {
			path = "/delete/999"
		}
		rec := do(t, h, method, path, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", method, rec.Code)
		}
		if res := decode[model.WriteResult](t, rec); res.AffectedRows != 0 {
			t.Errorf("%s affectedRows = %d, want 0", method, res.AffectedRows)
		}
	}
}

func TestTodoBadID(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "a@x.com", "hunter22")

	rec := do(t, h, http.MethodPut, "/update/abc", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestTodoOwnership(t *testing.T) {
	h := newTestServer(t)
	alice := registerAndLogin(t, h, "a@x.com", "alice-pw")
	bob := registerAndLogin(t, h, "b@x.com", "bob-pw")

	rec := do(t, h, http.MethodPost, "/create", alice, map[string]any{"todo": "alice's", "done": false})
	id := decode[model.WriteResult](t, rec).InsertID

	if rec := do(t, h, http.MethodGet, "/get-all?email=a@x.com", bob, nil); rec.Code != http.StatusForbidden {
		t.Errorf("bob listing alice's todos status = %d, want 403", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/create", bob, map[string]any{"todo": "x", "email": "a@x.com"}); rec.Code != http.StatusForbidden {
		t.Errorf("bob creating for alice status = %d, want 403", rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/delete/"+itoa(id), bob, nil)
	if res := decode[model.WriteResult](t, rec); res.AffectedRows != 0 {
		t.Errorf("bob deleting alice's todo affected %d rows", res.AffectedRows)
	}

	todos := decode[[]model.Todo](t, do(t, h, http.MethodGet, "/get-all", alice, nil))
	if len(todos) != 1 {
		t.Errorf("alice's todos = %+v", todos)
	}
}

func TestMe(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "a@x.com", "hunter22")

	rec := do(t, h, http.MethodGet, "/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if me := decode[model.UserResponse](t, rec); me.Email != "a@x.com" {
		t.Errorf("me = %+v", me)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[map[string]any](t, rec)["status"]; got != "up" {
		t.Errorf("status field = %v, want up", got)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
