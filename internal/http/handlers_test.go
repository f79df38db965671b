package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/harshlagwal/Wanderlust-backend/internal/domain"
	"github.com/harshlagwal/Wanderlust-backend/internal/security"
)

type authBody struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
	User    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func Test_Signup_Then_Login(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/api/auth/signup",
		`{"name":"John","email":"john@example.com","password":"StrongP@ss1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup code=%d body=%s", w.Code, w.Body.String())
	}
	var sr authBody
	if err := json.Unmarshal(w.Body.Bytes(), &sr); err != nil || sr.Token == "" {
		t.Fatalf("signup resp parse: %v; body=%s", err, w.Body.String())
	}
	if sr.User.Email != "john@example.com" || sr.User.Name != "John" || sr.User.ID == "" {
		t.Fatalf("unexpected user projection: %+v", sr.User)
	}

	w = env.do("POST", "/api/auth/login",
		`{"email":"john@example.com","password":"StrongP@ss1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	var lr authBody
	if err := json.Unmarshal(w.Body.Bytes(), &lr); err != nil || lr.Token == "" {
		t.Fatalf("login resp parse: %v; body=%s", err, w.Body.String())
	}

	claims, err := security.ParseToken(testSecret, lr.Token)
	if err != nil {
		t.Fatalf("token verify: %v", err)
	}
	if claims.Email != "john@example.com" || claims.ID != sr.User.ID {
		t.Fatalf("claims mismatch: %#v", claims)
	}
}

func Test_Signup_Duplicate_LeavesHashUntouched(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/api/auth/signup",
		`{"name":"A","email":"a@e.com","password":"FirstP@ss1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("first signup: %d %s", w.Code, w.Body.String())
	}
	before := env.Store.users["a@e.com"].PasswordHash

	w = env.do("POST", "/api/auth/signup",
		`{"name":"A","email":"a@e.com","password":"OtherP@ss2"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup expected 400, got %d %s", w.Code, w.Body.String())
	}
	var resp authBody
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "User already exists" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if env.Store.users["a@e.com"].PasswordHash != before {
		t.Fatal("duplicate signup modified the stored hash")
	}
}

func Test_Signup_UpgradesLegacyAccount(t *testing.T) {
	env := newTestEnv(t)

	// a pre-password record, e.g. created via a prior identity provider
	_ = env.Store.CreateUser(nil, &domain.User{Email: "old@e.com", Name: "Old Name", Provider: "google"})

	w := env.do("POST", "/api/auth/signup",
		`{"name":"New Name","email":"old@e.com","password":"FreshP@ss1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("legacy upgrade signup: %d %s", w.Code, w.Body.String())
	}

	u := env.Store.users["old@e.com"]
	if !u.HasPassword() || u.Provider != "local" || u.Name != "New Name" {
		t.Fatalf("legacy record not upgraded: %+v", u)
	}

	w = env.do("POST", "/api/auth/login",
		`{"email":"old@e.com","password":"FreshP@ss1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login after upgrade: %d %s", w.Code, w.Body.String())
	}
}

func Test_Login_LegacyAccount_GetsActionableError(t *testing.T) {
	env := newTestEnv(t)
	_ = env.Store.CreateUser(nil, &domain.User{Email: "legacy@e.com", Name: "L", Provider: "google"})

	w := env.do("POST", "/api/auth/login",
		`{"email":"legacy@e.com","password":"whatever"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
	}
	var resp authBody
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "Legacy account detected. Please use Signup to set a password." {
		t.Fatalf("expected the legacy-specific message, got %q", resp.Message)
	}
}

func Test_Login_WrongPassword_And_UnknownEmail_Indistinguishable(t *testing.T) {
	env := newTestEnv(t)
	_ = env.do("POST", "/api/auth/signup",
		`{"name":"B","email":"b@e.com","password":"RightP@ss1"}`, nil)

	wrong := env.do("POST", "/api/auth/login", `{"email":"b@e.com","password":"nope"}`, nil)
	unknown := env.do("POST", "/api/auth/login", `{"email":"ghost@e.com","password":"nope"}`, nil)

	if wrong.Code != http.StatusBadRequest || unknown.Code != http.StatusBadRequest {
		t.Fatalf("codes: wrong=%d unknown=%d", wrong.Code, unknown.Code)
	}
	var a, b authBody
	_ = json.Unmarshal(wrong.Body.Bytes(), &a)
	_ = json.Unmarshal(unknown.Body.Bytes(), &b)
	if a.Message != "Invalid credentials" || a.Message != b.Message {
		t.Fatalf("messages must match: %q vs %q", a.Message, b.Message)
	}
}

func Test_Search_SavedWithTokenEmail(t *testing.T) {
	env := newTestEnv(t)
	tok := signupAndToken(t, env, "s@e.com")

	w := env.do("POST", "/api/search",
		`{"userEmail":"spoofed@e.com","question":"best ramen in tokyo?"}`, bearer(tok))
	if w.Code != http.StatusCreated {
		t.Fatalf("search save: %d %s", w.Code, w.Body.String())
	}
	if len(env.Store.searches) != 1 {
		t.Fatalf("expected 1 search record, got %d", len(env.Store.searches))
	}
	// token identity wins over the body field
	if got := env.Store.searches[0].UserEmail; got != "s@e.com" {
		t.Fatalf("search owner = %q", got)
	}
}

func Test_Search_MissingQuestion(t *testing.T) {
	env := newTestEnv(t)
	tok := signupAndToken(t, env, "s2@e.com")

	w := env.do("POST", "/api/search", `{"userEmail":"s2@e.com"}`, bearer(tok))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
	}
}

func Test_Health(t *testing.T) {
	env := newTestEnv(t)
	w := env.do("GET", "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func signupAndToken(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	w := env.do("POST", "/api/auth/signup",
		`{"name":"T","email":"`+email+`","password":"StrongP@ss1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup for %s: %d %s", email, w.Code, w.Body.String())
	}
	var resp authBody
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("signup resp: %v %s", err, w.Body.String())
	}
	return resp.Token
}
