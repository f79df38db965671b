package http_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshlagwal/Wanderlust-backend/internal/domain"
	api "github.com/harshlagwal/Wanderlust-backend/internal/http"
	"github.com/harshlagwal/Wanderlust-backend/internal/log"
	"github.com/harshlagwal/Wanderlust-backend/internal/queue"
	"github.com/harshlagwal/Wanderlust-backend/internal/repo"
)

const testSecret = "test_secret"

// fakeStore is an in-memory stand-in for *repo.Store with the same
// contracts: nil-nil miss on lookup, ErrDuplicate on a taken email,
// ValidationError on schema violations.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	trips    []domain.Itinerary
	searches []domain.SearchRecord

	// dataCalls counts operations that reached the store, so tests can
	// assert the auth gate rejected a request before any handler logic ran.
	dataCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*domain.User{}}
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) CreateUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	if _, ok := f.users[u.Email]; ok {
		return repo.ErrDuplicate
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	f.users[u.Email] = &cp
	return nil
}

func (f *fakeStore) UpgradeLegacyUser(_ context.Context, id primitive.ObjectID, name, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	for _, u := range f.users {
		if u.ID == id && u.PasswordHash == "" {
			u.PasswordHash = passwordHash
			if name != "" {
				u.Name = name
			}
			u.Provider = "local"
		}
	}
	return nil
}

func (f *fakeStore) SaveItinerary(_ context.Context, it *domain.Itinerary) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	if missing := it.Validate(); len(missing) > 0 {
		return primitive.NilObjectID, &repo.ValidationError{Fields: missing}
	}
	it.ID = primitive.NewObjectID()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	f.trips = append(f.trips, *it)
	return it.ID, nil
}

func (f *fakeStore) ListItineraries(_ context.Context, email string) ([]domain.Itinerary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	var out []domain.Itinerary
	for _, t := range f.trips {
		if t.UserEmail == email {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) SaveSearch(_ context.Context, rec *domain.SearchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	var missing []string
	if rec.UserEmail == "" {
		missing = append(missing, "userEmail is required")
	}
	if rec.Question == "" {
		missing = append(missing, "question is required")
	}
	if len(missing) > 0 {
		return &repo.ValidationError{Fields: missing}
	}
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now().UTC()
	f.searches = append(f.searches, *rec)
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dataCalls
}

type testEnv struct {
	T      *testing.T
	Store  *fakeStore
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	store := newFakeStore()
	h := api.NewHandler(store, testSecret, nil, 0, queue.NewNoop())

	gin.SetMode(gin.TestMode)
	r := api.NewRouter(h)

	return &testEnv{T: t, Store: store, Router: r}
}

func (e *testEnv) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}
