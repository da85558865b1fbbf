package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/apitest"
	"github.com/felixgeelhaar/biblio/internal/session"
)

func TestAPIChecker(t *testing.T) {
	srv := apitest.New(t)

	res := NewAPIChecker(api.NewClient(srv.APIURL())).Check(context.Background())
	if res.Status != StatusHealthy {
		t.Errorf("status = %v, want healthy (%s)", res.Status, res.Message)
	}
	if res.Details["url"] != srv.APIURL() {
		t.Errorf("Details[url] = %v, want %q", res.Details["url"], srv.APIURL())
	}

	res = NewAPIChecker(api.NewClient("http://127.0.0.1:1/api")).Check(context.Background())
	if res.Status != StatusUnhealthy {
		t.Errorf("unreachable status = %v, want unhealthy", res.Status)
	}
}

type brokenStorage struct{ session.Storage }

func (brokenStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func TestStorageChecker(t *testing.T) {
	ok := NewStorageChecker("memory", session.NewMemoryStorage()).Check(context.Background())
	if ok.Status != StatusHealthy {
		t.Errorf("status = %v, want healthy", ok.Status)
	}

	bad := NewStorageChecker("file", brokenStorage{}).Check(context.Background())
	if bad.Status != StatusUnhealthy {
		t.Errorf("status = %v, want unhealthy", bad.Status)
	}
	if bad.Details["error"] != "disk on fire" {
		t.Errorf("Details[error] = %v", bad.Details["error"])
	}
}

func TestSessionChecker(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("me@biblio.test", "secret", "Moi", "admin")

	var store *session.Store
	client := api.NewClient(srv.APIURL(), api.WithTokenFunc(func() string { return store.Token() }))
	store = session.NewStore(session.NewMemoryStorage(), client)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	probe := func(ctx context.Context) error {
		_, err := client.ListTags(ctx)
		return err
	}
	checker := NewSessionChecker(store, probe)

	if res := checker.Check(context.Background()); res.Status != StatusDegraded {
		t.Errorf("anonymous status = %v, want degraded", res.Status)
	}

	if _, err := store.Login(context.Background(), "me@biblio.test", "secret"); err != nil {
		t.Fatal(err)
	}
	res := checker.Check(context.Background())
	if res.Status != StatusHealthy {
		t.Errorf("logged in status = %v, want healthy (%s)", res.Status, res.Message)
	}
	if res.Details["role"] != "admin" {
		t.Errorf("Details[role] = %v, want admin", res.Details["role"])
	}

	srv.FailNext(http.MethodGet, "/tags/", http.StatusUnauthorized, `{"detail":"Jeton invalide."}`)
	if res := checker.Check(context.Background()); res.Status != StatusUnhealthy {
		t.Errorf("rejected token status = %v, want unhealthy", res.Status)
	}
}
