// Package apitest runs an in-memory fake of the library REST API for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/biblio/internal/api"
)

// Request is a request the fake received
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	RequestID     string
	Body          []byte
}

type account struct {
	user     api.User
	password string
	token    string
}

type document struct {
	api.Document
	pending bool
}

type failure struct {
	status int
	body   string
}

// Server is a fake backend. All state is exported through accessors and guarded by mu.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	accounts      map[string]*account // by email
	documents     []*document
	tags          []api.Tag
	conversations []api.Conversation
	messages      []api.Message
	requests      []Request
	failures      map[string]failure // "METHOD /path/"
	now           time.Time
}

// New starts a fake backend that is closed when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		accounts: make(map[string]*account),
		failures: make(map[string]failure),
		now:      time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the API root to hand to api.NewClient
func (s *Server) APIURL() string {
	return s.Server.URL + "/api"
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/auth/login/", s.handleLogin).Methods(http.MethodPost)

	a.HandleFunc("/documents/", s.authed(s.handleListDocuments)).Methods(http.MethodGet)
	a.HandleFunc("/documents/", s.authed(s.handleUploadDocument)).Methods(http.MethodPost)
	a.HandleFunc("/documents/awaiting-approval/", s.authed(s.handleListPending)).Methods(http.MethodGet)
	a.HandleFunc("/documents/{id}/", s.authed(s.handleUpdateDocument)).Methods(http.MethodPatch)
	a.HandleFunc("/documents/{id}/", s.authed(s.handleDeleteDocument)).Methods(http.MethodDelete)
	a.HandleFunc("/documents/{id}/approve/", s.authed(s.handleApprove)).Methods(http.MethodPost)

	a.HandleFunc("/tags/", s.authed(s.handleListTags)).Methods(http.MethodGet)

	a.HandleFunc("/conversations/", s.authed(s.handleListConversations)).Methods(http.MethodGet)
	a.HandleFunc("/conversations/", s.authed(s.handleCreateConversation)).Methods(http.MethodPost)
	a.HandleFunc("/messages/", s.authed(s.handleListMessages)).Methods(http.MethodGet)
	a.HandleFunc("/messages/", s.authed(s.handleSendMessage)).Methods(http.MethodPost)

	a.HandleFunc("/users/", s.authed(s.handleListUsers)).Methods(http.MethodGet)
	a.HandleFunc("/users/", s.authed(s.handleCreateUser)).Methods(http.MethodPost)
	a.HandleFunc("/users/{id}/", s.authed(s.handleUpdateUser)).Methods(http.MethodPatch)
	a.HandleFunc("/users/{id}/", s.authed(s.handleDeleteUser)).Methods(http.MethodDelete)

	return r
}

// record stores each request and serves injected failures
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			RequestID:     r.Header.Get(api.RequestIDHeader),
			Body:          body,
		})
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		f, failing := s.failures[key]
		if failing {
			delete(s.failures, key)
		}
		s.mu.Unlock()

		if failing {
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, caller *account)

// authed resolves "Authorization: <scheme> <token>" to an account or answers 401
func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		_, token, _ := strings.Cut(header, " ")

		s.mu.Lock()
		var caller *account
		for _, acc := range s.accounts {
			if token != "" && acc.token == token {
				caller = acc
				break
			}
		}
		s.mu.Unlock()

		if caller == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Informations d'authentification non fournies.",
			})
			return
		}
		h(w, r, caller)
	}
}

// FailNext makes the next request to method+path (relative to the API root,
// e.g. "/documents/") answer status with body.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Requests returns a copy of the received requests
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or the zero Request
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// AddUser registers an account and returns it with its token
func (s *Server) AddUser(email, password, name, role string) (api.User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := &account{
		user:     api.User{ID: uuid.NewString(), Email: email, Name: name, Role: role},
		password: password,
		token:    strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
	s.accounts[email] = acc
	return acc.user, acc.token
}

// AddTag registers a tag and returns its id
func (s *Server) AddTag(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := len(s.tags) + 1
	s.tags = append(s.tags, api.Tag{ID: id, Name: name})
	return id
}

// AddDocument stores doc, filling id and date when empty
func (s *Server) AddDocument(doc api.Document) api.Document {
	return s.addDocument(doc, false)
}

// AddPendingDocument stores doc as awaiting approval
func (s *Server) AddPendingDocument(doc api.Document) api.Document {
	if doc.Status == "" {
		doc.Status = api.StatusPendingMeta
	}
	return s.addDocument(doc, true)
}

func (s *Server) addDocument(doc api.Document, pending bool) api.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.DateAdded.IsZero() {
		doc.DateAdded = s.tick()
	}
	if doc.Status == "" {
		doc.Status = api.StatusUploaded
	}
	s.documents = append(s.documents, &document{Document: doc, pending: pending})
	return doc
}

// AddConversation stores a conversation, filling id and start time when empty
func (s *Server) AddConversation(conv api.Conversation) api.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.StartedAt.IsZero() {
		conv.StartedAt = s.tick()
	}
	s.conversations = append(s.conversations, conv)
	return conv
}

// AddMessage stores a message
func (s *Server) AddMessage(msg api.Message) api.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.tick()
	}
	s.messages = append(s.messages, msg)
	return msg
}

// Documents returns the stored documents, pending ones included
func (s *Server) Documents() []api.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Document, 0, len(s.documents))
	for _, d := range s.documents {
		out = append(out, d.Document)
	}
	return out
}

// Users returns the stored accounts ordered by email
func (s *Server) Users() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedUsers()
}

// Password returns the password stored for email
func (s *Server) Password(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[email]; ok {
		return acc.password
	}
	return ""
}

// tick advances the fake clock by one minute. Callers hold mu.
func (s *Server) tick() time.Time {
	s.now = s.now.Add(time.Minute)
	return s.now
}

func (s *Server) sortedUsers() []api.User {
	users := make([]api.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error - " + err.Error()})
		return false
	}
	return true
}

func atoiPtr(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
