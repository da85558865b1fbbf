package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/authz"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()

	if !ok || acc.password != req.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Identifiants invalides."})
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{Token: acc.token, User: acc.user})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	docs := make([]api.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if !d.pending {
			docs = append(docs, d.Document)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleListPending(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	docs := make([]api.Document, 0)
	for _, d := range s.documents {
		if d.pending {
			docs = append(docs, d.Document)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request, caller *account) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"detail": err.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"file": {"Aucun fichier n'a été soumis."}})
		return
	}
	defer file.Close()

	source := r.FormValue("source")
	if source == "" {
		source = api.SourcePersonal
	}

	doc := api.Document{
		Title:    r.FormValue("title"),
		Filename: header.Filename,
		File:     "/media/documents/" + header.Filename,
		Tag:      atoiPtr(r.FormValue("tag")),
		Owner:    caller.user.ID,
		Source:   source,
		Language: r.FormValue("language"),
	}
	writeJSON(w, http.StatusCreated, s.AddDocument(doc))
}

func (s *Server) findDocument(id string) (*document, int) {
	for i, d := range s.documents {
		if d.ID == id {
			return d, i
		}
	}
	return nil, -1
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request, _ *account) {
	var patch map[string]json.RawMessage
	if !decode(w, r, &patch) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _ := s.findDocument(mux.Vars(r)["id"])
	if doc == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Pas trouvé."})
		return
	}
	if raw, ok := patch["title"]; ok {
		_ = json.Unmarshal(raw, &doc.Title)
	}
	if raw, ok := patch["language"]; ok {
		_ = json.Unmarshal(raw, &doc.Language)
	}
	if raw, ok := patch["source"]; ok {
		_ = json.Unmarshal(raw, &doc.Source)
	}
	if raw, ok := patch["tag"]; ok {
		var tag *int
		_ = json.Unmarshal(raw, &tag)
		doc.Tag = tag
	}
	writeJSON(w, http.StatusOK, doc.Document)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i := s.findDocument(mux.Vars(r)["id"])
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Pas trouvé."})
		return
	}
	s.documents = append(s.documents[:i], s.documents[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request, caller *account) {
	if !isSuperAdmin(caller) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Vous n'avez pas la permission d'effectuer cette action."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _ := s.findDocument(mux.Vars(r)["id"])
	if doc == nil || !doc.pending {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Pas trouvé."})
		return
	}
	doc.pending = false
	doc.Status = api.StatusUploaded
	writeJSON(w, http.StatusOK, doc.Document)
}

func (s *Server) handleListTags(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	tags := append([]api.Tag{}, s.tags...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleListConversations(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	convs := append([]api.Conversation{}, s.conversations...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, convs)
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request, _ *account) {
	var req api.CreateConversationRequest
	if !decode(w, r, &req) {
		return
	}
	conv := api.Conversation{Title: req.Title, Mode: req.Mode, IsActive: req.IsActive == nil || *req.IsActive}
	writeJSON(w, http.StatusCreated, s.AddConversation(conv))
}

func (s *Server) handleListMessages(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	msgs := append([]api.Message{}, s.messages...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, _ *account) {
	var req api.SendMessageRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"content": {"Ce champ ne peut être vide."}})
		return
	}
	msg := s.AddMessage(api.Message{Conversation: req.Conversation, Sender: req.Sender, Content: req.Content})

	s.mu.Lock()
	for i := range s.conversations {
		if s.conversations[i].ID == req.Conversation {
			at := msg.CreatedAt
			s.conversations[i].LastActivity = &at
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request, _ *account) {
	writeJSON(w, http.StatusOK, s.Users())
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request, _ *account) {
	var req api.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	_, exists := s.accounts[req.Email]
	s.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"Un objet user avec ce champ email existe déjà."}})
		return
	}

	user, _ := s.AddUser(req.Email, req.Password, req.Name, req.Role)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) accountByID(id string) *account {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, _ *account) {
	var req api.UpdateUserRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accountByID(mux.Vars(r)["id"])
	if acc == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Pas trouvé."})
		return
	}
	if req.Name != "" {
		acc.user.Name = req.Name
	}
	if req.Role != "" {
		acc.user.Role = req.Role
	}
	if req.Password != "" {
		acc.password = req.Password
	}
	if req.Email != "" && req.Email != acc.user.Email {
		delete(s.accounts, acc.user.Email)
		acc.user.Email = req.Email
		s.accounts[req.Email] = acc
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accountByID(mux.Vars(r)["id"])
	if acc == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Pas trouvé."})
		return
	}
	delete(s.accounts, acc.user.Email)
	w.WriteHeader(http.StatusNoContent)
}

func isSuperAdmin(acc *account) bool {
	return authz.Normalize(acc.user.Role) == authz.RoleSuperAdmin
}
