package views

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/authz"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// Account is a user row with its role normalized
type Account struct {
	ID    string
	Name  string
	Email string
	Role  authz.Role
}

// Users is the account management view
type Users struct {
	backend UserBackend
	notify  Notifier

	accounts []Account
}

// NewUsers creates the account management view
func NewUsers(backend UserBackend, n Notifier) *Users {
	return &Users{backend: backend, notify: orDiscard(n)}
}

// Load fetches every account
func (u *Users) Load(ctx context.Context) error {
	users, err := u.backend.ListUsers(ctx)
	if err != nil {
		return failure(u.notify, "Chargement impossible", err)
	}

	accounts := make([]Account, 0, len(users))
	for _, usr := range users {
		accounts = append(accounts, Account{
			ID:    usr.ID,
			Name:  usr.Name,
			Email: usr.Email,
			Role:  authz.Normalize(usr.Role),
		})
	}
	u.accounts = accounts
	return nil
}

// Accounts returns the loaded accounts
func (u *Users) Accounts() []Account {
	return u.accounts
}

// CreateInput describes a new account
type CreateInput struct {
	Name     string
	Email    string
	Role     authz.Role
	Password string // generated when empty
}

// Created is a new account and, when none was given, the generated password
type Created struct {
	Account           Account
	GeneratedPassword string
}

// GeneratePassword returns a random temporary password
func GeneratePassword() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "Tmp-" + raw[:16]
}

// Create adds an account and reloads
func (u *Users) Create(ctx context.Context, in CreateInput) (*Created, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return nil, failure(u.notify, "Création impossible", berrors.NewInputRequiredError("name"))
	}
	if err := ValidateEmail(email); err != nil {
		return nil, failure(u.notify, "Création impossible", err)
	}

	role := in.Role
	if !role.Valid() {
		role = authz.RoleUser
	}

	password := in.Password
	generated := ""
	if strings.TrimSpace(password) == "" {
		password = GeneratePassword()
		generated = password
	}

	created, err := u.backend.CreateUser(ctx, api.CreateUserRequest{
		Name:     name,
		Email:    email,
		Role:     role.APIValue(),
		Password: password,
	})
	if err != nil {
		return nil, failure(u.notify, "Création impossible", err)
	}

	success(u.notify, "Utilisateur créé", email)
	_ = u.Load(ctx)
	return &Created{
		Account: Account{
			ID:    created.ID,
			Name:  created.Name,
			Email: created.Email,
			Role:  authz.Normalize(created.Role),
		},
		GeneratedPassword: generated,
	}, nil
}

// UpdateInput changes an account. Empty fields and a nil Role are left as they are.
type UpdateInput struct {
	Name     string
	Email    string
	Role     *authz.Role
	Password string
}

// Update patches an account and reloads
func (u *Users) Update(ctx context.Context, id string, in UpdateInput) error {
	req := api.UpdateUserRequest{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
	if req.Email != "" {
		if err := ValidateEmail(req.Email); err != nil {
			return failure(u.notify, "Mise à jour impossible", err)
		}
	}
	if in.Role != nil {
		req.Role = in.Role.APIValue()
	}
	if req == (api.UpdateUserRequest{}) {
		return failure(u.notify, "Mise à jour impossible",
			berrors.New(berrors.ErrCodeInputRequired, "nothing to update").
				WithSuggestion("Pass at least one of --name, --email, --role, --password"))
	}

	if _, err := u.backend.UpdateUser(ctx, id, req); err != nil {
		return failure(u.notify, "Mise à jour impossible", err)
	}
	success(u.notify, "Utilisateur mis à jour", id)
	_ = u.Load(ctx)
	return nil
}

// Delete removes an account and reloads
func (u *Users) Delete(ctx context.Context, id string) error {
	if err := u.backend.DeleteUser(ctx, id); err != nil {
		return failure(u.notify, "Suppression impossible", err)
	}
	success(u.notify, "Utilisateur supprimé", id)
	_ = u.Load(ctx)
	return nil
}

// ValidateEmail rejects empty and malformed addresses
func ValidateEmail(email string) error {
	if email == "" {
		return berrors.NewInputRequiredError("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return berrors.Wrap(berrors.ErrCodeInputInvalid, "invalid email address "+email, err)
	}
	return nil
}
