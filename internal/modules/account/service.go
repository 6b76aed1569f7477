// README: Account service: sign up, login, password reset and profile updates.
package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sirparcel/internal/infra"
)

var (
	ErrBadRequest         = errors.New("bad request")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("user not found")
)

// OwnerRenamer moves data keyed by username when an account is renamed.
type OwnerRenamer interface {
	RenameOwner(ctx context.Context, from, to string) error
}

type Service struct {
	docs     *infra.Documents
	renamer  OwnerRenamer
	log      *zap.Logger
	hashCost int
}

func NewService(docs *infra.Documents, renamer OwnerRenamer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{docs: docs, renamer: renamer, log: log, hashCost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Username string
	Password string
	FullName string
	Address  string
}

type UpdateInput struct {
	Username string
	// Password left empty keeps the current one.
	Password string
	FullName string
	Address  string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Profile, error) {
	if blank(in.Username, in.Password, in.FullName, in.Address) {
		return Profile{}, fmt.Errorf("%w: full name, address, username and password are required", ErrBadRequest)
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return Profile{}, err
	}
	u := User{Username: in.Username, Password: hash, FullName: in.FullName, Address: in.Address}
	err = s.update(ctx, func(d *Directory) error {
		if d.find(in.Username) >= 0 {
			return ErrDuplicateUsername
		}
		d.Users = append(d.Users, u)
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	s.log.Info("account created", zap.String("username", u.Username))
	return u.Profile(), nil
}

// Authenticate checks a username and password. A matching plaintext password
// from an older users.json is replaced with its hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Profile, error) {
	if username == "" || password == "" {
		return Profile{}, ErrInvalidCredentials
	}
	dir, err := s.load(ctx)
	if err != nil {
		return Profile{}, err
	}
	i := dir.find(username)
	if i < 0 {
		return Profile{}, ErrInvalidCredentials
	}
	u := dir.Users[i]
	if isHash(u.Password) {
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			return Profile{}, ErrInvalidCredentials
		}
		return u.Profile(), nil
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return Profile{}, ErrInvalidCredentials
	}
	if err := s.upgrade(ctx, username, password); err != nil {
		s.log.Warn("password hash upgrade failed", zap.String("username", username), zap.Error(err))
	}
	return u.Profile(), nil
}

func (s *Service) upgrade(ctx context.Context, username, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.update(ctx, func(d *Directory) error {
		i := d.find(username)
		if i < 0 || isHash(d.Users[i].Password) {
			return nil
		}
		d.Users[i].Password = hash
		return nil
	})
}

func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	if blank(username, newPassword) {
		return fmt.Errorf("%w: username and new password are required", ErrBadRequest)
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	return s.update(ctx, func(d *Directory) error {
		i := d.find(username)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, username)
		}
		d.Users[i].Password = hash
		return nil
	})
}

func (s *Service) Profile(ctx context.Context, username string) (Profile, error) {
	dir, err := s.load(ctx)
	if err != nil {
		return Profile{}, err
	}
	i := dir.find(username)
	if i < 0 {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	return dir.Users[i].Profile(), nil
}

// Update replaces the account's details. Renaming onto another existing
// username fails with ErrDuplicateUsername.
func (s *Service) Update(ctx context.Context, oldUsername string, in UpdateInput) (Profile, error) {
	if blank(in.Username, in.FullName, in.Address) {
		return Profile{}, fmt.Errorf("%w: full name, address and username cannot be empty", ErrBadRequest)
	}
	var hash string
	if in.Password != "" {
		h, err := s.hash(in.Password)
		if err != nil {
			return Profile{}, err
		}
		hash = h
	}

	var updated User
	err := s.update(ctx, func(d *Directory) error {
		if in.Username != oldUsername && d.find(in.Username) >= 0 {
			return ErrDuplicateUsername
		}
		i := d.find(oldUsername)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, oldUsername)
		}
		u := &d.Users[i]
		u.Username, u.FullName, u.Address = in.Username, in.FullName, in.Address
		if hash != "" {
			u.Password = hash
		}
		updated = *u
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	if oldUsername != in.Username && s.renamer != nil {
		if err := s.renamer.RenameOwner(ctx, oldUsername, in.Username); err != nil {
			return Profile{}, fmt.Errorf("move orders to %s: %w", in.Username, err)
		}
	}
	s.log.Info("account updated", zap.String("username", updated.Username))
	return updated.Profile(), nil
}

func (s *Service) load(ctx context.Context) (Directory, error) {
	return infra.Load(ctx, s.docs, DocumentName, NewDirectory())
}

func (s *Service) update(ctx context.Context, fn func(*Directory) error) error {
	return infra.Update(ctx, s.docs, DocumentName, NewDirectory(), fn)
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is too long", ErrBadRequest)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func isHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

func blank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}
