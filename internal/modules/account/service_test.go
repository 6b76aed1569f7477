package account

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sirparcel/internal/infra"
)

type renameRecorder struct {
	calls [][2]string
}

func (r *renameRecorder) RenameOwner(_ context.Context, from, to string) error {
	r.calls = append(r.calls, [2]string{from, to})
	return nil
}

func newTestService(t *testing.T, users string) (*Service, *renameRecorder, string) {
	t.Helper()
	dir := t.TempDir()
	if users != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, DocumentName), []byte(users), 0o644))
	}
	rec := &renameRecorder{}
	svc := NewService(infra.NewDocuments(infra.NewFileBackend(dir), nil), rec, nil)
	svc.hashCost = bcrypt.MinCost
	return svc, rec, dir
}

func readDirectory(t *testing.T, dir string) Directory {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, DocumentName))
	require.NoError(t, err)
	var d Directory
	require.NoError(t, json.Unmarshal(raw, &d))
	return d
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, dir := newTestService(t, "")
	ctx := context.Background()

	p, err := svc.Register(ctx, RegisterInput{Username: "asha", Password: "s3cret", FullName: "Asha Rao", Address: "4 Lake View"})
	require.NoError(t, err)
	assert.Equal(t, Profile{Username: "asha", FullName: "Asha Rao", Address: "4 Lake View"}, p)

	stored := readDirectory(t, dir)
	require.Len(t, stored.Users, 1)
	assert.NotEqual(t, "s3cret", stored.Users[0].Password)
	assert.True(t, isHash(stored.Users[0].Password))

	_, err = svc.Register(ctx, RegisterInput{Username: "asha", Password: "x", FullName: "Other", Address: "Elsewhere"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = svc.Register(ctx, RegisterInput{Username: "ravi", Password: "x"})
	assert.ErrorIs(t, err, ErrBadRequest)

	got, err := svc.Authenticate(ctx, "asha", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.FullName)

	_, err = svc.Authenticate(ctx, "asha", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUpgradesPlaintext(t *testing.T) {
	svc, _, dir := newTestService(t, `{"users": [{"username": "old", "password": "plain", "full_name": "Old Timer", "address": "Mysuru"}]}`)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "old", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "plain", readDirectory(t, dir).Users[0].Password)

	_, err = svc.Authenticate(ctx, "old", "plain")
	require.NoError(t, err)
	hash := readDirectory(t, dir).Users[0].Password
	require.True(t, isHash(hash))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("plain")))

	_, err = svc.Authenticate(ctx, "old", "plain")
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, _, _ := newTestService(t, "")
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "asha", Password: "one", FullName: "Asha", Address: "Here"})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "asha", "two"))
	_, err = svc.Authenticate(ctx, "asha", "one")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "asha", "two")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "ghost", "two"), ErrNotFound)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "asha", ""), ErrBadRequest)
}

func TestUpdate(t *testing.T) {
	svc, rec, _ := newTestService(t, "")
	ctx := context.Background()
	for _, name := range []string{"asha", "ravi"} {
		_, err := svc.Register(ctx, RegisterInput{Username: name, Password: "pw-" + name, FullName: name, Address: "Addr"})
		require.NoError(t, err)
	}

	_, err := svc.Update(ctx, "asha", UpdateInput{Username: "ravi", FullName: "Asha", Address: "Addr"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = svc.Update(ctx, "asha", UpdateInput{Username: "asha", FullName: "", Address: "Addr"})
	assert.ErrorIs(t, err, ErrBadRequest)

	// Empty password keeps the current one.
	p, err := svc.Update(ctx, "asha", UpdateInput{Username: "asha.r", FullName: "Asha Rao", Address: "New Addr"})
	require.NoError(t, err)
	assert.Equal(t, "asha.r", p.Username)
	_, err = svc.Authenticate(ctx, "asha.r", "pw-asha")
	assert.NoError(t, err)
	assert.Equal(t, [][2]string{{"asha", "asha.r"}}, rec.calls)

	_, err = svc.Update(ctx, "asha.r", UpdateInput{Username: "asha.r", Password: "fresh", FullName: "Asha Rao", Address: "New Addr"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "asha.r", "fresh")
	assert.NoError(t, err)
	assert.Len(t, rec.calls, 1)

	_, err = svc.Update(ctx, "ghost", UpdateInput{Username: "ghost", FullName: "G", Address: "A"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirectoryValidate(t *testing.T) {
	d := Directory{Users: []User{{Username: "a"}, {Username: "a"}}}
	assert.Error(t, d.Validate())
	d = Directory{Users: []User{{Username: " "}}}
	assert.Error(t, d.Validate())
}
