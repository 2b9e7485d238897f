package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/memory"
	"github.com/jhoicas/distribuidora-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

func newAuth() (*AuthUseCase, *memory.Store) {
	store := memory.NewStore()
	return NewAuthUseCase(store.Repos().Users, JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "distribuidora-api"}), store
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuth()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "  Ana@Distribuidora.PE ", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "ana@distribuidora.pe", u.Email)
	assert.Equal(t, entity.RoleVendedor, u.Role)
	assert.Equal(t, "ana@distribuidora.pe", u.Name)
	assert.Equal(t, "active", u.Status)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@distribuidora.pe", Password: "otraclave1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "corto@distribuidora.pe", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "rol@distribuidora.pe", Password: "12345678", Role: "bodeguero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuth()
	reg, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "luis@distribuidora.pe", Password: "clave-segura", Role: entity.RoleAlmacenero})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "LUIS@distribuidora.pe", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, out.User.ID)

	userID, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, entity.RoleAlmacenero, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "luis@distribuidora.pe", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@distribuidora.pe", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_InactiveUser(t *testing.T) {
	ctx := context.Background()
	uc, store := newAuth()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Repos().Users.Create(ctx, &entity.User{
		ID: "u-1", Email: "baja@distribuidora.pe", PasswordHash: string(hash),
		Role: entity.RoleContador, Status: "inactive", CreatedAt: time.Now(),
	}))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "baja@distribuidora.pe", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuth()
	reg, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "jefe@distribuidora.pe", Password: "12345678", Name: "Jefe", Role: entity.RoleGerente})
	require.NoError(t, err)

	me, err := uc.Me(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jefe", me.Name)

	_, err = uc.Me(ctx, "no-existe")
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, domain.EntityUser, nf.Entity)
}
