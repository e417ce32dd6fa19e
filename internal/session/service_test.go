package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gestaozabele/gabinete/internal/auth"
	"github.com/gestaozabele/gabinete/internal/dados"
	"github.com/gestaozabele/gabinete/internal/perfil"
)

type fakeRedis struct {
	valores map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{valores: map[string]string{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case string:
		f.valores[key] = v
	case []byte:
		f.valores[key] = string(v)
	default:
		f.valores[key] = fmt.Sprint(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.valores[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.valores[k]; ok {
			delete(f.valores, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type fakeDiretorio struct {
	usuarios map[string]dados.Usuario
}

func (f *fakeDiretorio) UsuarioPorEmail(email string) (dados.Usuario, bool) {
	u, ok := f.usuarios[email]
	return u, ok
}

func novoServico(t *testing.T) (*Service, *fakeRedis) {
	t.Helper()

	hash, err := auth.Hash("segredo123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	diretorio := &fakeDiretorio{usuarios: map[string]dados.Usuario{
		"ana@gabinete.gov.br": {
			ID:        "U1",
			Nome:      "Ana Lima",
			Email:     "ana@gabinete.gov.br",
			SenhaHash: hash,
			Papel:     perfil.PapelAdministrador,
			Ativo:     true,
		},
		"inativo@gabinete.gov.br": {
			ID:        "U2",
			Email:     "inativo@gabinete.gov.br",
			SenhaHash: hash,
			Ativo:     false,
		},
	}}

	r := newFakeRedis()
	jwtMgr := auth.NewJWTManager("segredo-de-teste", 15*time.Minute)
	return NewService(diretorio, r, jwtMgr, perfil.TabelaPadrao(), time.Hour, time.Hour), r
}

func TestLoginComSucesso(t *testing.T) {
	svc, _ := novoServico(t)

	res, err := svc.Login(context.Background(), "  ANA@gabinete.gov.br ", "segredo123")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("tokens deveriam ser emitidos")
	}
	if res.Usuario.ID != "U1" {
		t.Fatalf("usuário errado: %s", res.Usuario.ID)
	}
	if res.Perfil.Papel != perfil.PapelAdministrador {
		t.Fatalf("perfil errado: %s", res.Perfil.Papel)
	}
	if !res.PrimeiroAcesso {
		t.Fatal("primeiro login deveria marcar onboarding")
	}

	segundo, err := svc.Login(context.Background(), "ana@gabinete.gov.br", "segredo123")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if segundo.PrimeiroAcesso {
		t.Fatal("segundo login não é primeiro acesso")
	}
}

func TestLoginCredenciaisInvalidas(t *testing.T) {
	svc, _ := novoServico(t)

	if _, err := svc.Login(context.Background(), "ana@gabinete.gov.br", "errada"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatalf("expected ErrCredenciaisInvalidas got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ninguem@gabinete.gov.br", "segredo123"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatalf("expected ErrCredenciaisInvalidas got %v", err)
	}
}

func TestLoginContaDesativada(t *testing.T) {
	svc, _ := novoServico(t)
	if _, err := svc.Login(context.Background(), "inativo@gabinete.gov.br", "segredo123"); !errors.Is(err, ErrContaDesativada) {
		t.Fatalf("expected ErrContaDesativada got %v", err)
	}
}

func TestRefreshRotacionaToken(t *testing.T) {
	svc, _ := novoServico(t)

	login, err := svc.Login(context.Background(), "ana@gabinete.gov.br", "segredo123")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if renovado.RefreshToken == login.RefreshToken {
		t.Fatal("refresh deveria emitir token novo")
	}

	// O token usado foi revogado na rotação.
	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrRefreshInvalido) {
		t.Fatalf("expected ErrRefreshInvalido got %v", err)
	}
}

func TestRefreshDesconhecido(t *testing.T) {
	svc, _ := novoServico(t)
	if _, err := svc.Refresh(context.Background(), "token-inventado"); !errors.Is(err, ErrRefreshInvalido) {
		t.Fatalf("expected ErrRefreshInvalido got %v", err)
	}
}

func TestLogoutPreservaTemaEOnboarding(t *testing.T) {
	svc, r := novoServico(t)

	login, err := svc.Login(context.Background(), "ana@gabinete.gov.br", "segredo123")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if err := svc.SalvarTema(context.Background(), "escuro"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if err := svc.Logout(context.Background(), "U1", login.RefreshToken); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if _, err := svc.UsuarioDaSessao(context.Background(), "U1"); err == nil {
		t.Fatal("registro de sessão deveria ter sido descartado")
	}
	if _, ok := r.valores[prefixoPrimeiro+"U1"]; !ok {
		t.Fatal("marca de onboarding deveria sobreviver ao logout")
	}

	modo, err := svc.CarregarTema(context.Background())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if modo != "escuro" {
		t.Fatalf("tema deveria sobreviver ao logout: %q", modo)
	}
}

func TestCarregarTemaAusente(t *testing.T) {
	svc, _ := novoServico(t)
	modo, err := svc.CarregarTema(context.Background())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if modo != "" {
		t.Fatalf("esperava vazio, obtive %q", modo)
	}
}

func TestUsuarioDaSessao(t *testing.T) {
	svc, _ := novoServico(t)

	if _, err := svc.Login(context.Background(), "ana@gabinete.gov.br", "segredo123"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	usuario, err := svc.UsuarioDaSessao(context.Background(), "U1")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if usuario.Nome != "Ana Lima" {
		t.Fatalf("expected Ana Lima got %s", usuario.Nome)
	}
	// O hash nunca entra no registro serializado.
	if usuario.SenhaHash != "" {
		t.Fatal("hash de senha não deveria ser persistido na sessão")
	}
}
