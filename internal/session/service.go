// Package session persiste o estado de sessão que sobrevive a recargas do
// painel: registro do usuário autenticado, preferência de tema e a marca
// de onboarding concluído, sob chaves conhecidas no redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gestaozabele/gabinete/internal/auth"
	"github.com/gestaozabele/gabinete/internal/dados"
	"github.com/gestaozabele/gabinete/internal/perfil"
)

const (
	// Audiencia dos tokens emitidos para o painel.
	Audiencia = "painel"

	chaveTema       = "sessao:tema"
	prefixoUsuario  = "sessao:usuario:"
	prefixoPrimeiro = "sessao:onboarding:"
)

var (
	// ErrCredenciaisInvalidas indica falha na autenticação.
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
	// ErrContaDesativada indica conta desativada.
	ErrContaDesativada = errors.New("conta desativada")
	// ErrRefreshInvalido indica refresh token inválido ou expirado.
	ErrRefreshInvalido = errors.New("refresh token inválido")
)

type diretorio interface {
	UsuarioPorEmail(email string) (dados.Usuario, bool)
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Service concentra autenticação e persistência de sessão do painel.
type Service struct {
	usuarios   diretorio
	redis      redisCommander
	jwt        *auth.JWTManager
	tabela     perfil.Tabela
	refreshTTL time.Duration
	sessionTTL time.Duration
}

// NewService cria novo serviço de sessão.
func NewService(usuarios diretorio, redisClient redisCommander, jwtMgr *auth.JWTManager, tabela perfil.Tabela, refreshTTL, sessionTTL time.Duration) *Service {
	return &Service{
		usuarios:   usuarios,
		redis:      redisClient,
		jwt:        jwtMgr,
		tabela:     tabela,
		refreshTTL: refreshTTL,
		sessionTTL: sessionTTL,
	}
}

// Resultado representa retorno padrão de autenticações.
type Resultado struct {
	AccessToken    string        `json:"access_token"`
	RefreshToken   string        `json:"refresh_token"`
	Usuario        dados.Usuario `json:"usuario"`
	Perfil         perfil.Perfil `json:"perfil"`
	PrimeiroAcesso bool          `json:"primeiro_acesso"`
}

// Login autentica por email e senha, emite tokens e grava o registro do
// usuário autenticado na sessão. A marca de onboarding é consultada apenas
// aqui, no primeiro login de uma sessão recém-autenticada.
func (s *Service) Login(ctx context.Context, email, senha string) (*Resultado, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	usuario, ok := s.usuarios.UsuarioPorEmail(email)
	if !ok {
		return nil, ErrCredenciaisInvalidas
	}
	if !usuario.Ativo {
		return nil, ErrContaDesativada
	}

	confere, err := auth.Verify(senha, usuario.SenhaHash)
	if err != nil || !confere {
		return nil, ErrCredenciaisInvalidas
	}

	resultado, err := s.emitir(ctx, usuario)
	if err != nil {
		return nil, err
	}

	primeiro, err := s.marcarOnboarding(ctx, usuario.ID)
	if err != nil {
		return nil, err
	}
	resultado.PrimeiroAcesso = primeiro

	return resultado, nil
}

// Refresh troca um refresh token válido por um novo par de tokens.
func (s *Service) Refresh(ctx context.Context, raw string) (*Resultado, error) {
	hash := auth.HashRefreshToken(raw)
	chave := auth.RefreshRedisKey(Audiencia, hash)

	id, err := s.redis.Get(ctx, chave).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRefreshInvalido
		}
		return nil, err
	}

	usuario, err := s.UsuarioDaSessao(ctx, id)
	if err != nil {
		return nil, ErrRefreshInvalido
	}

	// Rotação: o token usado deixa de valer.
	if err := s.redis.Del(ctx, chave).Err(); err != nil {
		return nil, err
	}

	return s.emitir(ctx, usuario)
}

// Logout revoga o refresh token e descarta o registro de sessão. A
// preferência de tema e a marca de onboarding sobrevivem ao logout.
func (s *Service) Logout(ctx context.Context, usuarioID, rawRefresh string) error {
	chaves := []string{prefixoUsuario + usuarioID}
	if rawRefresh != "" {
		chaves = append(chaves, auth.RefreshRedisKey(Audiencia, auth.HashRefreshToken(rawRefresh)))
	}
	return s.redis.Del(ctx, chaves...).Err()
}

// UsuarioDaSessao recupera o registro persistido do usuário autenticado.
func (s *Service) UsuarioDaSessao(ctx context.Context, id string) (dados.Usuario, error) {
	payload, err := s.redis.Get(ctx, prefixoUsuario+id).Result()
	if err != nil {
		return dados.Usuario{}, err
	}
	var usuario dados.Usuario
	if err := json.Unmarshal([]byte(payload), &usuario); err != nil {
		return dados.Usuario{}, err
	}
	return usuario, nil
}

// SalvarTema persiste a preferência explícita de tema.
func (s *Service) SalvarTema(ctx context.Context, modo string) error {
	return s.redis.Set(ctx, chaveTema, modo, 0).Err()
}

// CarregarTema lê a preferência de tema guardada; vazio quando ausente.
func (s *Service) CarregarTema(ctx context.Context) (string, error) {
	modo, err := s.redis.Get(ctx, chaveTema).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return modo, nil
}

// Perfil resolve o perfil de permissões do usuário.
func (s *Service) Perfil(usuario dados.Usuario) perfil.Perfil {
	return perfil.Resolver(usuario.Papel, s.tabela)
}

func (s *Service) emitir(ctx context.Context, usuario dados.Usuario) (*Resultado, error) {
	access, _, err := s.jwt.GenerateAccessToken(usuario.ID, Audiencia, []string{usuario.Papel})
	if err != nil {
		return nil, err
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, auth.RefreshRedisKey(Audiencia, hash), usuario.ID, s.refreshTTL).Err(); err != nil {
		return nil, err
	}

	registro, err := json.Marshal(usuario)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, prefixoUsuario+usuario.ID, registro, s.sessionTTL).Err(); err != nil {
		return nil, err
	}

	return &Resultado{
		AccessToken:  access,
		RefreshToken: raw,
		Usuario:      usuario,
		Perfil:       s.Perfil(usuario),
	}, nil
}

// marcarOnboarding devolve true apenas na primeira autenticação do usuário,
// gravando a marca definitiva em seguida.
func (s *Service) marcarOnboarding(ctx context.Context, usuarioID string) (bool, error) {
	chave := prefixoPrimeiro + usuarioID
	_, err := s.redis.Get(ctx, chave).Result()
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, redis.Nil) {
		return false, err
	}
	if err := s.redis.Set(ctx, chave, "1", 0).Err(); err != nil {
		return false, err
	}
	return true, nil
}
