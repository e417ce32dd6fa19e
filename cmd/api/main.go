package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/gabinete/internal/auth"
	"github.com/gestaozabele/gabinete/internal/config"
	"github.com/gestaozabele/gabinete/internal/dados"
	"github.com/gestaozabele/gabinete/internal/dashboard"
	"github.com/gestaozabele/gabinete/internal/db"
	"github.com/gestaozabele/gabinete/internal/demanda"
	internalhttp "github.com/gestaozabele/gabinete/internal/http"
	"github.com/gestaozabele/gabinete/internal/nav"
	"github.com/gestaozabele/gabinete/internal/notify"
	"github.com/gestaozabele/gabinete/internal/perfil"
	"github.com/gestaozabele/gabinete/internal/session"
	"github.com/gestaozabele/gabinete/internal/tema"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	store := dados.NewStore()
	fonte := dados.NewRepository(pool)

	if err := dados.Atualizar(ctx, store, fonte); err != nil {
		log.Warn().Err(err).Msg("carga inicial falhou; seguindo desconectado")
	}

	memo := &dashboard.Memo{}
	avisos := notify.NewService(cfg.NotificacaoTTL)
	navegacao := nav.NewMachine()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	sessao := session.NewService(store, redisClient, jwtManager, perfil.TabelaPadrao(), cfg.JWTRefreshTTL, cfg.SessionTTL)

	modoTema, err := sessao.CarregarTema(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("preferência de tema indisponível; usando auto")
	}
	agendadorTema := tema.NewScheduler(modoTema, cfg.TemaIntervalo, sessao, log.Logger)
	agendadorTema.Start(ctx)
	defer agendadorTema.Stop()

	refrescar := func(ctx context.Context) error {
		if err := dados.Atualizar(ctx, store, fonte); err != nil {
			return err
		}
		memo.Invalidar()
		return nil
	}
	demandas := demanda.NewService(store, fonte, avisos, refrescar)

	handler := internalhttp.NewRouter(internalhttp.Deps{
		Config:    cfg,
		Store:     store,
		Fonte:     fonte,
		Demandas:  demandas,
		Sessao:    sessao,
		Memo:      memo,
		Navegacao: navegacao,
		Tema:      agendadorTema,
		Avisos:    avisos,
		JWT:       jwtManager,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
