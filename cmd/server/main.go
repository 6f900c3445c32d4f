package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/chessvariants/internal/auth"
	"github.com/justinabrahms/chessvariants/internal/chess"
	"github.com/justinabrahms/chessvariants/internal/config"
	"github.com/justinabrahms/chessvariants/internal/game"
	"github.com/justinabrahms/chessvariants/internal/search"
	"github.com/justinabrahms/chessvariants/internal/uci"
	"github.com/justinabrahms/chessvariants/internal/variant"
	"github.com/justinabrahms/chessvariants/internal/web"
)

func main() {
	var showHelp bool
	var configDir string
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&configDir, "config", "", "Directory containing config.yaml")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setLogLevel(cfg.Development)

	issuer, err := auth.NewIssuer(cfg.Auth.SeatSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create seat issuer")
	}
	if cfg.Auth.SeatSecret == "" {
		log.Warn().Msg("No auth.seat_secret set, seat tokens will not survive a restart")
	}

	movers, closeEngine, err := moverFactory(cfg.Engine)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start engine")
	}
	defer closeEngine()

	viewer, _ := chess.ParseSide(cfg.Game.ViewerSide)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := web.NewHub(log.Logger)
	go hub.Run(ctx)

	service, err := web.NewService(web.Options{
		Variant:    cfg.Game.Variant,
		EngineSide: cfg.Game.EngineSide,
		Viewer:     viewer,
		Seed:       cfg.Game.Seed,
		Movers:     movers,
		Issuer:     issuer,
		Hub:        hub,
		Logger:     log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create service")
	}

	router := service.Router()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("variant", cfg.Game.Variant).Str("engine", cfg.Engine.Kind).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	service.Close()
	log.Info().Msg("Server exited")
}

func setLogLevel(dev config.DevelopmentConfig) {
	level, err := zerolog.ParseLevel(dev.LogLevel)
	if err != nil {
		log.Warn().Str("level", dev.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	if dev.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// moverFactory picks the engine behind the computer's seat. The UCI engine
// only understands standard chess; other variants fall back to minimax.
func moverFactory(cfg config.EngineConfig) (web.MoverFactory, func(), error) {
	minimax := func(rules variant.RuleSet) game.Mover {
		return search.New(rules, search.WithDepth(cfg.Depth))
	}
	if cfg.Kind != "uci" {
		return minimax, func() {}, nil
	}

	eng, err := uci.Start(uci.Config{Path: cfg.UCIPath, Depth: cfg.UCIDepth, Timeout: cfg.UCITimeout}, log.Logger)
	if err != nil {
		return nil, nil, err
	}
	factory := func(rules variant.RuleSet) game.Mover {
		if rules.Name() == "standard" {
			return eng
		}
		log.Info().Str("variant", rules.Name()).Msg("UCI engine cannot play variant, using minimax")
		return minimax(rules)
	}
	closer := func() {
		if err := eng.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop UCI engine")
		}
	}
	return factory, closer, nil
}

func showHelpMessage() {
	fmt.Println(`chessvariants server

DESCRIPTION:
    Serves one chess game over HTTP and WebSocket. The game may be played
    under standard, shuffled, racing or fog rules, against a minimax AI, a
    UCI engine, or a second human.

USAGE:
    chessvariants-server [OPTIONS]

OPTIONS:
    -h, --help       Show this help message
    -config DIR      Directory containing config.yaml

CONFIGURATION:
    Read from config.yaml in the current directory or ./config, overridden
    by CHESSVARIANTS_* environment variables (e.g. CHESSVARIANTS_GAME_VARIANT).

    Example config.yaml:
        server:
          host: localhost
          port: 8080
        game:
          variant: fog          # standard | shuffled | racing | fog
          engine_side: black    # white | black | none
          viewer_side: black
        engine:
          kind: minimax         # minimax | uci
          depth: 2
          uci_path: stockfish
          uci_timeout: 5s
        auth:
          seat_secret: change-me
          token_ttl: 24h

API ENDPOINTS:
    GET  /api/health              - Service health check
    POST /api/game                - Start a game, returns seat tokens
    GET  /api/game                - Current state
    GET  /api/game/moves/{cell}   - Legal destinations of a piece
    POST /api/game/moves          - Play a move (Bearer seat token)
    POST /api/game/promotion      - Choose a promotion piece (Bearer seat token)
    POST /api/game/reset          - Restart the game (Bearer seat token)
    GET  /ws                      - Live game updates

EXAMPLES:
    curl -X POST http://localhost:8080/api/game \
      -H "Content-Type: application/json" \
      -d '{"variant": "racing", "side": "white"}'`)
}
