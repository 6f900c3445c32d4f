package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/chessvariants/internal/chess"
	"github.com/justinabrahms/chessvariants/internal/game"
	"github.com/justinabrahms/chessvariants/internal/search"
	"github.com/justinabrahms/chessvariants/internal/uci"
	"github.com/justinabrahms/chessvariants/internal/variant"
)

func main() {
	var (
		variantName = flag.String("variant", "standard", "Rule set: standard, shuffled, racing or fog")
		depth       = flag.Int("depth", search.DefaultDepth, "Minimax search depth")
		plies       = flag.Int("plies", 200, "Stop after this many plies")
		seed        = flag.Int64("seed", 0, "Seed for the shuffled back rank (0 picks one)")
		uciPath     = flag.String("uci", "", "Play White with this UCI engine (standard only)")
		uciTimeout  = flag.Duration("uci-timeout", 5*time.Second, "Time limit per UCI move")
		debug       = flag.Bool("debug", false, "Log every position")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	rules, err := variant.ByName(*variantName, variant.Options{Seed: *seed, Viewer: chess.Black})
	if err != nil {
		log.Fatal().Err(err).Msg("Unknown variant")
	}

	movers := map[chess.Side]game.Mover{
		chess.White: search.New(rules, search.WithDepth(*depth)),
		chess.Black: search.New(rules, search.WithDepth(*depth)),
	}
	if *uciPath != "" {
		if rules.Name() != "standard" {
			log.Fatal().Str("variant", rules.Name()).Msg("UCI engines only play standard chess")
		}
		eng, err := uci.Start(uci.Config{Path: *uciPath, Depth: *depth * 4, Timeout: *uciTimeout}, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to start UCI engine")
		}
		defer eng.Close()
		movers[chess.White] = eng
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := game.New(rules, game.WithLogger(log.Logger))
	log.Info().Str("variant", rules.Name()).Str("fen", g.FEN()).Msg("Starting position")

	for i := 0; i < *plies && !g.State().Terminal(); i++ {
		side := g.Turn()
		res, err := g.PlayEngine(ctx, movers[side])
		if err != nil {
			log.Error().Err(err).Str("side", side.String()).Str("fen", g.FEN()).Msg("Engine could not move")
			break
		}
		log.Debug().Int("ply", i+1).Str("side", side.String()).Str("move", res.From+res.To+promotionSuffix(res)).Str("fen", res.FEN).Msg("Move")
	}

	status := g.Status()
	log.Info().
		Str("variant", status.Variant).
		Str("state", string(status.State)).
		Str("result", status.Result).
		Int("plies", status.Plies).
		Int("material", status.Material.Balance()).
		Str("fen", status.FEN).
		Msg("Game finished")
}

func promotionSuffix(res *game.MoveResult) string {
	if res.Promotion == "" {
		return ""
	}
	return string(chess.ParsePromotion(res.Promotion).Letter())
}
