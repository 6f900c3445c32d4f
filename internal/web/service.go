// Package web serves one game session over HTTP and pushes every change to
// WebSocket watchers.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/justinabrahms/chessvariants/internal/auth"
	"github.com/justinabrahms/chessvariants/internal/chess"
	"github.com/justinabrahms/chessvariants/internal/game"
	"github.com/justinabrahms/chessvariants/internal/search"
	"github.com/justinabrahms/chessvariants/internal/variant"
)

var (
	errWrongGame  = errors.New("seat token is for another game")
	errBadRequest = errors.New("bad request")
)

// MoverFactory returns the move supplier for a fresh game under rules.
type MoverFactory func(rules variant.RuleSet) game.Mover

type Options struct {
	Variant    string
	EngineSide string
	// Viewer is the fog viewer of games without an engine.
	Viewer chess.Side
	Seed   int64
	Movers MoverFactory
	Issuer *auth.Issuer
	Hub    *Hub
	Logger zerolog.Logger
}

// Service owns the current game. All game access happens under mu; engine
// searches run outside it on a detached copy.
type Service struct {
	mu         sync.Mutex
	game       *game.Game
	gameID     string
	seq        int
	mover      game.Mover
	engineSide chess.Side
	hasEngine  bool

	movers MoverFactory
	opts   variant.Options
	issuer *auth.Issuer
	hub    *Hub
	log    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService starts the first game described by opts.
func NewService(opts Options) (*Service, error) {
	if opts.Issuer == nil {
		return nil, errors.New("web: seat issuer required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	if opts.Hub == nil {
		opts.Hub = NewHub(opts.Logger)
		go opts.Hub.Run(ctx)
	}
	s := &Service{
		movers: opts.Movers,
		opts:   variant.Options{Seed: opts.Seed, Viewer: opts.Viewer},
		issuer: opts.Issuer,
		hub:    opts.Hub,
		log:    opts.Logger,
		ctx:    ctx,
		cancel: cancel,
	}

	engineSide, hasEngine, err := parseEngineSide(opts.EngineSide)
	if err != nil {
		cancel()
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.startGameLocked(opts.Variant, engineSide, hasEngine, opts.Seed); err != nil {
		cancel()
		return nil, err
	}
	s.startEngineTurnLocked()
	return s, nil
}

// Router returns the routes of the service.
func (s *Service) Router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/game", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/game", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/game/moves/{cell}", s.DestinationsHandler).Methods("GET")
	api.HandleFunc("/game/moves", s.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/game/promotion", s.PromotionHandler).Methods("POST")
	api.HandleFunc("/game/reset", s.ResetHandler).Methods("POST")
	router.HandleFunc("/ws", s.WebSocketHandler)
	return router
}

// Wait blocks until no engine turn is running.
func (s *Service) Wait() { s.wg.Wait() }

// Close cancels running engine turns and waits for them to return.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

func parseEngineSide(v string) (chess.Side, bool, error) {
	switch v {
	case "", "none", "off":
		return chess.White, false, nil
	}
	side, err := chess.ParseSide(v)
	if err != nil {
		return chess.White, false, fmt.Errorf("%w: engine side %q", errBadRequest, v)
	}
	return side, true, nil
}

func (s *Service) startGameLocked(name string, engineSide chess.Side, hasEngine bool, seed int64) error {
	engine := hasEngine && s.movers != nil
	opts := s.opts
	if seed != 0 {
		opts.Seed = seed
	}
	// Against the engine the fog shows the human seat.
	if engine {
		opts.Viewer = engineSide.Opposite()
	}
	rules, err := variant.ByName(name, opts)
	if err != nil {
		return err
	}
	s.seq++
	s.gameID = fmt.Sprintf("%s-%d", rules.Name(), s.seq)
	s.game = game.New(rules, game.WithLogger(s.log.With().Str("gameID", s.gameID).Logger()))
	s.engineSide, s.hasEngine, s.mover = engineSide, false, nil
	if engine {
		s.hasEngine = true
		s.mover = s.movers(rules)
	}
	s.log.Info().Str("gameID", s.gameID).Str("variant", rules.Name()).Bool("engine", s.hasEngine).Msg("Game started")
	return nil
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"gameId":   s.gameID,
		"variant":  s.game.Rules().Name(),
		"variants": variant.Names(),
		"engine":   s.hasEngine,
		"watchers": s.hub.Watchers(s.gameID),
	})
}

type CreateGameRequest struct {
	Variant string `json:"variant"`
	// Side is the side the caller plays. The engine, if any, takes the other.
	Side   string `json:"side"`
	Engine *bool  `json:"engine,omitempty"`
	Seed   int64  `json:"seed,omitempty"`
}

type CreateGameResponse struct {
	GameID string            `json:"gameId"`
	Tokens map[string]string `json:"tokens"`
	State  StateView         `json:"state"`
}

// CreateGameHandler replaces the current game and hands out seat tokens:
// one for the caller's side, or both when no engine plays.
func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	side := chess.White
	if req.Side != "" {
		var err error
		if side, err = chess.ParseSide(req.Side); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	withEngine := s.movers != nil
	if req.Engine != nil {
		withEngine = *req.Engine && s.movers != nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.startGameLocked(req.Variant, side.Opposite(), withEngine, req.Seed); err != nil {
		writeError(w, err)
		return
	}

	seats := []chess.Side{side}
	if !s.hasEngine {
		seats = []chess.Side{chess.White, chess.Black}
	}
	tokens := make(map[string]string, len(seats))
	for _, seat := range seats {
		token, err := s.issuer.Issue(s.gameID, seat)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to issue seat token")
			http.Error(w, "Failed to issue seat token", http.StatusInternalServerError)
			return
		}
		tokens[seat.String()] = token
	}

	view := s.viewLocked()
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: s.gameID, Type: "game_start", Data: view})
	s.startEngineTurnLocked()
	writeJSON(w, http.StatusCreated, CreateGameResponse{GameID: s.gameID, Tokens: tokens, State: view})
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.viewLocked())
}

type DestinationsResponse struct {
	Cell         string   `json:"cell"`
	Destinations []string `json:"destinations"`
}

// DestinationsHandler lists where the piece on a cell may move, for
// highlighting. Fogged cells report nothing.
func (s *Service) DestinationsHandler(w http.ResponseWriter, r *http.Request) {
	cell, err := chess.ParseCell(mux.Vars(r)["cell"])
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dests := s.game.Destinations(cell)
	if fogged, ok := s.game.Fogged(); ok && fogged.Has(cell) {
		dests = 0
	}
	writeJSON(w, http.StatusOK, DestinationsResponse{Cell: cell.String(), Destinations: dests.Strings()})
}

type MakeMoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	from, err := chess.ParseCell(req.From)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := chess.ParseCell(req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	promotion := chess.ParsePromotion(req.Promotion)
	if req.Promotion != "" && promotion == chess.NoKind {
		http.Error(w, fmt.Sprintf("Invalid promotion %q", req.Promotion), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorizeLocked(r); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.game.Move(from, to, promotion)
	if err != nil {
		s.log.Debug().Err(err).Str("from", req.From).Str("to", req.To).Msg("Move rejected")
		writeError(w, err)
		return
	}
	s.afterMoveLocked(res)
	writeJSON(w, http.StatusOK, s.publicResult(res))
}

type PromotionRequest struct {
	Piece string `json:"piece"`
}

func (s *Service) PromotionHandler(w http.ResponseWriter, r *http.Request) {
	var req PromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	kind := chess.ParsePromotion(req.Piece)
	if kind == chess.NoKind {
		http.Error(w, fmt.Sprintf("Invalid promotion %q", req.Piece), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorizeLocked(r); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.game.Promote(kind)
	if err != nil {
		writeError(w, err)
		return
	}
	s.afterMoveLocked(res)
	writeJSON(w, http.StatusOK, s.publicResult(res))
}

// ResetHandler restarts the current game under the same rules and seats.
func (s *Service) ResetHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, _, err := s.seatLocked(r); err != nil {
		writeError(w, err)
		return
	}
	s.game.Reset()
	if s.hasEngine {
		// A search still running keeps the old mover to itself.
		s.mover = s.movers(s.game.Rules())
	}
	view := s.viewLocked()
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: s.gameID, Type: "reset", Data: view})
	s.startEngineTurnLocked()
	writeJSON(w, http.StatusOK, view)
}

func (s *Service) seatLocked(r *http.Request) (string, chess.Side, error) {
	gameID, side, err := s.issuer.Seat(r)
	if err != nil {
		return "", side, err
	}
	if gameID != s.gameID {
		return "", side, errWrongGame
	}
	return gameID, side, nil
}

// authorizeLocked checks the caller holds the seat of the side to move.
func (s *Service) authorizeLocked(r *http.Request) error {
	_, side, err := s.seatLocked(r)
	if err != nil {
		return err
	}
	if side != s.game.Turn() {
		return fmt.Errorf("%s moves next: %w", s.game.Turn(), game.ErrNotYourTurn)
	}
	return nil
}

func (s *Service) afterMoveLocked(res *game.MoveResult) {
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: s.gameID, Type: "move", Data: s.publicResult(res)})
	if !res.Pending {
		s.startEngineTurnLocked()
	}
}

// startEngineTurnLocked hands a copy of the game to the engine if it is the
// engine's turn. The move is applied later only if nothing changed meanwhile.
func (s *Service) startEngineTurnLocked() {
	if !s.hasEngine || s.game.Turn() != s.engineSide {
		return
	}
	turn, err := s.game.PrepareEngineTurn(s.engineSide)
	if err != nil {
		return
	}
	g, mover, gameID := s.game, s.mover, s.gameID

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		m, err := mover.ChooseMove(s.ctx, turn.Position, turn.Side)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.game != g {
			return
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.log.Error().Err(err).Str("gameID", gameID).Msg("Engine failed to move")
				s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "engine_error", Data: map[string]string{"error": err.Error()}})
			}
			return
		}
		res, err := g.ApplyEngineMove(turn, m)
		if errors.Is(err, game.ErrStale) {
			s.log.Debug().Str("gameID", gameID).Msg("Engine move outdated")
			return
		}
		if err != nil {
			s.log.Warn().Err(err).Str("gameID", gameID).Str("move", m.UCI()).Msg("Engine move discarded")
			return
		}
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "move", Data: s.publicResult(res)})
	}()
}

// publicResult strips what the fog would hide. A move by the hidden side
// loses its cells and details when either end is fogged.
func (s *Service) publicResult(res *game.MoveResult) *game.MoveResult {
	fogged, ok := s.game.Fogged()
	if !ok {
		return res
	}
	out := *res
	out.FEN = ""
	fog, ok := s.game.Rules().(*variant.Fog)
	if !ok || !s.hiddenMove(res, fog.Viewer, fogged) {
		return &out
	}
	out.From, out.To = "", ""
	out.Captured, out.Promotion = "", ""
	out.Castle, out.EnPassant = false, false
	return &out
}

func (s *Service) hiddenMove(res *game.MoveResult, viewer chess.Side, fogged chess.CellSet) bool {
	to, err := chess.ParseCell(res.To)
	if err != nil {
		return false
	}
	if pc := s.game.Piece(to); pc != nil && pc.Side == viewer {
		return false
	}
	if fogged.Has(to) {
		return true
	}
	from, err := chess.ParseCell(res.From)
	return err == nil && fogged.Has(from)
}

type StateView struct {
	GameID string `json:"gameId"`
	game.Status
	Board       map[string]string `json:"board"`
	Fogged      []string          `json:"fogged,omitempty"`
	Pending     string            `json:"pending,omitempty"`
	EngineSide  string            `json:"engineSide,omitempty"`
	PieceValues map[string]int    `json:"pieceValues"`
}

func (s *Service) viewLocked() StateView {
	view := StateView{
		GameID:      s.gameID,
		Status:      s.game.Status(),
		Board:       make(map[string]string),
		PieceValues: chess.PieceValues(),
	}
	if s.hasEngine {
		view.EngineSide = s.engineSide.String()
	}
	fogged, fog := s.game.Fogged()
	if fog {
		view.FEN = ""
		view.Fogged = fogged.Strings()
	}
	pos := s.game.Snapshot()
	for _, side := range []chess.Side{chess.White, chess.Black} {
		for _, pc := range pos.Pieces(side) {
			if fog && fogged.Has(pc.Cell) {
				continue
			}
			view.Board[pc.Cell.String()] = string(pc.Letter())
		}
	}
	if pc := pos.Pending(); pc != nil {
		view.Pending = pc.Cell.String()
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, errWrongGame):
		status = http.StatusUnauthorized
	case errors.Is(err, chess.ErrIllegalMove), errors.Is(err, chess.ErrInvalidCell),
		errors.Is(err, variant.ErrUnknownVariant), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, chess.ErrInvalidState), errors.Is(err, search.ErrSearchExhausted):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
