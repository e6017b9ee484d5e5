// apps/go-server/internal/httpserver/routes_game.go
//
// Game endpoints.
//
//   POST   /game/new            -> deal a game, returns seat tokens
//   GET    /game/{id}           -> current state
//   POST   /game/{id}/select    -> {tileId}          (seat token)
//   POST   /game/{id}/place     -> {end, tileId?}    (seat token)
//   POST   /game/{id}/draw      ->                   (seat token)
//   POST   /game/{id}/pass      ->                   (seat token)
//   POST   /game/{id}/restart   -> deal again, same options (seat token)
//   DELETE /game/{id}           -> end the game      (seat token)
//
// Every response carries the events the call produced, each with a localized
// message (?lang= or Accept-Language), and the snapshot after it. Snapshots
// only include the hands of the caller's seats; GET and the stream accept an
// optional token (Authorization or ?token=) to see one. Rejected
// moves that still produced events (no_match, cannot_draw) return them with
// the error.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/match"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/store"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/tiles"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSeat)
			r.Post("/select", s.handleSelect)
			r.Post("/place", s.handlePlace)
			r.Post("/draw", s.handleDraw)
			r.Post("/pass", s.handlePass)
			r.Post("/restart", s.handleRestart)
			r.Delete("/", s.handleEndGame)
		})
	})
}

// eventView is an event with its rendered message.
type eventView struct {
	game.Event
	Message string `json:"message"`
}

// gameView is the body of every game response and stream message.
type gameView struct {
	GameID     string        `json:"gameId"`
	Generation uint64        `json:"generation"`
	Events     []eventView   `json:"events"`
	Snapshot   game.Snapshot `json:"snapshot"`
}

// view renders a response for a caller holding seats.
func (s *Server) view(r *http.Request, id string, gen uint64, evs []game.Event, snap game.Snapshot, seats []game.Player) gameView {
	loc := s.catalog.For(snap.Mode, requestLangs(r)...)
	out := gameView{GameID: id, Generation: gen, Events: make([]eventView, len(evs)), Snapshot: snap.For(seats...)}
	for i, ev := range evs {
		out.Events[i] = eventView{Event: ev, Message: loc.Text(ev)}
	}
	return out
}

// requestLangs prefers ?lang= over Accept-Language.
func requestLangs(r *http.Request) []string {
	var langs []string
	if l := r.URL.Query().Get("lang"); l != "" {
		langs = append(langs, l)
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		langs = append(langs, h)
	}
	return langs
}

// ------------------------------ create -------------------------------------

type newGameReq struct {
	Mode         string `json:"mode"`         // "pvc" (default) | "pvp"
	AIDifficulty string `json:"aiDifficulty"` // "easy" | "normal" (default) | "hard"
	Category     string `json:"category"`     // tiles.Categories; default "easy"
}

type newGameRes struct {
	gameView
	Options match.Options          `json:"options"`
	Seats   map[game.Player]string `json:"seats"`
}

// handleNewGame deals a new table. Player1's token is always issued; player2's
// only in pvp, since the computer holds that seat otherwise.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": err.Error()})
		return
	}
	tier, err := game.ParseTier(req.AIDifficulty)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": err.Error()})
		return
	}
	cat, err := tiles.ParseCategory(req.Category)
	if err != nil {
		s.writeError(w, r, err, "", match.Result{})
		return
	}

	id := uuid.NewString()
	t := match.New(id, s.deps)
	res, err := t.NewGame(r.Context(), match.Options{Mode: mode, Tier: tier, Category: cat})
	if err != nil {
		s.writeError(w, r, err, id, res)
		return
	}
	if err := s.store.Save(r.Context(), t); err != nil {
		t.Close()
		s.log.Error().Err(err).Str("gameId", id).Msg("save table")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save_failed"})
		return
	}

	seats := map[game.Player]string{}
	var held []game.Player
	for _, p := range []game.Player{game.Player1, game.Player2} {
		if mode == game.ModePvC && p == game.Player2 {
			continue
		}
		tok, _, err := s.seats.Sign(id, p)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sign_failed"})
			return
		}
		seats[p] = tok
		held = append(held, p)
	}

	s.log.Info().Str("gameId", id).Str("mode", string(mode)).Str("category", string(cat)).Msg("game created")
	writeJSON(w, http.StatusCreated, newGameRes{
		gameView: s.view(r, id, res.Generation, res.Events, res.Snapshot, held),
		Options:  t.Options(),
		Seats:    seats,
	})
}

// ------------------------------ inspect ------------------------------------

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	res, err := t.Snapshot()
	if err != nil {
		s.writeError(w, r, err, t.ID(), res)
		return
	}
	writeJSON(w, http.StatusOK, s.view(r, t.ID(), res.Generation, nil, res.Snapshot, s.viewerSeats(r, t.ID())))
}

// ------------------------------ actions ------------------------------------

type selectReq struct {
	TileID *int `json:"tileId"`
}

type placeReq struct {
	End    string `json:"end"`
	TileID *int   `json:"tileId"` // optional; places the selected tile when absent
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TileID == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	s.act(w, r, func(t *match.Table, p game.Player) (match.Result, error) {
		return t.Select(p, *req.TileID)
	})
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	end, err := game.ParseEnd(req.End)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": err.Error()})
		return
	}
	s.act(w, r, func(t *match.Table, p game.Player) (match.Result, error) {
		if req.TileID != nil {
			return t.PlaceTile(p, *req.TileID, end)
		}
		return t.Place(p, end)
	})
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(t *match.Table, p game.Player) (match.Result, error) { return t.Draw(p) })
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(t *match.Table, p game.Player) (match.Result, error) { return t.Pass(p) })
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(t *match.Table, _ game.Player) (match.Result, error) { return t.Restart(r.Context()) })
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.table(w, r); !ok {
		return
	}
	_ = s.store.Delete(r.Context(), id)
	s.log.Info().Str("gameId", id).Str("seat", string(seatFrom(r.Context()))).Msg("game ended")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// act runs fn for the seat in the token and writes the result.
func (s *Server) act(w http.ResponseWriter, r *http.Request, fn func(*match.Table, game.Player) (match.Result, error)) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	res, err := fn(t, seatFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, t.ID(), res)
		return
	}
	writeJSON(w, http.StatusOK, s.view(r, t.ID(), res.Generation, res.Events, res.Snapshot, []game.Player{seatFrom(r.Context())}))
}

func (s *Server) table(w http.ResponseWriter, r *http.Request) (*match.Table, bool) {
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return nil, false
	}
	return t, true
}

// ------------------------------ errors -------------------------------------

// errorCodes maps domain errors to a status and a stable code. Order matters:
// unknown categories also match ErrGenerationFailure.
var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{tiles.ErrUnknownCategory, http.StatusBadRequest, "unknown_category"},
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
	{game.ErrNotYourTurn, http.StatusForbidden, "not_your_turn"},
	{game.ErrTileNotInHand, http.StatusForbidden, "tile_not_in_hand"},
	{game.ErrNoMatch, http.StatusUnprocessableEntity, "no_match"},
	{game.ErrDrawUnavailable, http.StatusConflict, "draw_unavailable"},
	{game.ErrGameOver, http.StatusConflict, "game_over"},
	{game.ErrNoSelection, http.StatusConflict, "no_selection"},
	{match.ErrNoGame, http.StatusConflict, "no_game"},
	{game.ErrInsufficientTiles, http.StatusBadGateway, "insufficient_tiles"},
	{game.ErrGenerationFailure, http.StatusBadGateway, "generation_failure"},
}

type errorRes struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Events  []eventView `json:"events,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, id string, res match.Result) {
	status, code := http.StatusInternalServerError, "internal"
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			status, code = ec.status, ec.code
			break
		}
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("gameId", id).Msg("request failed")
	}
	body := errorRes{Error: code, Message: err.Error()}
	if len(res.Events) > 0 {
		body.Events = s.view(r, id, res.Generation, res.Events, res.Snapshot, nil).Events
	}
	writeJSON(w, status, body)
}
