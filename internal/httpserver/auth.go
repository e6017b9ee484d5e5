package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// seatClaims bind a token to one seat of one game.
type seatClaims struct {
	Game string      `json:"game"`
	Seat game.Player `json:"seat"`
	jwt.RegisteredClaims
}

// seatSigner issues and verifies HS256 seat tokens.
type seatSigner struct {
	secret []byte
	ttl    time.Duration
}

// Sign creates a token for seat in gameID.
func (s seatSigner) Sign(gameID string, seat game.Player) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, seatClaims{
		Game: gameID,
		Seat: seat,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(seat),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// Parse verifies tok and returns its claims.
func (s seatSigner) Parse(tok string) (*seatClaims, error) {
	claims := &seatClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.Game == "" || !claims.Seat.Valid() {
		return nil, errors.New("invalid seat token")
	}
	return claims, nil
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ctxSeatKey is the context key type for the authenticated seat.
type ctxSeatKey struct{}

// requireSeat enforces a valid seat token for the game in the URL and
// injects the seat into the request context.
func (s *Server) requireSeat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		claims, err := s.seats.Parse(tokenStr)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
			return
		}
		if claims.Game != chi.URLParam(r, "id") {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "wrong_game"})
			return
		}
		ctx := context.WithValue(r.Context(), ctxSeatKey{}, claims.Seat)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// seatFrom returns the seat placed in ctx by requireSeat.
func seatFrom(ctx context.Context) game.Player {
	p, _ := ctx.Value(ctxSeatKey{}).(game.Player)
	return p
}

// viewerSeats returns the seat of an optional token for gameID, read from the
// Authorization header or ?token=. Missing or invalid tokens see no hands.
func (s *Server) viewerSeats(r *http.Request, gameID string) []game.Player {
	tok := bearerToken(r)
	if tok == "" {
		tok = r.URL.Query().Get("token")
	}
	if tok == "" {
		return nil
	}
	claims, err := s.seats.Parse(tok)
	if err != nil || claims.Game != gameID {
		return nil
	}
	return []game.Player{claims.Seat}
}
