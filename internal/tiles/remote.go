package tiles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// Remote asks an external generator for finished tile records.
//
//	POST {BaseURL}/generate  {"category":"easy","count":44}
//	200 [{"problem":"3 + 4","solution":7,"displayAnswer":9}, ...]
//
// Records are trusted as returned; solutions are not re-evaluated.
type Remote struct {
	BaseURL string
	PerGame int
	Client  *http.Client
}

// NewRemote builds a Remote with a bounded request timeout.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

type generateReq struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

func (r *Remote) Generate(ctx context.Context, c Category) ([]game.Spec, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownCategory, c)
	}
	body, err := json.Marshal(generateReq{Category: c, Count: perGame(r.PerGame)})
	if err != nil {
		return nil, generationErr("encode request: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, generationErr("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, generationErr("call generator: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, generationErr("generator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(out)))
	}

	var specs []game.Spec
	if err := json.NewDecoder(resp.Body).Decode(&specs); err != nil {
		return nil, generationErr("decode generator reply: %v", err)
	}
	return specs, nil
}
