// Package messages renders status events as localized, human-readable text.
//
// Catalogs live in assets/locales (one YAML file per language, message id ->
// template). English is the fallback for unknown languages and missing ids.
package messages

import (
	"fmt"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/mathdominoes/apps/go-server/assets"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// Catalog holds every embedded translation.
type Catalog struct {
	bundle *i18n.Bundle
}

// Load parses the embedded catalogs.
func Load() (*Catalog, error) {
	files, err := assets.Locales()
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	for name, data := range files {
		if _, err := b.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return &Catalog{bundle: b}, nil
}

// Languages lists the loaded language tags, sorted.
func (c *Catalog) Languages() []string {
	var out []string
	for _, t := range c.bundle.LanguageTags() {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}

// Localizer renders events in the first supported of langs. Entries may be
// plain tags ("uk") or Accept-Language header values.
type Localizer struct {
	loc  *i18n.Localizer
	mode game.Mode
}

// For returns a localizer for one game's mode; pvc names player2 "Computer".
func (c *Catalog) For(mode game.Mode, langs ...string) *Localizer {
	return &Localizer{loc: i18n.NewLocalizer(c.bundle, langs...), mode: mode}
}

func (l *Localizer) text(id string, data map[string]any) string {
	s, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return s
}

// Name is the display name of a seat.
func (l *Localizer) Name(p game.Player) string {
	if p == game.Player2 && l.mode == game.ModePvC {
		return l.text("computer", nil)
	}
	return l.text(string(p), nil)
}

// Text renders one event.
func (l *Localizer) Text(ev game.Event) string {
	data := map[string]any{"Player": l.Name(ev.Player)}
	switch p := ev.Payload.(type) {
	case game.GameStartedPayload:
		data["First"] = l.Name(p.First)
	case game.TurnChangedPayload:
		data["Player"] = l.Name(p.Next)
	case game.TileDrawnPayload:
		data["Draws"], data["MaxDraws"] = p.Draws, p.MaxDraws
	case game.PlayerWonPayload:
		data["Winner"] = l.Name(p.Winner)
	case game.GameBlockedPayload:
		data["Player1"], data["Player2"] = l.Name(game.Player1), l.Name(game.Player2)
		data["Score1"], data["Score2"] = p.Scores[game.Player1], p.Scores[game.Player2]
		head := l.text(string(ev.Kind), data)
		if p.Winner == nil {
			return head + " " + l.text("game_blocked_draw", nil)
		}
		return head + " " + l.text("game_blocked_winner", map[string]any{"Winner": l.Name(*p.Winner)})
	}
	return l.text(string(ev.Kind), data)
}

// Texts renders each event in order.
func (l *Localizer) Texts(evs []game.Event) []string {
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = l.Text(ev)
	}
	return out
}
