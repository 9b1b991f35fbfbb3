package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/blackjack-advisor/internal/counting"
	"github.com/lox/blackjack-advisor/internal/deck"
	"github.com/lox/blackjack-advisor/internal/display"
	"github.com/lox/blackjack-advisor/internal/strategy"
)

// ShoeFlags describe the shoe a one-shot command evaluates against.
type ShoeFlags struct {
	Running int `short:"r" help:"Running count"`
	Dealt   int `short:"n" help:"Cards dealt since the shuffle"`
	Decks   int `short:"d" help:"Decks in the shoe (default from config)"`
}

func (f ShoeFlags) state(defaultDecks int) (counting.State, error) {
	decks := f.Decks
	if decks == 0 {
		decks = defaultDecks
	}
	if decks < 1 {
		return counting.State{}, errors.New("decks must be at least 1")
	}
	if f.Dealt < 0 {
		return counting.State{}, errors.New("cards dealt cannot be negative")
	}
	s := counting.NewState(decks)
	s.RunningCount = f.Running
	s.CardsDealt = f.Dealt
	return s, nil
}

// AdviseCmd prints the recommendation for one hand.
type AdviseCmd struct {
	ShoeFlags
	Player string `short:"p" required:"" help:"Player cards, e.g. A,K or \"10 6\""`
	Dealer string `short:"u" help:"Dealer up-card"`
}

func (c *AdviseCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	player, err := deck.ParseCards(c.Player)
	if err != nil {
		return fmt.Errorf("player cards: %w", err)
	}
	dealer := deck.NoRank
	if c.Dealer != "" {
		if dealer, err = deck.ParseRank(c.Dealer); err != nil {
			return fmt.Errorf("dealer card: %w", err)
		}
	}
	counts, err := c.state(cfg.Shoe.Decks)
	if err != nil {
		return err
	}

	rec := strategy.Recommend(player, dealer, counts)
	tc := counts.TrueCount()

	lines := []string{
		display.Field("Player", display.Hand(player)),
		display.Field("Dealer", dealerLabel(dealer)),
		"",
		display.Recommendation(rec),
		"",
		display.Field("True count", display.TrueCount(tc)),
		display.Field("Bet", display.Bet(counting.SuggestedBet(tc))),
	}
	_, err = fmt.Fprintln(g.Out(), strings.Join(lines, "\n"))
	return err
}

func dealerLabel(r deck.Rank) string {
	if r == deck.NoRank {
		return "-"
	}
	return r.String()
}

// CountCmd prints the true count and betting tier for a shoe position.
type CountCmd struct {
	ShoeFlags
}

func (c *CountCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	counts, err := c.state(cfg.Shoe.Decks)
	if err != nil {
		return err
	}

	tc := counts.TrueCount()
	lines := []string{
		display.Field("Running count", display.RunningCount(counts.RunningCount)),
		display.Field("Cards dealt", fmt.Sprintf("%d of %d", counts.CardsDealt, counts.TotalCards)),
		display.Field("Decks remaining", fmt.Sprintf("%.1f", counting.RoundTenth(counts.DecksRemaining()))),
		display.Field("True count", display.TrueCount(tc)),
		display.Field("Bet", display.Bet(counting.SuggestedBet(tc))),
	}
	_, err = fmt.Fprintln(g.Out(), strings.Join(lines, "\n"))
	return err
}
