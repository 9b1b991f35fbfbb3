// Package command implements the operator command language: short text
// commands such as "p A K", "d 10", "win" or "double 2" that are parsed into a
// Command and applied to a session.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjack-advisor/internal/deck"
	"github.com/lox/blackjack-advisor/internal/session"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	// ErrNotAllowed is returned when the session refuses a well-formed
	// command, such as splitting a non-pair.
	ErrNotAllowed = errors.New("not allowed")
)

// Kind identifies a command.
type Kind int

const (
	AddCards Kind = iota
	RemoveCard
	ClearHand
	Split
	Double
	Record
	SetBet
	AdjustBet
	AutoBet
	NewHand
	Recount
	ResetStats
	ClearAll
	History
	Help
	Quit
)

// NoHand marks a command that names no split sub-hand.
const NoHand = -1

// LastCard as a RemoveCard position removes the most recent card.
const LastCard = -1

// Command is a parsed operator command. Indexes are zero-based; the text
// form is one-based.
type Command struct {
	Kind    Kind
	Target  session.Target
	Cards   deck.Hand
	Pos     int
	Hand    int
	Outcome session.Outcome
	Amount  int
	On      bool
}

// Parse parses one line of input.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUsage)
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	if target, ok := parseTarget(verb); ok {
		if len(args) == 0 {
			return Command{}, fmt.Errorf("%w: %s <cards>", ErrUsage, verb)
		}
		cards, err := deck.ParseCards(strings.Join(args, " "))
		if err != nil {
			return Command{}, err
		}
		if len(cards) == 0 {
			return Command{}, fmt.Errorf("%w: %s <cards>", ErrUsage, verb)
		}
		return Command{Kind: AddCards, Target: target, Cards: cards, Hand: NoHand}, nil
	}

	switch verb {
	case "rm", "remove", "undo":
		return parseRemove(args)
	case "clear":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: clear d|p|h<n>", ErrUsage)
		}
		target, ok := parseTarget(strings.ToLower(args[0]))
		if !ok {
			return Command{}, fmt.Errorf("%w: unknown hand %q", ErrUsage, args[0])
		}
		return Command{Kind: ClearHand, Target: target, Hand: NoHand}, nil
	case "split":
		return Command{Kind: Split, Hand: NoHand}, noArgs(verb, args)
	case "double", "dd":
		hand, err := optionalHand(verb, args)
		return Command{Kind: Double, Hand: hand}, err
	case "win", "loss", "lose", "push", "surrender", "sur":
		hand, err := optionalHand(verb, args)
		return Command{Kind: Record, Outcome: outcomes[verb], Hand: hand}, err
	case "bet":
		return parseBet(args)
	case "auto":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return Command{}, fmt.Errorf("%w: auto on|off", ErrUsage)
		}
		return Command{Kind: AutoBet, On: args[0] == "on", Hand: NoHand}, nil
	case "new", "next":
		return Command{Kind: NewHand, Hand: NoHand}, noArgs(verb, args)
	case "recount":
		return Command{Kind: Recount, Hand: NoHand}, noArgs(verb, args)
	case "reset":
		return Command{Kind: ResetStats, Hand: NoHand}, noArgs(verb, args)
	case "clearall":
		return Command{Kind: ClearAll, Hand: NoHand}, noArgs(verb, args)
	case "history", "hist":
		return Command{Kind: History, Hand: NoHand}, nil
	case "help", "?":
		return Command{Kind: Help, Hand: NoHand}, nil
	case "quit", "q", "exit":
		return Command{Kind: Quit, Hand: NoHand}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
}

var outcomes = map[string]session.Outcome{
	"win":       session.OutcomeWin,
	"loss":      session.OutcomeLoss,
	"lose":      session.OutcomeLoss,
	"push":      session.OutcomePush,
	"surrender": session.OutcomeSurrender,
	"sur":       session.OutcomeSurrender,
}

// parseTarget accepts d, dealer, p, player and h<n> (one-based).
func parseTarget(s string) (session.Target, bool) {
	switch s {
	case "d", "dealer":
		return session.DealerTarget, true
	case "p", "player":
		return session.PlayerTarget, true
	}
	if rest, ok := strings.CutPrefix(s, "h"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 {
			return session.SplitTarget(n - 1), true
		}
	}
	return session.Target{}, false
}

func parseRemove(args []string) (Command, error) {
	if len(args) < 1 || len(args) > 2 {
		return Command{}, fmt.Errorf("%w: rm d|p|h<n> [position]", ErrUsage)
	}
	target, ok := parseTarget(strings.ToLower(args[0]))
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown hand %q", ErrUsage, args[0])
	}
	pos := LastCard
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return Command{}, fmt.Errorf("%w: position must be a number from 1", ErrUsage)
		}
		pos = n - 1
	}
	return Command{Kind: RemoveCard, Target: target, Pos: pos, Hand: NoHand}, nil
}

func parseBet(args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, fmt.Errorf("%w: bet <n>|+<n>|-<n>", ErrUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return Command{}, fmt.Errorf("%w: bet must be a whole number", ErrUsage)
	}
	if strings.HasPrefix(args[0], "+") || strings.HasPrefix(args[0], "-") {
		return Command{Kind: AdjustBet, Amount: n, Hand: NoHand}, nil
	}
	return Command{Kind: SetBet, Amount: n, Hand: NoHand}, nil
}

func optionalHand(verb string, args []string) (int, error) {
	switch len(args) {
	case 0:
		return NoHand, nil
	case 1:
		n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(args[0]), "h"))
		if err != nil || n < 1 {
			return NoHand, fmt.Errorf("%w: %s [hand number]", ErrUsage, verb)
		}
		return n - 1, nil
	}
	return NoHand, fmt.Errorf("%w: %s [hand number]", ErrUsage, verb)
}

func noArgs(verb string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s takes no arguments", ErrUsage, verb)
	}
	return nil
}
