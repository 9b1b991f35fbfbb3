package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack-advisor/internal/display"
	"github.com/lox/blackjack-advisor/internal/history"
	"github.com/lox/blackjack-advisor/internal/session"
	"github.com/lox/blackjack-advisor/internal/statistics"
)

// Result describes what a command did.
type Result struct {
	// Message is a one-line summary for the operator.
	Message string
	// Changed is true when the session was mutated and should be saved.
	Changed bool
	Quit    bool
	// Archived is set when a statistics reset stored a snapshot.
	Archived *statistics.Snapshot
	// Summary is set by the history command.
	Summary *statistics.Summary
}

// Executor applies commands to sessions. History may be nil, in which case
// resets are not archived and the history command fails.
type Executor struct {
	History history.Store
	Clock   quartz.Clock
	Logger  *log.Logger
}

// NewExecutor returns an executor. A nil clock uses the real clock.
func NewExecutor(store history.Store, clock quartz.Clock, logger *log.Logger) *Executor {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Executor{History: store, Clock: clock, Logger: logger.WithPrefix("command")}
}

// Run parses line and applies it.
func (e *Executor) Run(ctx context.Context, s *session.State, line string) (Result, error) {
	cmd, err := Parse(line)
	if err != nil {
		return Result{}, err
	}
	return e.Apply(ctx, s, cmd)
}

// Apply applies cmd to s. Refused commands return ErrNotAllowed and leave s
// unchanged.
func (e *Executor) Apply(ctx context.Context, s *session.State, cmd Command) (Result, error) {
	switch cmd.Kind {
	case AddCards:
		added := 0
		for _, r := range cmd.Cards {
			if !s.AddCard(cmd.Target, r) {
				break
			}
			added++
		}
		if added == 0 {
			return Result{}, fmt.Errorf("%w: no %s to deal to", ErrNotAllowed, cmd.Target)
		}
		msg := fmt.Sprintf("%s: +%s", title(cmd.Target), cmd.Cards[:added])
		if added < len(cmd.Cards) {
			msg += fmt.Sprintf(" (%d not dealt)", len(cmd.Cards)-added)
		}
		return Result{Message: msg, Changed: true}, nil

	case RemoveCard:
		pos := cmd.Pos
		if pos == LastCard {
			pos = handSize(s, cmd.Target) - 1
		}
		r, ok := s.RemoveCard(cmd.Target, pos)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s has no card %d", ErrNotAllowed, cmd.Target, pos+1)
		}
		return Result{Message: fmt.Sprintf("%s: removed %s", title(cmd.Target), r), Changed: true}, nil

	case ClearHand:
		if !s.ClearHand(cmd.Target) {
			return Result{}, fmt.Errorf("%w: no %s to clear", ErrNotAllowed, cmd.Target)
		}
		return Result{Message: fmt.Sprintf("%s cleared", title(cmd.Target)), Changed: true}, nil

	case Split:
		if !s.Split() {
			return Result{}, fmt.Errorf("%w: only an initial pair can be split", ErrNotAllowed)
		}
		return Result{Message: "Split into 2 hands", Changed: true}, nil

	case Double:
		if cmd.Hand == NoHand {
			if !s.Double() {
				return Result{}, fmt.Errorf("%w: only a two-card hand can double", ErrNotAllowed)
			}
			return Result{Message: "Doubled down", Changed: true}, nil
		}
		if !s.DoubleSplit(cmd.Hand) {
			return Result{}, fmt.Errorf("%w: hand %d cannot double", ErrNotAllowed, cmd.Hand+1)
		}
		return Result{Message: fmt.Sprintf("Hand %d doubled down", cmd.Hand+1), Changed: true}, nil

	case Record:
		return e.record(s, cmd)

	case SetBet:
		if !s.SetBet(cmd.Amount) {
			return Result{}, fmt.Errorf("%w: bet must be at least 1", ErrNotAllowed)
		}
		return Result{Message: fmt.Sprintf("Bet set to %s", display.Money(float64(s.CurrentBet))), Changed: true}, nil

	case AdjustBet:
		s.AdjustBet(cmd.Amount)
		return Result{Message: fmt.Sprintf("Bet set to %s", display.Money(float64(s.CurrentBet))), Changed: true}, nil

	case AutoBet:
		s.UseSuggestedBet = cmd.On
		state := "off"
		if cmd.On {
			state = "on"
		}
		return Result{Message: "Suggested bet " + state, Changed: true}, nil

	case NewHand:
		s.NewHand()
		return Result{Message: "New hand", Changed: true}, nil

	case Recount:
		s.Recount()
		return Result{Message: "Count reset", Changed: true}, nil

	case ResetStats:
		return e.resetStats(ctx, s), nil

	case ClearAll:
		s.ClearAll()
		return Result{Message: "Cleared count, hands, bet and statistics", Changed: true}, nil

	case History:
		if e.History == nil {
			return Result{}, fmt.Errorf("%w: no history store configured", ErrNotAllowed)
		}
		sum, err := history.Summary(ctx, e.History)
		if err != nil {
			return Result{}, fmt.Errorf("load history: %w", err)
		}
		return Result{Message: SummaryLine(sum), Summary: &sum}, nil

	case Help:
		return Result{Message: HelpText}, nil

	case Quit:
		return Result{Message: "Goodbye", Quit: true}, nil
	}
	return Result{}, fmt.Errorf("%w: kind %d", ErrUnknownCommand, cmd.Kind)
}

func (e *Executor) record(s *session.State, cmd Command) (Result, error) {
	bet := s.EffectiveBet()
	before := s.Stats.TotalProfit

	if s.IsSplit() {
		if cmd.Hand == NoHand {
			return Result{}, fmt.Errorf("%w: name the hand, e.g. %s 1", ErrUsage, cmd.Outcome)
		}
		if !s.RecordSplitResult(cmd.Hand, cmd.Outcome, bet) {
			return Result{}, fmt.Errorf("%w: hand %d is settled or missing", ErrNotAllowed, cmd.Hand+1)
		}
		msg := fmt.Sprintf("Hand %d: %s %s", cmd.Hand+1, cmd.Outcome, display.SignedMoney(s.Stats.TotalProfit-before))
		if !s.IsSplit() {
			msg += ", round complete"
		}
		return Result{Message: msg, Changed: true}, nil
	}

	if cmd.Hand != NoHand {
		return Result{}, fmt.Errorf("%w: the round is not split", ErrNotAllowed)
	}
	s.Record(cmd.Outcome, bet)
	return Result{
		Message: fmt.Sprintf("Recorded %s %s", cmd.Outcome, display.SignedMoney(s.Stats.TotalProfit-before)),
		Changed: true,
	}, nil
}

// resetStats archives non-empty statistics before zeroing them. A failed
// archive is logged and the reset goes ahead.
func (e *Executor) resetStats(ctx context.Context, s *session.State) Result {
	res := Result{Message: "Statistics reset", Changed: true}
	if s.Stats.GamesPlayed > 0 && e.History != nil {
		snap, err := history.Archive(ctx, e.History, s.Stats, e.Clock.Now())
		if err != nil {
			e.Logger.Error("Failed to archive statistics", "error", err)
			res.Message = "Statistics reset (archive failed)"
		} else {
			res.Archived = &snap
			res.Message = fmt.Sprintf("Statistics archived as #%d and reset", snap.ID)
		}
	}
	s.ResetStats()
	return res
}

// SummaryLine renders a history summary on one line.
func SummaryLine(sum statistics.Summary) string {
	if sum.TotalRecords == 0 {
		return "No archived sessions"
	}
	return fmt.Sprintf("%d sessions, %d games, %d-%d, win rate %s, profit %s",
		sum.TotalRecords, sum.TotalGames, sum.TotalWins, sum.TotalLosses,
		display.WinRate(sum.OverallWinRate), display.SignedMoney(sum.TotalProfit))
}

func handSize(s *session.State, t session.Target) int {
	switch t.Kind {
	case session.TargetDealer:
		return len(s.Dealer)
	case session.TargetPlayer:
		if !s.IsSplit() {
			return len(s.Player)
		}
		n := 0
		for _, h := range s.Splits {
			n += len(h.Cards)
		}
		return n
	case session.TargetSplit:
		if t.Index >= 0 && t.Index < len(s.Splits) {
			return len(s.Splits[t.Index].Cards)
		}
	}
	return 0
}

func title(t session.Target) string {
	s := t.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// HelpText lists the commands.
const HelpText = `Cards:   d <cards>  p <cards>  h<n> <cards>   e.g. "p A K", "d 10", "h2 5"
Fix:     rm d|p|h<n> [pos]   clear d|p|h<n>
Play:    split   double [n]
Result:  win|loss|push|surrender [n]   (n names the split hand)
Bet:     bet <n>   bet +<n>   bet -<n>   auto on|off
Shoe:    new   recount   reset   clearall   history
Other:   help   quit`
