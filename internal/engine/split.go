package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/tallyup/tallyup/internal/models"
)

// Monetary comparisons never use exact floating-point equality: amounts are
// equal within 0.01 currency units, percentage sums within 0.1.
const (
	AmountEpsilon  = 0.01
	PercentEpsilon = 0.1
)

var (
	// ErrNoParticipants is returned for an equal split with nobody assigned.
	ErrNoParticipants = errors.New("assignment has no participants")

	// ErrSplitMismatch is returned when explicit amounts do not sum to the
	// item total within tolerance.
	ErrSplitMismatch = errors.New("explicit amounts do not sum to item total")

	// ErrPercentMismatch is returned when percentages do not sum to 100
	// within tolerance.
	ErrPercentMismatch = errors.New("percentages do not sum to 100")

	// ErrUnknownMode is returned for a split mode outside the closed set.
	ErrUnknownMode = errors.New("unknown split mode")
)

// ValidateTotal reports whether a live sum matches the expected item total
// within the monetary tolerance. Callers must block save/commit actions on a
// failing validation rather than silently accepting the values.
func ValidateTotal(live, want float64) bool {
	return math.Abs(live-want) < AmountEpsilon
}

// Shares computes each assigned participant's monetary share of an item
// total under the assignment's split mode.
//
// Degenerate inputs follow documented policy rather than panicking:
// an equal split with zero participants is an error the caller must reject
// before saving; a shares split whose weights sum to zero yields all-zero
// shares.
func Shares(total float64, a models.Assignment) (map[string]float64, error) {
	switch a.Mode {
	case models.SplitEqual, "":
		if len(a.Participants) == 0 {
			return nil, ErrNoParticipants
		}
		share := total / float64(len(a.Participants))
		shares := make(map[string]float64, len(a.Participants))
		for _, id := range a.Participants {
			shares[id] = share
		}
		return shares, nil

	case models.SplitAmount:
		if len(a.Values) == 0 {
			return nil, ErrNoParticipants
		}
		var sum float64
		for _, v := range a.Values {
			sum += v
		}
		if !ValidateTotal(sum, total) {
			return nil, fmt.Errorf("%w: got %.2f, want %.2f", ErrSplitMismatch, sum, total)
		}
		shares := make(map[string]float64, len(a.Values))
		for id, v := range a.Values {
			shares[id] = v
		}
		return shares, nil

	case models.SplitPercent:
		if len(a.Values) == 0 {
			return nil, ErrNoParticipants
		}
		var sum float64
		for _, v := range a.Values {
			sum += v
		}
		if math.Abs(sum-100) > PercentEpsilon {
			return nil, fmt.Errorf("%w: got %.2f", ErrPercentMismatch, sum)
		}
		shares := make(map[string]float64, len(a.Values))
		for id, pct := range a.Values {
			shares[id] = total * pct / 100
		}
		return shares, nil

	case models.SplitShares:
		if len(a.Values) == 0 {
			return nil, ErrNoParticipants
		}
		var weightSum float64
		for _, w := range a.Values {
			weightSum += w
		}
		shares := make(map[string]float64, len(a.Values))
		if math.Abs(weightSum) < AmountEpsilon {
			// Zero total weight yields all-zero shares, not an error.
			for id := range a.Values {
				shares[id] = 0
			}
			return shares, nil
		}
		for id, w := range a.Values {
			shares[id] = total * w / weightSum
		}
		return shares, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, a.Mode)
	}
}

// Convert re-expresses an assignment's values in another split mode without
// changing its monetary intent, so editors can flip between modes.
//
// The source values are first resolved to concrete amounts, then rewritten in
// the target mode's unit. Two deliberate policies:
//   - converting into shares mode discards prior values and assigns every
//     participant weight 1, since there is no principled weight derivation;
//   - converting amounts to percentages with a zero item total falls back to
//     an even 100/n, as the ratio is undefined.
//
// Converting to equal mode returns nil values; the participant list alone
// carries the intent.
func Convert(values map[string]float64, from, to models.SplitMode, total float64, participants []string) (map[string]float64, error) {
	if from == to {
		return copyValues(values), nil
	}

	a := models.Assignment{Mode: from, Participants: participants, Values: values}
	amounts, err := Shares(total, a)
	if err != nil {
		return nil, err
	}

	switch to {
	case models.SplitEqual:
		return nil, nil

	case models.SplitAmount:
		return amounts, nil

	case models.SplitPercent:
		out := make(map[string]float64, len(amounts))
		if math.Abs(total) < AmountEpsilon {
			even := 100 / float64(len(amounts))
			for id := range amounts {
				out[id] = even
			}
			return out, nil
		}
		for id, amt := range amounts {
			out[id] = amt / total * 100
		}
		return out, nil

	case models.SplitShares:
		out := make(map[string]float64, len(amounts))
		for id := range amounts {
			out[id] = 1
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, to)
	}
}

func copyValues(values map[string]float64) map[string]float64 {
	if values == nil {
		return nil
	}
	out := make(map[string]float64, len(values))
	for id, v := range values {
		out[id] = v
	}
	return out
}
