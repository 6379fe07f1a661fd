package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/tallyup/tallyup/internal/models"
)

func TestShares(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		assignment   models.Assignment
		wantErr      error
		validateFunc func(t *testing.T, shares map[string]float64)
	}{
		{
			name:  "equal split between two participants",
			total: 10.00,
			assignment: models.Assignment{
				Mode:         models.SplitEqual,
				Participants: []string{"alice", "bob"},
			},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				for _, id := range []string{"alice", "bob"} {
					if math.Abs(shares[id]-5.00) > 0.01 {
						t.Errorf("%s share = %v, want 5.00", id, shares[id])
					}
				}
			},
		},
		{
			name:  "percentage 60/40",
			total: 14.50,
			assignment: models.Assignment{
				Mode:   models.SplitPercent,
				Values: map[string]float64{"alice": 60, "bob": 40},
			},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["alice"]-8.70) > 0.01 {
					t.Errorf("alice share = %v, want 8.70", shares["alice"])
				}
				if math.Abs(shares["bob"]-5.80) > 0.01 {
					t.Errorf("bob share = %v, want 5.80", shares["bob"])
				}
			},
		},
		{
			name:  "explicit amounts",
			total: 25.00,
			assignment: models.Assignment{
				Mode:   models.SplitAmount,
				Values: map[string]float64{"alice": 15.50, "bob": 9.50},
			},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["alice"]-15.50) > 0.01 {
					t.Errorf("alice share = %v, want 15.50", shares["alice"])
				}
			},
		},
		{
			name:  "weighted shares 2:1",
			total: 9.00,
			assignment: models.Assignment{
				Mode:   models.SplitShares,
				Values: map[string]float64{"alice": 2, "bob": 1},
			},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["alice"]-6.00) > 0.01 {
					t.Errorf("alice share = %v, want 6.00", shares["alice"])
				}
				if math.Abs(shares["bob"]-3.00) > 0.01 {
					t.Errorf("bob share = %v, want 3.00", shares["bob"])
				}
			},
		},
		{
			name:  "zero total weight yields all-zero shares",
			total: 12.00,
			assignment: models.Assignment{
				Mode:   models.SplitShares,
				Values: map[string]float64{"alice": 0, "bob": 0},
			},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				for id, share := range shares {
					if share != 0 {
						t.Errorf("%s share = %v, want 0", id, share)
					}
				}
			},
		},
		{
			name:  "negative total for a refund line",
			total: -4.00,
			assignment: models.Assignment{
				Mode:         models.SplitEqual,
				Participants: []string{"alice", "bob"},
			},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["alice"]+2.00) > 0.01 {
					t.Errorf("alice share = %v, want -2.00", shares["alice"])
				}
			},
		},
		{
			name:  "equal split with nobody assigned",
			total: 10.00,
			assignment: models.Assignment{
				Mode: models.SplitEqual,
			},
			wantErr: ErrNoParticipants,
		},
		{
			name:  "amounts that do not sum to the total",
			total: 20.00,
			assignment: models.Assignment{
				Mode:   models.SplitAmount,
				Values: map[string]float64{"alice": 10.00, "bob": 9.00},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name:  "percentages that do not sum to 100",
			total: 20.00,
			assignment: models.Assignment{
				Mode:   models.SplitPercent,
				Values: map[string]float64{"alice": 60, "bob": 30},
			},
			wantErr: ErrPercentMismatch,
		},
		{
			name:  "unknown mode",
			total: 10.00,
			assignment: models.Assignment{
				Mode:   "ratio",
				Values: map[string]float64{"alice": 1},
			},
			wantErr: ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Shares(tt.total, tt.assignment)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Shares() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Shares() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}

			// Shares must always reconstruct the item total, except for the
			// documented zero-weight case.
			var sum, weightSum float64
			for _, s := range shares {
				sum += s
			}
			if tt.assignment.Mode == models.SplitShares {
				for _, w := range tt.assignment.Values {
					weightSum += w
				}
				if math.Abs(weightSum) < AmountEpsilon {
					return
				}
			}
			if math.Abs(sum-tt.total) > 0.01 {
				t.Errorf("sum of shares = %v, want %v", sum, tt.total)
			}
		})
	}
}

func TestValidateTotal(t *testing.T) {
	if !ValidateTotal(10.004, 10.00) {
		t.Error("ValidateTotal should tolerate drift below 0.01")
	}
	if ValidateTotal(10.02, 10.00) {
		t.Error("ValidateTotal should reject differences of 0.01 and above")
	}
}

func TestConvertRoundTrip(t *testing.T) {
	total := 37.80
	amounts := map[string]float64{"alice": 20.30, "bob": 10.00, "carol": 7.50}

	pcts, err := Convert(amounts, models.SplitAmount, models.SplitPercent, total, nil)
	if err != nil {
		t.Fatalf("Convert to percent failed: %v", err)
	}
	back, err := Convert(pcts, models.SplitPercent, models.SplitAmount, total, nil)
	if err != nil {
		t.Fatalf("Convert back to amount failed: %v", err)
	}

	for id, want := range amounts {
		if math.Abs(back[id]-want) > 0.01 {
			t.Errorf("%s round-trip amount = %v, want %v", id, back[id], want)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name         string
		values       map[string]float64
		from, to     models.SplitMode
		total        float64
		participants []string
		validateFunc func(t *testing.T, out map[string]float64)
	}{
		{
			name:         "equal to amount",
			from:         models.SplitEqual,
			to:           models.SplitAmount,
			total:        30.00,
			participants: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, out map[string]float64) {
				for _, id := range []string{"alice", "bob", "carol"} {
					if math.Abs(out[id]-10.00) > 0.01 {
						t.Errorf("%s amount = %v, want 10.00", id, out[id])
					}
				}
			},
		},
		{
			name:   "amount to shares defaults every weight to 1",
			values: map[string]float64{"alice": 25.00, "bob": 5.00},
			from:   models.SplitAmount,
			to:     models.SplitShares,
			total:  30.00,
			validateFunc: func(t *testing.T, out map[string]float64) {
				for id, w := range out {
					if w != 1 {
						t.Errorf("%s weight = %v, want 1", id, w)
					}
				}
			},
		},
		{
			name:   "amount to equal drops values",
			values: map[string]float64{"alice": 25.00, "bob": 5.00},
			from:   models.SplitAmount,
			to:     models.SplitEqual,
			total:  30.00,
			validateFunc: func(t *testing.T, out map[string]float64) {
				if out != nil {
					t.Errorf("conversion to equal mode should return nil values, got %v", out)
				}
			},
		},
		{
			name:   "amount to percent with zero total spreads evenly",
			values: map[string]float64{"alice": 0, "bob": 0},
			from:   models.SplitAmount,
			to:     models.SplitPercent,
			total:  0,
			validateFunc: func(t *testing.T, out map[string]float64) {
				for id, pct := range out {
					if math.Abs(pct-50) > 0.1 {
						t.Errorf("%s percent = %v, want 50", id, pct)
					}
				}
			},
		},
		{
			name:   "same mode copies values",
			values: map[string]float64{"alice": 60, "bob": 40},
			from:   models.SplitPercent,
			to:     models.SplitPercent,
			total:  10.00,
			validateFunc: func(t *testing.T, out map[string]float64) {
				if out["alice"] != 60 || out["bob"] != 40 {
					t.Errorf("values changed on same-mode conversion: %v", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Convert(tt.values, tt.from, tt.to, tt.total, tt.participants)
			if err != nil {
				t.Fatalf("Convert() failed: %v", err)
			}
			tt.validateFunc(t, out)
		})
	}
}
