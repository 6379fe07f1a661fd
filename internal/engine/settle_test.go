package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/tallyup/tallyup/internal/models"
)

func balancesOf(pairs ...any) []models.ParticipantBalance {
	out := make([]models.ParticipantBalance, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.ParticipantBalance{
			ParticipantID: pairs[i].(string),
			Balance:       pairs[i+1].(float64),
		})
	}
	return out
}

// applyTransactions replays a settlement plan onto the balances and returns
// the residuals.
func applyTransactions(balances []models.ParticipantBalance, txs []models.Transaction) map[string]float64 {
	residual := make(map[string]float64, len(balances))
	for _, b := range balances {
		residual[b.ParticipantID] = b.Balance
	}
	for _, tx := range txs {
		residual[tx.FromParticipantID] += tx.Amount
		residual[tx.ToParticipantID] -= tx.Amount
	}
	return residual
}

func TestSettleTwoDebtorsOneCreditor(t *testing.T) {
	// A paid 30 but owed 10, B owes 15, C owes 5: exactly two payments.
	balances := balancesOf("A", 20.0, "B", -15.0, "C", -5.0)

	txs := Settle(balances)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d: %+v", len(txs), txs)
	}

	want := []models.Transaction{
		{FromParticipantID: "B", ToParticipantID: "A", Amount: 15.0},
		{FromParticipantID: "C", ToParticipantID: "A", Amount: 5.0},
	}
	if !reflect.DeepEqual(txs, want) {
		t.Errorf("transactions = %+v, want %+v", txs, want)
	}

	for id, residual := range applyTransactions(balances, txs) {
		if math.Abs(residual) > 0.01 {
			t.Errorf("%s residual balance = %v, want 0", id, residual)
		}
	}
}

func TestSettleProperties(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.ParticipantBalance
	}{
		{
			name:     "five participants",
			balances: balancesOf("A", 10.0, "B", 10.0, "C", -5.0, "D", -5.0, "E", -10.0),
		},
		{
			name:     "single pair",
			balances: balancesOf("A", -7.32, "B", 7.32),
		},
		{
			name:     "drift below tolerance",
			balances: balancesOf("A", 12.505, "B", -6.25, "C", -6.25),
		},
		{
			name:     "uneven chain",
			balances: balancesOf("A", 33.33, "B", -11.11, "C", -11.11, "D", -11.11),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := Settle(tt.balances)

			var nonZero int
			for _, b := range tt.balances {
				if math.Abs(b.Balance) > AmountEpsilon {
					nonZero++
				}
			}
			if len(txs) > nonZero-1 {
				t.Errorf("got %d transactions for %d unsettled participants, want at most %d",
					len(txs), nonZero, nonZero-1)
			}

			for id, residual := range applyTransactions(tt.balances, txs) {
				if math.Abs(residual) > 0.01 {
					t.Errorf("%s residual balance = %v, want 0", id, residual)
				}
			}

			for _, tx := range txs {
				if tx.Amount <= 0 {
					t.Errorf("transaction amount must be positive: %+v", tx)
				}
			}
		})
	}
}

func TestSettleAlreadyBalanced(t *testing.T) {
	if txs := Settle(balancesOf("A", 0.004, "B", -0.004)); len(txs) != 0 {
		t.Errorf("expected no transactions for drift-only balances, got %+v", txs)
	}
	if txs := Settle(nil); len(txs) != 0 {
		t.Errorf("expected no transactions for empty input, got %+v", txs)
	}
}

func TestSettleTieBreaksByInputOrder(t *testing.T) {
	// Both creditors are owed the same amount; the first in input order is
	// paid first. Rerunning must give the same plan.
	balances := balancesOf("A", 5.0, "B", 5.0, "C", -10.0)

	first := Settle(balances)
	second := Settle(balances)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("settlement plan differs between runs on identical input")
	}

	if len(first) != 2 {
		t.Fatalf("expected 2 transactions, got %+v", first)
	}
	if first[0].ToParticipantID != "A" {
		t.Errorf("first payment should go to A (first appearance), went to %s", first[0].ToParticipantID)
	}
}
