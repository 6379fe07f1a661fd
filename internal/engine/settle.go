package engine

import (
	"math"

	"github.com/tallyup/tallyup/internal/models"
)

// Settle computes a practical set of pairwise transfers that zero every
// balance, using greedy largest-pair matching: repeatedly pay the largest
// debt to the largest credit. Ties break by first appearance in the input,
// so identical inputs always yield identical transactions.
//
// For N participants with non-negligible balances the result has at most
// N−1 transactions. Greedy matching is not guaranteed to be minimal under
// every multi-way tie; every output still fully settles all balances.
// Residual drift below 0.01 is treated as settled.
func Settle(balances []models.ParticipantBalance) []models.Transaction {
	working := make([]float64, len(balances))
	for i, b := range balances {
		working[i] = b.Balance
	}

	var txs []models.Transaction
	for {
		debtor, creditor := -1, -1
		for i, bal := range working {
			if bal < -AmountEpsilon && (debtor == -1 || bal < working[debtor]) {
				debtor = i
			}
			if bal > AmountEpsilon && (creditor == -1 || bal > working[creditor]) {
				creditor = i
			}
		}
		if debtor == -1 || creditor == -1 {
			break
		}

		amount := math.Min(-working[debtor], working[creditor])
		txs = append(txs, models.Transaction{
			FromParticipantID: balances[debtor].ParticipantID,
			ToParticipantID:   balances[creditor].ParticipantID,
			Amount:            amount,
		})
		working[debtor] += amount
		working[creditor] -= amount
	}

	return txs
}
