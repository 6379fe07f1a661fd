package engine

import (
	"fmt"
	"math"

	"github.com/tallyup/tallyup/internal/models"
)

// Snapshot is the immutable input of one calculation pass. The engine never
// mutates it; the surrounding application owns mutation and re-invokes the
// engine on every relevant change. Participant order is significant: it
// fixes the order of output balances and settlement tie-breaking.
type Snapshot struct {
	Participants []models.Participant
	Items        []models.LineItem
	Receipts     []models.Receipt
	Settlements  []models.Settlement
}

// Aggregate turns a snapshot into per-participant balances and an aggregate
// breakdown. Strategies apply in a fixed order — exclude, proportional,
// equal-split, track-separate, track-only — because the proportional pass
// depends on merchandise shares being complete.
//
// Identical snapshots always produce identical output.
func Aggregate(snap Snapshot) (models.Summary, error) {
	order, index := participantOrder(snap)

	merchShare := make(map[string]float64, len(order))
	paid := make(map[string]float64, len(order))
	var bd models.Breakdown

	// Receipt-level tax behaves like an excluded tax line, receipt-level
	// tip like an equal-split tip line.
	for _, r := range snap.Receipts {
		bd.ExcludedTotal += r.TaxAmount
		bd.TipTotal += r.TipAmount
	}

	// Pass 1: partition lines and accumulate merchandise shares and the
	// special-line sums for the later passes.
	for _, item := range allItems(snap) {
		total := item.Total()
		cls := Classify(item.CategoryID)
		if cls.Merchandise {
			bd.MerchandiseSubtotal += total
			shares, err := Shares(total, item.Assignment)
			if err != nil {
				return models.Summary{}, fmt.Errorf("item %q: %w", item.ID, err)
			}
			for id, share := range shares {
				if _, known := index[id]; !known {
					// Assignments referencing unknown participants are a
					// snapshot defect; surface it instead of losing money.
					return models.Summary{}, fmt.Errorf("item %q: unknown participant %q", item.ID, id)
				}
				merchShare[id] += share
			}
			continue
		}

		switch cls.Strategy {
		case StrategyExclude:
			bd.ExcludedTotal += total
		case StrategySplitProportional:
			bd.DiscountTotal += total
		case StrategySplitEqual:
			if item.CategoryID == models.CategoryTip {
				bd.TipTotal += total
			} else {
				bd.FeeTotal += total
			}
		case StrategyTrackSeparate:
			bd.NetDeposits += total
		case StrategyTrackOnly:
			bd.TrackOnlyTotal += total
		}
	}

	// Pass 2: proportional distribution. With a zero merchandise subtotal
	// the ratio is undefined; the discount is withheld from all balances and
	// reported as unallocated rather than dropped silently.
	discount := bd.DiscountTotal
	if math.Abs(bd.MerchandiseSubtotal) < AmountEpsilon && math.Abs(discount) >= AmountEpsilon {
		bd.UnallocatedDiscount = discount
		bd.DiscountTotal = 0
		discount = 0
	}

	// Pass 3: equal split of tips, fees, shipping and rounding across every
	// participant, regardless of item assignment. With nobody to carry the
	// pool it is withheld and reported, same as an unallocatable discount.
	equalPool := bd.TipTotal + bd.FeeTotal
	var equalShare float64
	switch {
	case len(order) > 0:
		equalShare = equalPool / float64(len(order))
	case math.Abs(equalPool) >= AmountEpsilon:
		bd.UnallocatedEqualSplit = equalPool
		bd.TipTotal = 0
		bd.FeeTotal = 0
		equalPool = 0
	}

	bd.GrandTotal = bd.MerchandiseSubtotal + discount + equalPool

	// Amount paid: charged receipt totals for the payer, adjusted by
	// recorded settlements.
	for _, r := range snap.Receipts {
		if r.PayerID == "" {
			continue
		}
		paid[r.PayerID] += r.ChargedTotal()
	}
	for _, s := range snap.Settlements {
		paid[s.FromParticipantID] += s.Amount
		paid[s.ToParticipantID] -= s.Amount
	}

	balances := make([]models.ParticipantBalance, 0, len(order))
	for _, id := range order {
		share := merchShare[id]
		cost := share + equalShare
		// A discount at or above epsilon implies the subtotal survived the
		// pass-2 guard, so the division is safe.
		if math.Abs(discount) >= AmountEpsilon {
			cost += share * (discount / bd.MerchandiseSubtotal)
		}
		balances = append(balances, models.ParticipantBalance{
			ParticipantID: id,
			TotalCost:     cost,
			AmountPaid:    paid[id],
			Balance:       paid[id] - cost,
		})
	}

	checks := make([]models.ReceiptCheck, 0, len(snap.Receipts))
	for _, r := range snap.Receipts {
		if r.ScannedTotal == 0 {
			continue
		}
		computed := computedReceiptTotal(r)
		delta := r.ScannedTotal - computed
		checks = append(checks, models.ReceiptCheck{
			ReceiptID:     r.ID,
			ComputedTotal: computed,
			ScannedTotal:  r.ScannedTotal,
			Delta:         delta,
			Matches:       math.Abs(delta) < AmountEpsilon,
		})
	}

	return models.Summary{Balances: balances, Breakdown: bd, Receipts: checks}, nil
}

// participantOrder returns participant ids in first-appearance order, which
// fixes output ordering. The companion index maps id to position and doubles
// as the known-participant set.
func participantOrder(snap Snapshot) ([]string, map[string]int) {
	order := make([]string, 0, len(snap.Participants))
	index := make(map[string]int, len(snap.Participants))
	add := func(id string) {
		if _, ok := index[id]; ok {
			return
		}
		index[id] = len(order)
		order = append(order, id)
	}
	for _, p := range snap.Participants {
		add(p.ID)
	}
	return order, index
}

// allItems flattens standalone items and receipt items into one pass.
// Receipts are an optional grouping; items behave identically either way.
func allItems(snap Snapshot) []models.LineItem {
	if len(snap.Receipts) == 0 {
		return snap.Items
	}
	items := make([]models.LineItem, 0, len(snap.Items))
	items = append(items, snap.Items...)
	for _, r := range snap.Receipts {
		items = append(items, r.Items...)
	}
	return items
}

// computedReceiptTotal recomputes what the receipt should have charged,
// ignoring any scanned total, for verification display.
func computedReceiptTotal(r models.Receipt) float64 {
	total := r.TaxAmount + r.TipAmount
	for _, it := range r.Items {
		if it.CategoryID == models.CategoryPayment {
			continue
		}
		total += it.Total()
	}
	return total
}
