package game

import (
	"math/bits"
	"strconv"
)

func addAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

func subAmount(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathUnderflow
	}
	return diff, nil
}

func mulAmount(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrMathOverflow
	}
	return lo, nil
}

// percentOf returns floor(amount * percent / 100) without intermediate overflow.
func percentOf(amount, percent uint64) (uint64, error) {
	hi, lo := bits.Mul64(amount, percent)
	if hi >= 100 {
		return 0, ErrMathOverflow
	}
	quo, _ := bits.Div64(hi, lo, 100)
	return quo, nil
}

// escrow moves an entry fee into the game's custody.
func escrow(game *Game, amount uint64) error {
	pool, err := addAmount(game.PrizePool, amount)
	if err != nil {
		return err
	}
	total, err := addAmount(game.TotalEscrowed, amount)
	if err != nil {
		return err
	}
	game.PrizePool = pool
	game.TotalEscrowed = total
	return nil
}

// release pays amount out of the game's escrow and records the payout on tx.
// Callers check and set their own claimed flag around it.
func (tx *Tx) release(game *Game, recipient string, amount uint64, kind PayoutKind) error {
	if amount > game.PrizePool || amount > game.Escrow() {
		return ErrInsufficientEscrow.WithMetadata(map[string]string{
			"requested":  formatAmount(amount),
			"prize_pool": formatAmount(game.PrizePool),
		})
	}
	game.PrizePool -= amount
	game.TotalPaidOut += amount
	tx.payouts = append(tx.payouts, Payout{
		GameID:    game.ID,
		Recipient: recipient,
		Amount:    amount,
		Kind:      kind,
		PaidAt:    tx.now,
	})
	return nil
}

// Escrow is the difference between everything escrowed and everything paid.
func (g *Game) Escrow() uint64 {
	if g.TotalPaidOut > g.TotalEscrowed {
		return 0
	}
	return g.TotalEscrowed - g.TotalPaidOut
}

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}
