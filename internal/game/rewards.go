package game

import (
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

var (
	miningBaseRate      = decimal.NewFromInt(7)
	farmingBaseRate     = decimal.NewFromInt(10)
	socialBaseRate      = decimal.NewFromInt(4)
	miningDifficultyCap = decimal.New(5, -1)
	miningPoolScale     = decimal.New(1, 13)
	socialBonusStep     = decimal.New(1, -1)
	socialBonusCap      = decimal.NewFromInt(2)
	secondsPerHourDec   = decimal.NewFromInt(secondsPerHour)
	maxAmount           = decimalFromAmount(^uint64(0))
	one                 = decimal.NewFromInt(1)
)

var farmingSeasons = [4]int64{30, 20, 10, 24}

func decimalFromAmount(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// MiningRate is the per-hour mining yield per token. Difficulty grows with
// the mining pool total and is capped at 50%.
func (p *PoolState) MiningRate() decimal.Decimal {
	difficulty := decimalFromAmount(p.MiningTotal).Div(miningPoolScale)
	if difficulty.GreaterThan(miningDifficultyCap) {
		difficulty = miningDifficultyCap
	}
	return miningBaseRate.Mul(one.Sub(difficulty))
}

// FarmingRate cycles through four seasons.
func (p *PoolState) FarmingRate() decimal.Decimal {
	return farmingBaseRate.Mul(decimal.NewFromInt(farmingSeasons[p.FarmingSeason%4]))
}

// TradingRate depends on the market state and is negative during a crash.
func (p *PoolState) TradingRate() decimal.Decimal {
	switch p.MarketState {
	case MarketCrash:
		return decimal.NewFromInt(-60)
	case MarketNormal:
		return decimal.NewFromInt(20)
	case MarketBoom:
		return decimal.NewFromInt(100)
	default:
		return decimal.Zero
	}
}

// SocialRate grows by 10% per participant up to a 3x multiplier.
func (p *PoolState) SocialRate() decimal.Decimal {
	bonus := decimal.NewFromInt(int64(p.SocialParticipants)).Mul(socialBonusStep)
	if bonus.GreaterThan(socialBonusCap) {
		bonus = socialBonusCap
	}
	return socialBaseRate.Mul(one.Add(bonus))
}

// activityReward returns floor(allocation * rate * elapsed / 3600). Negative
// results yield zero.
func activityReward(allocation uint64, rate decimal.Decimal, elapsed int64) (uint64, error) {
	if allocation == 0 || elapsed <= 0 {
		return 0, nil
	}
	product := decimalFromAmount(allocation).Mul(rate).Mul(decimal.NewFromInt(elapsed))
	if !product.IsPositive() {
		return 0, nil
	}
	reward, _ := product.QuoRem(secondsPerHourDec, 0)
	if !reward.IsPositive() {
		return 0, nil
	}
	if reward.GreaterThan(maxAmount) {
		return 0, ErrMathOverflow
	}
	return reward.BigInt().Uint64(), nil
}

// accruedRewards sums the floored per-activity rewards for elapsed seconds.
func accruedRewards(alloc Allocations, pool *PoolState, elapsed int64) (uint64, error) {
	parts := []struct {
		amount uint64
		rate   decimal.Decimal
	}{
		{alloc.Mining, pool.MiningRate()},
		{alloc.Farming, pool.FarmingRate()},
		{alloc.Trading, pool.TradingRate()},
		{alloc.Social, pool.SocialRate()},
	}
	var total uint64
	for _, part := range parts {
		reward, err := activityReward(part.amount, part.rate, elapsed)
		if err != nil {
			return 0, err
		}
		total, err = addAmount(total, reward)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Phase2Requirements derives the number of mini-games each player should play
// in Phase 2 and the cap on games against a single opponent.
func Phase2Requirements(maxPlayers int, phase2Duration int64) (required int, maxPerOpponent int) {
	base := 2
	if maxPlayers > 0 {
		base = bits.Len(uint(maxPlayers)) - 1 + 2
	}
	// multiplier in tenths
	multiplier := 8
	switch {
	case phase2Duration >= 4*secondsPerHour:
		multiplier = 12
	case phase2Duration >= 2*secondsPerHour:
		multiplier = 10
	}
	required = base * multiplier / 10
	required = max(required, MinPhase2Games)
	required = min(required, MaxPhase2Games)

	switch {
	case maxPlayers <= 5:
		maxPerOpponent = 2
	case maxPlayers <= 20:
		maxPerOpponent = 3
	case maxPlayers <= 50:
		maxPerOpponent = 2
	default:
		maxPerOpponent = 1
	}
	return required, maxPerOpponent
}

// minimumGames is ceil(required * 0.8).
func minimumGames(required int) int {
	return (required*8 + 9) / 10
}
