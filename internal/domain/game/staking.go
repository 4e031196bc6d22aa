package game

import "math/big"

// Share accounting over an agent vault. Deposits mint shares, withdrawals
// burn them, and the vault balance floats with battle outcomes, so a share
// is a proportional claim rather than a fixed token amount. Intermediate
// products of two u64 values need 128 bits, hence math/big.

// SharesForDeposit returns the shares minted for a deposit, given the vault
// balance after the transfer and the shares outstanding before it. The
// first deposit (or a deposit into a vault drained to zero) mints one share
// per token; later deposits mint proportionally, rounded down.
func SharesForDeposit(deposit, vaultAfter, totalShares uint64) (uint64, error) {
	if deposit == 0 {
		return 0, ErrInvalidAmount
	}
	if vaultAfter == deposit || totalShares == 0 {
		return deposit, nil
	}
	prevBalance := vaultAfter - deposit
	return mulDiv(deposit, totalShares, prevBalance)
}

// SharesForWithdrawal converts a token amount into shares to burn, rounded
// up so that redeeming them releases at least the requested amount.
func SharesForWithdrawal(amount, vaultBalance, totalShares uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	if vaultBalance == 0 || totalShares == 0 || amount > vaultBalance {
		return 0, ErrInsufficientFunds
	}
	return mulDivCeil(amount, totalShares, vaultBalance)
}

// StakeReward is the staker's cut of one daily distribution, proportional
// to their share of everything staked on the game, rounded down.
func StakeReward(stakeAmount, dailyRewardTokens, totalStaked uint64) (uint64, error) {
	if stakeAmount == 0 || totalStaked == 0 {
		return 0, nil
	}
	return mulDiv(stakeAmount, dailyRewardTokens, totalStaked)
}

// sharePriceScale is 10^TokenDecimals, so a price of exactly this value
// means one share redeems one whole token base unit times 10^decimals.
const sharePriceScale uint64 = 1_000_000_000

// SharePrice reports the redemption value of one share scaled by
// sharePriceScale, rounded down. A vault with no shares outstanding
// prices at par.
func SharePrice(vaultBalance, totalShares uint64) (uint64, error) {
	if totalShares == 0 {
		return sharePriceScale, nil
	}
	return mulDiv(vaultBalance, sharePriceScale, totalShares)
}

// ShareValue is what a share position would redeem for at the current
// vault balance, rounded down.
func ShareValue(shares, vaultBalance, totalShares uint64) (uint64, error) {
	if shares == 0 || totalShares == 0 {
		return 0, nil
	}
	return mulDiv(shares, vaultBalance, totalShares)
}

func mulDiv(a, b, denominator uint64) (uint64, error) {
	if denominator == 0 {
		return 0, ErrNotEnoughTokens
	}
	product := new(big.Int).SetUint64(a)
	product.Mul(product, new(big.Int).SetUint64(b))
	product.Quo(product, new(big.Int).SetUint64(denominator))
	if !product.IsUint64() {
		return 0, ErrNotEnoughTokens
	}
	return product.Uint64(), nil
}

func mulDivCeil(a, b, denominator uint64) (uint64, error) {
	if denominator == 0 {
		return 0, ErrNotEnoughTokens
	}
	product := new(big.Int).SetUint64(a)
	product.Mul(product, new(big.Int).SetUint64(b))
	quo, rem := new(big.Int).QuoRem(product, new(big.Int).SetUint64(denominator), new(big.Int))
	if rem.Sign() > 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if !quo.IsUint64() {
		return 0, ErrNotEnoughTokens
	}
	return quo.Uint64(), nil
}
