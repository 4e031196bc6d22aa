// Package token is the in-process token ledger: mints and holding accounts
// addressed the same deterministic way as program state. Vaults are plain
// accounts owned by the program.
package token

import (
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrInsufficientFunds = errors.New("insufficient token balance")
	ErrSupplyOverflow    = errors.New("token amount overflow")
	ErrMintMismatch      = errors.New("token accounts belong to different mints")
	ErrSameAccount       = errors.New("transfer source and destination are the same account")
)

type Mint struct {
	Address       solana.PublicKey `json:"address"`
	MintAuthority solana.PublicKey `json:"mint_authority"`
	Supply        uint64           `json:"supply"`
	Decimals      uint8            `json:"decimals"`
	Version       int64            `json:"version"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type Account struct {
	Address   solana.PublicKey `json:"address"`
	Mint      solana.PublicKey `json:"mint"`
	Owner     solana.PublicKey `json:"owner"`
	Amount    uint64           `json:"amount"`
	Version   int64            `json:"version"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Transfer moves amount between two accounts of the same mint.
func Transfer(from, to *Account, amount uint64) error {
	if from.Address == to.Address {
		return ErrSameAccount
	}
	if from.Mint != to.Mint {
		return ErrMintMismatch
	}
	if from.Amount < amount {
		return ErrInsufficientFunds
	}
	next := to.Amount + amount
	if next < to.Amount {
		return ErrSupplyOverflow
	}
	from.Amount -= amount
	to.Amount = next
	return nil
}

// MintTo issues fresh supply into dest.
func (m *Mint) MintTo(dest *Account, amount uint64) error {
	if dest.Mint != m.Address {
		return ErrMintMismatch
	}
	supply := m.Supply + amount
	if supply < m.Supply {
		return ErrSupplyOverflow
	}
	next := dest.Amount + amount
	if next < dest.Amount {
		return ErrSupplyOverflow
	}
	m.Supply = supply
	dest.Amount = next
	return nil
}
