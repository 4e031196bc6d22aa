// Package model holds the persistence rows for program accounts. Balances
// are signed bigints in postgres; the token supply stays far below the
// sign bit, so the uint64 domain values round-trip through int64 casts.
package model

import "time"

type Game struct {
	Address            string `gorm:"primaryKey"`
	GameID             int64
	Authority          string
	TokenMint          string
	RewardsVault       string
	MapDiameter        int32
	BattleRange        int32
	IsActive           bool
	LastUpdate         int64
	ReentrancyGuard    bool
	Bump               int16
	DailyRewardTokens  int64
	Agents             []byte `gorm:"type:jsonb"`
	TotalStakeAccounts []byte `gorm:"type:jsonb"`
	Version            int64
	UpdatedAt          time.Time
}

func (Game) TableName() string { return "games" }

type Agent struct {
	Address            string `gorm:"primaryKey"`
	GameAddress        string `gorm:"index"`
	Authority          string
	AgentID            int16
	X                  int32
	Y                  int32
	IsAlive            bool
	LastMove           int64
	NextMoveTime       int64
	LastBattle         int64
	LastAttack         int64
	CurrentBattleStart *int64
	AllianceWith       *string
	AllianceTimestamp  int64
	LastAlliance       int64
	LastAllianceAgent  *string
	LastAllianceBroken int64
	LastIgnore         int64
	IgnoreCooldowns    []byte `gorm:"type:jsonb"`
	TokenBalance       int64
	StakedBalance      int64
	TotalShares        int64
	LastRewardClaim    int64
	VaultBump          int16
	Version            int64
	UpdatedAt          time.Time
}

func (Agent) TableName() string { return "agents" }

type StakeInfo struct {
	Address             string `gorm:"primaryKey"`
	AgentAddress        string `gorm:"index"`
	Staker              string
	Amount              int64
	Shares              int64
	LastRewardTimestamp int64
	CooldownEndsAt      int64
	IsInitialized       bool
	Version             int64
	UpdatedAt           time.Time
}

func (StakeInfo) TableName() string { return "stake_infos" }

type TokenMint struct {
	Address       string `gorm:"primaryKey"`
	MintAuthority string
	Supply        int64
	Decimals      int16
	Version       int64
	UpdatedAt     time.Time
}

func (TokenMint) TableName() string { return "token_mints" }

type TokenAccount struct {
	Address   string `gorm:"primaryKey"`
	Mint      string
	Owner     string `gorm:"index"`
	Amount    int64
	Version   int64
	UpdatedAt time.Time
}

func (TokenAccount) TableName() string { return "token_accounts" }

type DomainEvent struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	GameAddress string `gorm:"index"`
	Type        string
	OccurredAt  time.Time
	Payload     []byte `gorm:"type:jsonb"`
}

func (DomainEvent) TableName() string { return "domain_events" }

type InstructionRecord struct {
	Seq         int64  `gorm:"primaryKey;autoIncrement"`
	TxID        string `gorm:"uniqueIndex"`
	GameAddress string `gorm:"index"`
	Instruction string
	Signer      string
	Args        []byte `gorm:"type:jsonb"`
	AppliedAt   time.Time
}

func (InstructionRecord) TableName() string { return "instruction_records" }
