package game

// RuleError is a rejection raised by a state transition rule. Code is the
// stable identifier exposed on the wire; the message is free to change.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string { return e.Message }

var (
	ErrAgentNotAlive     = &RuleError{"AgentNotAlive", "agent is not alive"}
	ErrMovementCooldown  = &RuleError{"MovementCooldown", "movement is on cooldown"}
	ErrOutOfBounds       = &RuleError{"OutOfBounds", "agent is out of map bounds"}
	ErrInvalidTerrain    = &RuleError{"InvalidTerrain", "invalid terrain movement"}
	ErrBattleInProgress  = &RuleError{"BattleInProgress", "battle is currently in progress"}
	ErrBattleCooldown    = &RuleError{"BattleCooldown", "battle is on cooldown"}
	ErrBattleNotStarted  = &RuleError{"BattleNotStarted", "battle has not started yet"}
	ErrBattleStarted     = &RuleError{"BattleAlreadyStarted", "battle has already started"}
	ErrBattleNotReady    = &RuleError{"BattleNotReadyToResolve", "battle not ready to resolve"}
	ErrReentrancy        = &RuleError{"ReentrancyGuard", "reentrancy attempt detected"}
	ErrAllianceCooldown  = &RuleError{"AllianceCooldown", "alliance is on cooldown"}
	ErrInvalidPartner    = &RuleError{"InvalidAlliancePartner", "invalid alliance partner"}
	ErrAllianceExists    = &RuleError{"AllianceAlreadyExists", "an active alliance already exists"}
	ErrNoAllianceToBreak = &RuleError{"NoAllianceToBreak", "no active alliance to break"}
	ErrIgnoreCooldown    = &RuleError{"IgnoreCooldown", "ignore cooldown is still active"}
	ErrMaxAgentLimit     = &RuleError{"MaxAgentLimitReached", "maximum number of agents reached"}
	ErrAgentExists       = &RuleError{"AgentAlreadyExists", "agent already exists"}
	ErrNameTooLong       = &RuleError{"NameTooLong", "agent name is too long"}
	ErrGameNotActive     = &RuleError{"GameNotActive", "game is inactive"}
	ErrUnauthorized      = &RuleError{"Unauthorized", "unauthorized action"}
	ErrNotEnoughTokens   = &RuleError{"NotEnoughTokens", "not enough tokens for battle"}
	ErrInsufficientFunds = &RuleError{"InsufficientFunds", "insufficient funds provided"}
	ErrMaxStakeExceeded  = &RuleError{"MaxStakeExceeded", "stake amount exceeds maximum allowed"}
	ErrCooldownNotOver   = &RuleError{"CooldownNotOver", "must wait until cooldown ends"}
	ErrClaimCooldown     = &RuleError{"ClaimCooldown", "cannot claim rewards yet"}
	ErrNoRewardsToClaim  = &RuleError{"NoRewardsToClaim", "no rewards to claim"}
	ErrInsufficientRwd   = &RuleError{"InsufficientRewards", "insufficient rewards to complete this action"}
	ErrInvalidAmount     = &RuleError{"InvalidAmount", "invalid amount specified"}
	ErrInvalidBump       = &RuleError{"InvalidBump", "invalid bump"}
	ErrTokenTransfer     = &RuleError{"TokenTransferError", "invalid token transfer"}
)
