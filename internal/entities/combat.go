package entities

// CombatResult is the outcome of a single resolved attack. It is emitted
// both for local predictions and for authority confirmations.
type CombatResult struct {
	Damage     int  `json:"damage"`
	IsCrit     bool `json:"is_crit"`
	TargetDied bool `json:"target_died"`
}

// CombatOutcome is the terminal result of an encounter.
type CombatOutcome string

// Combat outcomes
const (
	OutcomeVictory CombatOutcome = "player_victory"
	OutcomeDefeat  CombatOutcome = "player_defeat"
	OutcomeFled    CombatOutcome = "fled"
)
