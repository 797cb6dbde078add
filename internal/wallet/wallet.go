// Package wallet defines the boundary to the wallet collaborator. The
// report service only reads key listings and state snapshots; wallet
// creation and signing live outside this process.
package wallet

// KeyState describes a single generated key inside a scenario wallet.
type KeyState struct {
	Name      string
	PublicKey string
	Index     int
}

// ScenarioState is the stored state of one scenario's wallet: its primary
// public key, the recovery phrase and every generated key by public key.
type ScenarioState struct {
	PublicKey      string
	RecoveryPhrase string
	Keys           map[string]KeyState
}

// State maps scenario names to their wallet state.
type State map[string]ScenarioState

// Wallet is the read-side interface the report service consumes.
type Wallet interface {
	// ListKeys returns the key name to public key mapping for a scenario.
	ListKeys(scenario string) (map[string]string, error)
	// StateSnapshot returns the current wallet state for all scenarios.
	StateSnapshot() (State, error)
}
