package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// stateFile mirrors the JSON layout written by the wallet tooling.
type stateFile struct {
	Wallets map[string]walletEntry `json:"wallets"`
}

type walletEntry struct {
	PublicKey      string              `json:"public_key"`
	RecoveryPhrase string              `json:"recovery_phrase"`
	Keys           map[string]keyEntry `json:"keys"`
}

type keyEntry struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key"`
	Index     int    `json:"index"`
}

// FileStore reads wallet state from the JSON state file maintained by the
// wallet tooling. The file is re-read on every snapshot so key generation
// by a sibling process is picked up without a restart.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the state file at path. The file
// does not have to exist yet; a missing file reads as an empty state.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// StateSnapshot implements Wallet.
func (s *FileStore) StateSnapshot() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return nil, fmt.Errorf("reading wallet state file %s: %w", s.path, err)
	}

	var file stateFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding wallet state file %s: %w", s.path, err)
	}

	state := make(State, len(file.Wallets))
	for scenario, entry := range file.Wallets {
		keys := make(map[string]KeyState, len(entry.Keys))
		for publicKey, key := range entry.Keys {
			keys[publicKey] = KeyState{
				Name:      key.Name,
				PublicKey: publicKey,
				Index:     key.Index,
			}
		}
		state[scenario] = ScenarioState{
			PublicKey:      entry.PublicKey,
			RecoveryPhrase: entry.RecoveryPhrase,
			Keys:           keys,
		}
	}

	return state, nil
}

// ListKeys implements Wallet by deriving the key name to public key mapping
// from the stored scenario state.
func (s *FileStore) ListKeys(scenario string) (map[string]string, error) {
	state, err := s.StateSnapshot()
	if err != nil {
		return nil, err
	}

	scenarioState, ok := state[scenario]
	if !ok {
		return map[string]string{}, nil
	}

	keys := make(map[string]string, len(scenarioState.Keys))
	for publicKey, key := range scenarioState.Keys {
		keys[key.Name] = publicKey
	}

	return keys, nil
}
