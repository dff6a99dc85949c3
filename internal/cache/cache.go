// Package cache stores ranked match results keyed by a digest of the inputs that produced them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/talent-matcher/internal/matching"
	"github.com/jonathan/talent-matcher/internal/types"
)

// KeyPrefix namespaces every cache entry; bump the version when result fields change
const KeyPrefix = "match:v1:"

// DefaultTTL applies when Set is called with ttl == 0
const DefaultTTL = 15 * time.Minute

var (
	ErrNotFound   = errors.New("key not found in cache")
	ErrInvalidKey = errors.New("invalid cache key")
)

// ResultCache is implemented by every result store
type ResultCache interface {
	Get(ctx context.Context, key string) ([]types.MatchResult, error)
	Set(ctx context.Context, key string, results []types.MatchResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// keyMaterial is every input that can change the ranked output
type keyMaterial struct {
	Project    *types.ProjectRequirement `json:"project"`
	Candidates []types.TalentProfile     `json:"candidates"`
	Options    *types.MatchOptions       `json:"options,omitempty"`
	Weights    matching.Weights          `json:"weights"`
}

// Key derives a deterministic cache key from the engine inputs.
// Identical inputs always map to the same key; candidate order is significant.
func Key(project *types.ProjectRequirement, candidates []types.TalentProfile, opts *types.MatchOptions, weights matching.Weights) (string, error) {
	if project == nil {
		return "", ErrInvalidKey
	}

	data, err := json.Marshal(keyMaterial{
		Project:    project,
		Candidates: candidates,
		Options:    opts,
		Weights:    weights,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key material: %w", err)
	}

	sum := sha256.Sum256(data)
	return KeyPrefix + hex.EncodeToString(sum[:]), nil
}
