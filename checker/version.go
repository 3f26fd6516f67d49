package checker

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/NethermindEth/accountcheck/utils"
)

// SupportedSpecVersions is the range of JSON-RPC spec versions whose
// starknet_getClassHashAt and starknet_getClass responses are understood.
var SupportedSpecVersions = mustConstraint(">= 0.6.0")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// CheckNodeVersion returns the spec version of the node, or an error wrapping
// ErrUnsupportedSpecVersion when it is outside SupportedSpecVersions.
func (c *Checker) CheckNodeVersion(ctx context.Context) (*semver.Version, error) {
	raw, err := utils.Retry(ctx, c.gateway.SpecVersion, c.retryOptions("SpecVersion")...)
	if err != nil {
		return nil, err
	}

	version, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("parse spec version %q: %w", raw, err)
	}
	if !SupportedSpecVersions.Check(version) {
		return version, fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSpecVersion, version, SupportedSpecVersions)
	}
	return version, nil
}

// CheckChainID returns an error wrapping ErrWrongNetwork when the node serves
// another chain than the configured network. Custom networks accept any chain.
func (c *Checker) CheckChainID(ctx context.Context) error {
	expected := c.chain.ChainIDString()
	if expected == "" {
		return nil
	}

	chainID, err := utils.Retry(ctx, c.gateway.ChainID, c.retryOptions("ChainID")...)
	if err != nil {
		return err
	}
	if chainID == nil || !chainID.Equal(c.chain.ChainID()) {
		return fmt.Errorf("%w: %s expects %s, node reports %s", ErrWrongNetwork, c.network, expected, chainID)
	}
	return nil
}
