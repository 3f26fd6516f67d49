package starknet

import "github.com/NethermindEth/accountcheck/core/felt"

// https://github.com/starkware-libs/starknet-specs/blob/v0.7.1/api/starknet_api_openrpc.json
type Class struct {
	SierraProgram        []*felt.Felt `json:"sierra_program,omitempty"`
	Program              string       `json:"program,omitempty"`
	ContractClassVersion string       `json:"contract_class_version,omitempty"`
	EntryPoints          EntryPoints  `json:"entry_points_by_type"`
	Abi                  any          `json:"abi,omitempty"`
}

type EntryPoints struct {
	Constructor []EntryPoint `json:"CONSTRUCTOR"`
	External    []EntryPoint `json:"EXTERNAL"`
	L1Handler   []EntryPoint `json:"L1_HANDLER"`
}

type EntryPoint struct {
	Index    *uint64    `json:"function_idx,omitempty"`
	Offset   *felt.Felt `json:"offset,omitempty"`
	Selector *felt.Felt `json:"selector"`
}

// IsSierra reports whether the class is a Cairo 1 class.
func (c *Class) IsSierra() bool {
	return len(c.SierraProgram) > 0
}

// HasExternal reports whether the class exposes an external entry point with the given selector.
func (c *Class) HasExternal(selector *felt.Felt) bool {
	for _, ep := range c.EntryPoints.External {
		if ep.Selector != nil && ep.Selector.Equal(selector) {
			return true
		}
	}
	return false
}
