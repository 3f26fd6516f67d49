package utils

import (
	"encoding"
	"encoding/json"
	"errors"
	"maps"

	"github.com/NethermindEth/accountcheck/core/felt"
	"github.com/spf13/pflag"
)

var ErrUnknownNetwork = errors.New("unknown network (known: mainnet-alpha, sepolia-alpha, custom)")

type Network int

// The following are necessary for Cobra and Viper, respectively, to unmarshal network
// CLI/config parameters properly.
var (
	_ pflag.Value              = (*Network)(nil)
	_ encoding.TextUnmarshaler = (*Network)(nil)
)

const (
	MainnetAlpha Network = iota + 1
	SepoliaAlpha
	Custom
)

func (n Network) String() string {
	switch n {
	case MainnetAlpha:
		return "mainnet-alpha"
	case SepoliaAlpha:
		return "sepolia-alpha"
	case Custom:
		return "custom"
	default:
		// Should not happen.
		panic(ErrUnknownNetwork)
	}
}

func (n Network) MarshalYAML() (any, error) {
	return n.String(), nil
}

func (n *Network) MarshalJSON() ([]byte, error) {
	return json.RawMessage(`"` + n.String() + `"`), nil
}

func (n *Network) Set(s string) error {
	switch s {
	case "MAINNET", "mainnet", "mainnet-alpha", "MAINNET_ALPHA":
		*n = MainnetAlpha
	case "SEPOLIA", "sepolia", "sepolia-alpha", "SEPOLIA_ALPHA":
		*n = SepoliaAlpha
	case "CUSTOM", "custom":
		*n = Custom
	default:
		return ErrUnknownNetwork
	}
	return nil
}

func (n *Network) Type() string {
	return "Network"
}

func (n *Network) UnmarshalText(text []byte) error {
	return n.Set(string(text))
}

func (n Network) ChainIDString() string {
	switch n {
	case MainnetAlpha:
		return "SN_MAIN"
	case SepoliaAlpha:
		return "SN_SEPOLIA"
	default:
		return ""
	}
}

func (n Network) ChainID() *felt.Felt {
	return new(felt.Felt).SetBytes([]byte(n.ChainIDString()))
}

// Endpoints maps networks to default node URLs. The zero value resolves nothing.
// An Endpoints value is never mutated after construction.
type Endpoints struct {
	urls map[Network]string
}

// DefaultEndpoints returns the public node URLs of the named networks.
// Custom networks have no default and must be given an explicit node URL.
func DefaultEndpoints() Endpoints {
	return NewEndpoints(map[Network]string{
		MainnetAlpha: "https://starknet-mainnet.public.blastapi.io",
		SepoliaAlpha: "https://free-rpc.nethermind.io/sepolia-juno",
	})
}

func NewEndpoints(urls map[Network]string) Endpoints {
	return Endpoints{urls: maps.Clone(urls)}
}

// Lookup returns the node URL of the network, if there is one.
func (e Endpoints) Lookup(n Network) (string, bool) {
	url, ok := e.urls[n]
	return url, ok && url != ""
}
