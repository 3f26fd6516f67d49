package checker

import (
	"fmt"

	"github.com/NethermindEth/accountcheck/core/felt"
	"github.com/fxamacker/cbor/v2"
)

// Kind tags the outcome of a classification.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindEOA
	KindWallet
	KindContract
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindEOA:
		return "eoa"
	case KindWallet:
		return "wallet"
	case KindContract:
		return "contract"
	case KindUnknown:
		return "unknown"
	default:
		return "unspecified"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for candidate := KindInvalid; candidate <= KindUnknown; candidate++ {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown result type %q", text)
}

func (k Kind) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(k.String())
}

func (k *Kind) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// Result is one of *Invalid, *EOA, *Wallet, *Contract or *Unknown.
type Result interface {
	Type() Kind
	// Success is false when the address could not be classified.
	Success() bool
	Message() string
	// Address is the normalised address, or the raw input when it is invalid.
	Address() string
	Report() Report

	isResult()
}

// Report is the flat, serialisable form of a Result.
type Report struct {
	Success   bool   `json:"success" yaml:"success"`
	Type      Kind   `json:"type" yaml:"type"`
	Message   string `json:"message" yaml:"message"`
	Address   string `json:"address" yaml:"address"`
	ClassHash string `json:"classHash,omitempty" yaml:"classHash,omitempty"`
	Vendor    string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Network   string `json:"network,omitempty" yaml:"network,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Invalid is returned for input that is not a well formed Starknet address.
type Invalid struct {
	input string
}

func (r *Invalid) Type() Kind      { return KindInvalid }
func (r *Invalid) Success() bool   { return false }
func (r *Invalid) Address() string { return r.input }
func (r *Invalid) isResult()       {}

func (r *Invalid) Message() string {
	return "Invalid address format: " + r.input + " does not match Starknet format"
}

func (r *Invalid) Report() Report {
	return Report{Type: r.Type(), Message: r.Message(), Address: r.input}
}

// EOA is returned for a valid address with no deployed class.
type EOA struct {
	input   string
	address string
	network string
}

func (r *EOA) Type() Kind      { return KindEOA }
func (r *EOA) Success() bool   { return true }
func (r *EOA) Address() string { return r.address }
func (r *EOA) Network() string { return r.network }
func (r *EOA) isResult()       {}

func (r *EOA) Message() string {
	return r.input + " has no deployed contract (likely EOA or counterfactual address)"
}

func (r *EOA) Report() Report {
	return Report{
		Success: true,
		Type:    r.Type(),
		Message: r.Message(),
		Address: r.address,
		Network: r.network,
	}
}

// Wallet is returned for an account contract, either recognised by its class
// hash or detected from its entry points.
type Wallet struct {
	address   string
	classHash felt.ClassHash
	vendor    string
	network   string
}

func (r *Wallet) Type() Kind                 { return KindWallet }
func (r *Wallet) Success() bool              { return true }
func (r *Wallet) Address() string            { return r.address }
func (r *Wallet) ClassHash() *felt.ClassHash { return &r.classHash }
func (r *Wallet) Network() string            { return r.network }
func (r *Wallet) isResult()                  {}

// Vendor returns the name of the known implementation, or "" when the wallet
// was detected from its entry points.
func (r *Wallet) Vendor() string { return r.vendor }

func (r *Wallet) Message() string {
	if r.vendor != "" {
		return "Detected " + r.vendor + " smart wallet"
	}
	return "Detected smart wallet (Class Hash: " + r.classHash.Canonical() + ")"
}

func (r *Wallet) Report() Report {
	return Report{
		Success:   true,
		Type:      r.Type(),
		Message:   r.Message(),
		Address:   r.address,
		ClassHash: r.classHash.Canonical(),
		Vendor:    r.vendor,
		Network:   r.network,
	}
}

// Contract is returned for a deployed class that is not an account.
type Contract struct {
	address   string
	classHash felt.ClassHash
	network   string
}

func (r *Contract) Type() Kind                 { return KindContract }
func (r *Contract) Success() bool              { return true }
func (r *Contract) Address() string            { return r.address }
func (r *Contract) ClassHash() *felt.ClassHash { return &r.classHash }
func (r *Contract) Network() string            { return r.network }
func (r *Contract) isResult()                  {}

func (r *Contract) Message() string {
	return "Detected regular contract (Class Hash: " + r.classHash.Canonical() + ")"
}

func (r *Contract) Report() Report {
	return Report{
		Success:   true,
		Type:      r.Type(),
		Message:   r.Message(),
		Address:   r.address,
		ClassHash: r.classHash.Canonical(),
		Network:   r.network,
	}
}

// Unknown is returned when the node could not be queried.
type Unknown struct {
	input   string
	address string
	network string
	err     string
}

func (r *Unknown) Type() Kind      { return KindUnknown }
func (r *Unknown) Success() bool   { return false }
func (r *Unknown) Address() string { return r.address }
func (r *Unknown) Network() string { return r.network }
func (r *Unknown) Err() string     { return r.err }
func (r *Unknown) isResult()       {}

func (r *Unknown) Message() string {
	return "Verification failed for " + r.input + ": " + r.err
}

func (r *Unknown) Report() Report {
	return Report{
		Type:    r.Type(),
		Message: r.Message(),
		Address: r.address,
		Network: r.network,
		Error:   r.err,
	}
}
