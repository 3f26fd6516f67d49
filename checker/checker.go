// Package checker classifies Starknet addresses as externally owned accounts,
// smart wallets or regular contracts by inspecting what is deployed at them.
package checker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/NethermindEth/accountcheck/clients/starknet"
	"github.com/NethermindEth/accountcheck/core/address"
	"github.com/NethermindEth/accountcheck/core/crypto"
	"github.com/NethermindEth/accountcheck/core/felt"
	"github.com/NethermindEth/accountcheck/registry"
	"github.com/NethermindEth/accountcheck/utils"
)

const (
	DefaultConcurrency = 4
	DefaultRetryDelay  = time.Second
)

// An account must expose both entry points.
var accountSelectors = []*felt.Felt{
	crypto.MustSelectorFromName("__execute__"),
	crypto.MustSelectorFromName("__validate__"),
}

type Options struct {
	// Network picks the default node endpoint. Defaults to mainnet-alpha.
	Network utils.Network
	// NodeURL overrides the endpoint of Network.
	NodeURL string
	// Gateway replaces the JSON-RPC client dialled from the resolved endpoint.
	Gateway starknet.Gateway
	// Endpoints overrides utils.DefaultEndpoints.
	Endpoints *utils.Endpoints
	// Registry overrides registry.Default.
	Registry *registry.Registry
	// Cache skips class fetches for classes seen before. Checker.Close closes
	// it when it implements io.Closer.
	Cache VerdictCache

	Silent   bool
	Logger   utils.SimpleLogger
	Listener EventListener
	// ClientListener instruments the client dialled by New.
	ClientListener starknet.EventListener

	MaxAttempts int
	Backoff     utils.Backoff
	Sleeper     utils.Sleeper
	Concurrency int
}

type Checker struct {
	gateway     starknet.Gateway
	owned       *starknet.Client
	registry    *registry.Registry
	cache       VerdictCache
	chain       utils.Network
	network     string
	endpoint    string
	log         utils.SimpleLogger
	listener    EventListener
	retry       []utils.RetryOption
	concurrency int
}

// New resolves the node endpoint and builds a Checker. The endpoint is taken
// from opts.NodeURL, then from opts.Gateway, then from the endpoint table.
// An unresolvable endpoint is reported as a *ConfigurationError.
func New(opts Options) (*Checker, error) {
	network := opts.Network
	if network == 0 {
		network = utils.MainnetAlpha
	}
	if network < utils.MainnetAlpha || network > utils.Custom {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("network %d", int(network)), Err: utils.ErrUnknownNetwork}
	}

	var log utils.SimpleLogger = utils.NewNopZapLogger()
	if opts.Logger != nil && !opts.Silent {
		log = opts.Logger
	}

	if utils.IsNil(opts.Gateway) {
		opts.Gateway = nil
	}

	c := &Checker{
		gateway:     opts.Gateway,
		registry:    opts.Registry,
		cache:       opts.Cache,
		chain:       network,
		network:     network.String(),
		log:         log,
		listener:    opts.Listener,
		concurrency: opts.Concurrency,
	}
	if c.registry == nil {
		c.registry = registry.Default()
	}
	if c.listener == nil {
		c.listener = &SelectiveListener{}
	}
	if c.concurrency <= 0 {
		c.concurrency = DefaultConcurrency
	}

	backoff := opts.Backoff
	if backoff == nil {
		backoff = utils.LinearBackoff(DefaultRetryDelay)
	}
	c.retry = []utils.RetryOption{
		utils.WithMaxAttempts(opts.MaxAttempts),
		utils.WithBackoff(backoff),
		utils.WithSleeper(opts.Sleeper),
	}

	c.endpoint = opts.NodeURL
	if c.endpoint == "" && c.gateway != nil {
		if u, ok := c.gateway.(interface{ URL() string }); ok {
			c.endpoint = u.URL()
		}
	}
	if c.endpoint == "" {
		endpoints := utils.DefaultEndpoints()
		if opts.Endpoints != nil {
			endpoints = *opts.Endpoints
		}
		c.endpoint, _ = endpoints.Lookup(network)
	}

	if c.gateway == nil {
		if c.endpoint == "" {
			return nil, &ConfigurationError{
				Reason: "no node URL for network " + network.String(),
				Err:    ErrInvalidNetworkConfig,
			}
		}
		client, err := starknet.Dial(c.endpoint)
		if err != nil {
			return nil, &ConfigurationError{Reason: "dial " + c.endpoint, Err: err}
		}
		c.owned = client.WithLogger(log)
		if opts.ClientListener != nil {
			c.owned = c.owned.WithListener(opts.ClientListener)
		}
		c.gateway = c.owned
	}
	return c, nil
}

// Endpoint returns the resolved node URL. It may be empty when a Gateway
// without a URL was supplied.
func (c *Checker) Endpoint() string {
	return c.endpoint
}

func (c *Checker) Network() string {
	return c.network
}

func (c *Checker) Registry() *registry.Registry {
	return c.registry
}

// Close releases the client dialled by New, if any, and the verdict cache.
func (c *Checker) Close() {
	if c.owned != nil {
		c.owned.Close()
	}
	if closer, ok := c.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.log.Warnw("Failed to close verdict cache", "err", err)
		}
	}
}

func (c *Checker) retryOptions(name string) []utils.RetryOption {
	return append(c.retry[:len(c.retry):len(c.retry)], utils.WithRetryLogger(c.log, name))
}

// Classify reports what is deployed at the given address. Node failures are
// retried and then reported as an *Unknown result, never as an error.
func (c *Checker) Classify(ctx context.Context, raw string) (result Result) {
	start := time.Now()
	defer func() {
		c.listener.OnClassified(result.Type(), time.Since(start))
	}()

	addr, normalised, err := address.Parse(raw)
	if err != nil {
		c.log.Debugw("Rejected address", "address", raw, "err", err)
		return &Invalid{input: raw}
	}

	defer func() {
		if p := recover(); p != nil {
			result = c.unknown(raw, normalised, fmt.Errorf("%v", p))
		}
	}()

	c.log.Debugw("Checking address", "address", normalised, "network", c.network)

	classHash, err := utils.Retry(ctx, func(ctx context.Context) (*felt.ClassHash, error) {
		return c.gateway.ClassHashAt(ctx, addr)
	}, c.retryOptions("ClassHashAt")...)
	if err != nil {
		return c.unknown(raw, normalised, err)
	}
	if classHash == nil || classHash.IsZero() {
		return &EOA{input: raw, address: normalised, network: c.network}
	}

	if vendor, ok := c.registry.Lookup(classHash); ok {
		return &Wallet{address: normalised, classHash: *classHash, vendor: vendor, network: c.network}
	}

	account, err := c.isAccountClass(ctx, classHash)
	if err != nil {
		return c.unknown(raw, normalised, err)
	}
	if account {
		return &Wallet{address: normalised, classHash: *classHash, network: c.network}
	}
	return &Contract{address: normalised, classHash: *classHash, network: c.network}
}

// isAccountClass consults the verdict cache before fetching the class. Cache
// failures are logged and never change the outcome.
func (c *Checker) isAccountClass(ctx context.Context, classHash *felt.ClassHash) (bool, error) {
	if c.cache != nil {
		account, found, err := c.cache.Verdict(classHash)
		if err != nil {
			c.log.Warnw("Failed to read verdict cache", "classHash", classHash.String(), "err", err)
		} else if found {
			return account, nil
		}
	}

	class, err := utils.Retry(ctx, func(ctx context.Context) (*starknet.Class, error) {
		return c.gateway.ClassByHash(ctx, classHash)
	}, c.retryOptions("ClassByHash")...)
	if err != nil {
		return false, err
	}
	if class != nil {
		c.log.Debugw("Fetched class", "classHash", classHash.String(), "sierra", class.IsSierra(),
			"externals", len(class.EntryPoints.External))
	}

	account := isAccount(class)
	// a missing class is not a verdict
	if class != nil && c.cache != nil {
		if err := c.cache.StoreVerdict(classHash, account); err != nil {
			c.log.Warnw("Failed to store verdict", "classHash", classHash.String(), "err", err)
		}
	}
	return account, nil
}

func (c *Checker) unknown(raw, normalised string, err error) *Unknown {
	c.log.Warnw("Failed to classify address", "address", normalised, "err", err)
	return &Unknown{input: raw, address: normalised, network: c.network, err: err.Error()}
}

func isAccount(class *starknet.Class) bool {
	if class == nil {
		return false
	}
	for _, selector := range accountSelectors {
		if !class.HasExternal(selector) {
			return false
		}
	}
	return true
}
