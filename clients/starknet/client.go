// Package starknet is a client for the subset of the Starknet JSON-RPC API
// needed to inspect deployed accounts.
package starknet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/NethermindEth/accountcheck/core/felt"
	"github.com/NethermindEth/accountcheck/utils"
	"github.com/ethereum/go-ethereum/rpc"
	pkgerrors "github.com/pkg/errors"
)

const (
	getClassHashAtMethod = "starknet_getClassHashAt"
	getClassMethod       = "starknet_getClass"
	specVersionMethod    = "starknet_specVersion"
	chainIDMethod        = "starknet_chainId"

	latestBlock = "latest"
	hexPrefix   = "0x"

	contractNotFoundCode  = 20
	classHashNotFoundCode = 28
)

var ErrClassHashNotFound = errors.New("class hash not found")

//go:generate mockgen -destination=../../mocks/mock_gateway.go -package=mocks github.com/NethermindEth/accountcheck/clients/starknet Gateway
type Gateway interface {
	// ClassHashAt returns the class hash of the contract deployed at addr, or
	// nil when nothing is deployed there.
	ClassHashAt(ctx context.Context, addr *felt.Address) (*felt.ClassHash, error)
	ClassByHash(ctx context.Context, classHash *felt.ClassHash) (*Class, error)
	SpecVersion(ctx context.Context) (string, error)
	// ChainID returns the short string encoded chain id, e.g. SN_MAIN.
	ChainID(ctx context.Context) (*felt.Felt, error)
}

// Client defines typed wrappers for the Starknet RPC API.
type Client struct {
	url      string
	c        *rpc.Client
	log      utils.SimpleLogger
	listener EventListener
}

var _ Gateway = (*Client)(nil)

// Dial connects a client to the given URL.
func Dial(rawURL string) (*Client, error) {
	return DialContext(context.Background(), rawURL)
}

func DialContext(ctx context.Context, rawURL string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return NewClient(rawURL, c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(rawURL string, c *rpc.Client) *Client {
	return &Client{
		url:      rawURL,
		c:        c,
		log:      utils.NewNopZapLogger(),
		listener: &SelectiveListener{},
	}
}

func (c *Client) WithLogger(log utils.SimpleLogger) *Client {
	c.log = log
	return c
}

func (c *Client) WithListener(l EventListener) *Client {
	c.listener = l
	return c
}

// URL returns the endpoint the client was dialled with.
func (c *Client) URL() string {
	return c.url
}

func (c *Client) Close() {
	c.c.Close()
}

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	start := time.Now()
	err := c.c.CallContext(ctx, result, method, args...)
	c.listener.OnResponse(method, err, time.Since(start))
	if err != nil {
		c.log.Debugw("RPC call failed", "method", method, "url", c.url, "err", err)
	}
	return err
}

// ClassHashAt treats an empty result, or one without the 0x prefix, as no
// deployment.
func (c *Client) ClassHashAt(ctx context.Context, addr *felt.Address) (*felt.ClassHash, error) {
	var raw string
	if err := c.call(ctx, &raw, getClassHashAtMethod, latestBlock, addr); err != nil {
		if hasErrorCode(err, contractNotFoundCode) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, getClassHashAtMethod)
	}

	if raw == "" || !strings.HasPrefix(raw, hexPrefix) {
		return nil, nil
	}
	classHash, err := felt.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "%s: malformed class hash %q", getClassHashAtMethod, raw)
	}
	if classHash.IsZero() {
		return nil, nil
	}
	return (*felt.ClassHash)(classHash), nil
}

func (c *Client) ClassByHash(ctx context.Context, classHash *felt.ClassHash) (*Class, error) {
	class := new(Class)
	if err := c.call(ctx, class, getClassMethod, latestBlock, classHash); err != nil {
		if hasErrorCode(err, classHashNotFoundCode) {
			return nil, pkgerrors.WithMessagef(ErrClassHashNotFound, "%s %s", getClassMethod, classHash)
		}
		return nil, pkgerrors.Wrap(err, getClassMethod)
	}
	return class, nil
}

func (c *Client) SpecVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.call(ctx, &version, specVersionMethod); err != nil {
		return "", pkgerrors.Wrap(err, specVersionMethod)
	}
	return version, nil
}

func (c *Client) ChainID(ctx context.Context) (*felt.Felt, error) {
	var chainID *felt.Felt
	if err := c.call(ctx, &chainID, chainIDMethod); err != nil {
		return nil, pkgerrors.Wrap(err, chainIDMethod)
	}
	if chainID == nil {
		return nil, pkgerrors.Errorf("%s: empty result", chainIDMethod)
	}
	return chainID, nil
}

func hasErrorCode(err error, code int) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == code
}
