package starknet_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/NethermindEth/accountcheck/clients/starknet"
	"github.com/NethermindEth/accountcheck/core/crypto"
	"github.com/NethermindEth/accountcheck/core/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	Version string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// handlerFunc answers a single JSON-RPC method call with either a result or an error.
type handlerFunc func(req rpcRequest) (any, *rpcError)

func newNode(t *testing.T, handler handlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		result, rpcErr := handler(req)
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(rpcResponse{
			Version: "2.0",
			ID:      req.ID,
			Result:  result,
			Error:   rpcErr,
		}))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *starknet.Client {
	t.Helper()

	client, err := starknet.DialContext(t.Context(), srv.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

var (
	testAddress   = (*felt.Address)(felt.NewUnsafeFromString("0x0554b4a27e6ba1e00a01deebdf486c9c0e7bffc5074f67dfbb79bbf011162a62"))
	testClassHash = (*felt.ClassHash)(felt.NewUnsafeFromString("0x029927c8af6bccf3f6fda035981e765a7bdbf18a2dc0d630494f8758aa908e2b"))
)

func TestClassHashAt(t *testing.T) {
	t.Run("deployed contract", func(t *testing.T) {
		var got rpcRequest
		srv := newNode(t, func(req rpcRequest) (any, *rpcError) {
			got = req
			return testClassHash.String(), nil
		})

		classHash, err := dial(t, srv).ClassHashAt(t.Context(), testAddress)
		require.NoError(t, err)
		require.NotNil(t, classHash)
		assert.True(t, classHash.Equal(testClassHash))

		assert.Equal(t, "starknet_getClassHashAt", got.Method)
		require.Len(t, got.Params, 2)
		assert.JSONEq(t, `"latest"`, string(got.Params[0]))
		assert.JSONEq(t, `"`+testAddress.String()+`"`, string(got.Params[1]))
	})

	t.Run("contract not found means nothing is deployed", func(t *testing.T) {
		srv := newNode(t, func(rpcRequest) (any, *rpcError) {
			return nil, &rpcError{Code: 20, Message: "Contract not found"}
		})

		classHash, err := dial(t, srv).ClassHashAt(t.Context(), testAddress)
		require.NoError(t, err)
		assert.Nil(t, classHash)
	})

	t.Run("zero class hash means nothing is deployed", func(t *testing.T) {
		srv := newNode(t, func(rpcRequest) (any, *rpcError) {
			return "0x0", nil
		})

		classHash, err := dial(t, srv).ClassHashAt(t.Context(), testAddress)
		require.NoError(t, err)
		assert.Nil(t, classHash)
	})

	t.Run("results without a hex prefix mean nothing is deployed", func(t *testing.T) {
		for _, result := range []string{"", "1234", "none"} {
			srv := newNode(t, func(rpcRequest) (any, *rpcError) {
				return result, nil
			})

			classHash, err := dial(t, srv).ClassHashAt(t.Context(), testAddress)
			require.NoError(t, err, result)
			assert.Nil(t, classHash, result)
		}
	})

	t.Run("malformed hex result is an error", func(t *testing.T) {
		srv := newNode(t, func(rpcRequest) (any, *rpcError) {
			return "0xnothex", nil
		})

		classHash, err := dial(t, srv).ClassHashAt(t.Context(), testAddress)
		require.Error(t, err)
		assert.Nil(t, classHash)
		assert.Contains(t, err.Error(), "malformed class hash")
	})

	t.Run("other rpc errors are returned", func(t *testing.T) {
		srv := newNode(t, func(rpcRequest) (any, *rpcError) {
			return nil, &rpcError{Code: 24, Message: "Block not found"}
		})

		classHash, err := dial(t, srv).ClassHashAt(t.Context(), testAddress)
		require.Error(t, err)
		assert.Nil(t, classHash)
		assert.Contains(t, err.Error(), "starknet_getClassHashAt")
		assert.Contains(t, err.Error(), "Block not found")
	})

	t.Run("http errors are returned", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		_, err := dial(t, srv).ClassHashAt(t.Context(), testAddress)
		require.Error(t, err)
	})
}

func TestClassByHash(t *testing.T) {
	execute := crypto.MustSelectorFromName("__execute__")
	validate := crypto.MustSelectorFromName("__validate__")

	t.Run("sierra class", func(t *testing.T) {
		var got rpcRequest
		srv := newNode(t, func(req rpcRequest) (any, *rpcError) {
			got = req
			return map[string]any{
				"sierra_program":         []string{"0x1", "0x2"},
				"contract_class_version": "0.1.0",
				"abi":                    "[]",
				"entry_points_by_type": map[string]any{
					"CONSTRUCTOR": []any{},
					"EXTERNAL": []any{
						map[string]any{"selector": execute.String(), "function_idx": 0},
						map[string]any{"selector": validate.String(), "function_idx": 1},
					},
					"L1_HANDLER": []any{},
				},
			}, nil
		})

		class, err := dial(t, srv).ClassByHash(t.Context(), testClassHash)
		require.NoError(t, err)

		assert.Equal(t, "starknet_getClass", got.Method)
		require.Len(t, got.Params, 2)
		assert.JSONEq(t, `"`+testClassHash.String()+`"`, string(got.Params[1]))

		assert.True(t, class.IsSierra())
		require.Len(t, class.EntryPoints.External, 2)
		require.NotNil(t, class.EntryPoints.External[1].Index)
		assert.Equal(t, uint64(1), *class.EntryPoints.External[1].Index)
		assert.True(t, class.HasExternal(execute))
		assert.True(t, class.HasExternal(validate))
	})

	t.Run("cairo 0 class", func(t *testing.T) {
		srv := newNode(t, func(rpcRequest) (any, *rpcError) {
			return map[string]any{
				"program": "H4sIAAAAAAAA",
				"abi":     []any{},
				"entry_points_by_type": map[string]any{
					"EXTERNAL": []any{
						map[string]any{"selector": execute.String(), "offset": "0x3a"},
					},
				},
			}, nil
		})

		class, err := dial(t, srv).ClassByHash(t.Context(), testClassHash)
		require.NoError(t, err)
		assert.False(t, class.IsSierra())
		assert.True(t, class.HasExternal(execute))
		assert.False(t, class.HasExternal(validate))
		assert.Equal(t, "0x3a", class.EntryPoints.External[0].Offset.String())
	})

	t.Run("class without entry points", func(t *testing.T) {
		srv := newNode(t, func(rpcRequest) (any, *rpcError) {
			return map[string]any{"program": ""}, nil
		})

		class, err := dial(t, srv).ClassByHash(t.Context(), testClassHash)
		require.NoError(t, err)
		assert.Empty(t, class.EntryPoints.External)
		assert.False(t, class.HasExternal(execute))
	})

	t.Run("class hash not found", func(t *testing.T) {
		srv := newNode(t, func(rpcRequest) (any, *rpcError) {
			return nil, &rpcError{Code: 28, Message: "Class hash not found"}
		})

		_, err := dial(t, srv).ClassByHash(t.Context(), testClassHash)
		require.ErrorIs(t, err, starknet.ErrClassHashNotFound)
	})
}

func TestSpecVersion(t *testing.T) {
	srv := newNode(t, func(req rpcRequest) (any, *rpcError) {
		assert.Equal(t, "starknet_specVersion", req.Method)
		return "0.7.1", nil
	})

	version, err := dial(t, srv).SpecVersion(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "0.7.1", version)
}

func TestChainID(t *testing.T) {
	t.Run("short string chain id", func(t *testing.T) {
		srv := newNode(t, func(req rpcRequest) (any, *rpcError) {
			assert.Equal(t, "starknet_chainId", req.Method)
			assert.Empty(t, req.Params)
			return "0x534e5f4d41494e", nil
		})

		chainID, err := dial(t, srv).ChainID(t.Context())
		require.NoError(t, err)
		assert.Equal(t, new(felt.Felt).SetBytes([]byte("SN_MAIN")), chainID)
	})

	t.Run("rpc errors are returned", func(t *testing.T) {
		srv := newNode(t, func(rpcRequest) (any, *rpcError) {
			return nil, &rpcError{Code: -32601, Message: "Method not found"}
		})

		_, err := dial(t, srv).ChainID(t.Context())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "starknet_chainId")
	})
}

func TestListenerAndURL(t *testing.T) {
	srv := newNode(t, func(rpcRequest) (any, *rpcError) {
		return "0.7.1", nil
	})

	var (
		mu      sync.Mutex
		methods []string
	)
	client := dial(t, srv).WithListener(&starknet.SelectiveListener{
		OnResponseCb: func(method string, err error, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			assert.NoError(t, err)
			methods = append(methods, method)
		},
	})

	assert.Equal(t, srv.URL, client.URL())
	_, err := client.SpecVersion(t.Context())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"starknet_specVersion"}, methods)
}
