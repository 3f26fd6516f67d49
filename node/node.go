package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"strconv"

	"github.com/NethermindEth/accountcheck/checker"
	"github.com/NethermindEth/accountcheck/clients/starknet"
	"github.com/NethermindEth/accountcheck/db"
	"github.com/NethermindEth/accountcheck/db/pebble"
	"github.com/NethermindEth/accountcheck/metrics"
	"github.com/NethermindEth/accountcheck/registry"
	"github.com/NethermindEth/accountcheck/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sourcegraph/conc"
)

// Config is the top-level accountcheck configuration.
type Config struct {
	LogLevel    utils.LogLevel    `mapstructure:"log-level"`
	Colour      bool              `mapstructure:"colour"`
	Network     utils.Network     `mapstructure:"network" validate:"network"`
	NodeURL     string            `mapstructure:"node-url" validate:"omitempty,url"`
	MaxAttempts int               `mapstructure:"max-attempts" validate:"min=1,max=10"`
	Silent      bool              `mapstructure:"silent"`
	Registry    map[string]string `mapstructure:"registry" validate:"dive,keys,required,endkeys,felt"`
	CacheDir    string            `mapstructure:"cache-dir"`

	Concurrency int    `mapstructure:"concurrency" validate:"omitempty,min=1,max=64"`
	Output      string `mapstructure:"output" validate:"omitempty,oneof=text json yaml table cbor"`

	HTTPHost         string   `mapstructure:"http-host"`
	HTTPPort         uint16   `mapstructure:"http-port"`
	CORSOrigins      []string `mapstructure:"cors-origins"`
	Metrics          bool     `mapstructure:"metrics"`
	CheckSpecVersion bool     `mapstructure:"check-spec-version"`
	MaxRequests      uint     `mapstructure:"max-requests"`
	MaxQueued        int32    `mapstructure:"max-queued-requests" validate:"min=0"`
}

// Listeners instrument the components NewChecker builds. Nil fields disable
// instrumentation.
type Listeners struct {
	Client  starknet.EventListener
	Checker checker.EventListener
	DB      db.EventListener
}

// NewChecker builds a checker from cfg. Class verdicts are cached in
// cfg.CacheDir, or in memory when it is empty.
func NewChecker(cfg *Config, log utils.SimpleLogger, listeners Listeners) (*checker.Checker, error) {
	reg, err := registry.New(cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}

	store, err := openCache(cfg.CacheDir, log)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if listeners.DB != nil {
		store = store.WithListener(listeners.DB)
	}

	c, err := checker.New(checker.Options{
		Network:        cfg.Network,
		NodeURL:        cfg.NodeURL,
		Registry:       reg,
		Cache:          checker.NewVerdictCache(store),
		Silent:         cfg.Silent,
		Logger:         log,
		Listener:       listeners.Checker,
		ClientListener: listeners.Client,
		MaxAttempts:    cfg.MaxAttempts,
		Concurrency:    cfg.Concurrency,
	})
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}
	return c, nil
}

func openCache(dir string, log utils.SimpleLogger) (*pebble.DB, error) {
	if dir == "" {
		return pebble.NewMem()
	}
	return pebble.New(dir, log)
}

type Node struct {
	cfg     *Config
	checker *checker.Checker
	log     utils.SimpleLogger

	services []Service
}

// New builds the HTTP service and its checker from cfg. Port 0 picks a free port.
func New(cfg *Config, log utils.SimpleLogger) (*Node, error) {
	var (
		listeners    Listeners
		promRegistry *prometheus.Registry
	)
	if cfg.Metrics {
		promRegistry = metrics.NewRegistry()
		listeners = Listeners{
			Client:  metrics.MakeGatewayMetrics(promRegistry),
			Checker: metrics.MakeCheckerMetrics(promRegistry),
			DB:      metrics.MakeDBMetrics(promRegistry),
		}
	}

	c, err := NewChecker(cfg, log, listeners)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(cfg.HTTPHost, strconv.FormatUint(uint64(cfg.HTTPPort), 10))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	handler := NewHandler(c, log).
		WithCORS(cfg.CORSOrigins).
		WithLogLevel(&cfg.LogLevel).
		WithThrottling(cfg.MaxRequests, cfg.MaxQueued)
	if promRegistry != nil {
		handler = handler.WithMetrics(promRegistry)
	}

	return &Node{
		cfg:      cfg,
		checker:  c,
		log:      log,
		services: []Service{makeHTTP(listener, handler)},
	}, nil
}

// checkNode fails only on a definite mismatch. A node that cannot be reached
// is logged and served anyway.
func (n *Node) checkNode(ctx context.Context) error {
	version, err := n.checker.CheckNodeVersion(ctx)
	if err != nil {
		if errors.Is(err, checker.ErrUnsupportedSpecVersion) {
			return err
		}
		n.log.Warnw("Failed to read node spec version", "err", err)
	} else {
		n.log.Infow("Connected to node", "url", n.checker.Endpoint(), "specVersion", version.String())
	}

	if err := n.checker.CheckChainID(ctx); err != nil {
		if errors.Is(err, checker.ErrWrongNetwork) {
			return err
		}
		n.log.Warnw("Failed to read node chain id", "err", err)
	}
	return nil
}

// Addr returns the address the HTTP service listens on.
func (n *Node) Addr() net.Addr {
	return n.services[0].(*httpService).listener.Addr()
}

// Run serves until ctx is cancelled or a service fails. With CheckSpecVersion
// set, an unsupported node or one serving another network aborts the run
// before anything is served.
func (n *Node) Run(ctx context.Context) error {
	defer n.checker.Close()

	if n.cfg.CheckSpecVersion {
		if err := n.checkNode(ctx); err != nil {
			n.closeListeners()
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(n.services))
	wg := conc.NewWaitGroup()
	for _, s := range n.services {
		wg.Go(func() {
			if err := s.Run(ctx); err != nil {
				n.log.Errorw("Service error", "name", reflect.TypeOf(s), "err", err)
				errCh <- err
				cancel()
			}
		})
	}
	n.log.Infow("Serving", "addr", n.Addr().String(), "network", n.checker.Network())

	<-ctx.Done()
	wg.Wait()
	n.log.Infow("Shutting down accountcheck...")

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func (n *Node) closeListeners() {
	for _, s := range n.services {
		if h, ok := s.(*httpService); ok {
			if err := h.listener.Close(); err != nil {
				n.log.Warnw("Failed to close listener", "err", err)
			}
		}
	}
}

func (n *Node) Config() Config {
	return *n.cfg
}
