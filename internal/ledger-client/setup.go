package ledger_client

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/ledger-client/cmd/ledger-client/config"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/chains"
	clienthttp "github.com/quantumauth-io/ledger-client/internal/ledger-client/http"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/metrics"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/scheduler"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/snapshot"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/txflow"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/wallet"
)

const shutdownTimeout = 5 * time.Second

type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

func Run(ctx context.Context, build BuildInfo) error {
	log.Info("ledger-client",
		"version", build.Version,
		"commit", build.Commit,
		"build_date", build.BuildDate,
	)

	// ---- Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ---- Chain
	chainService, err := chains.NewService(ctx, chains.NewResolver(cfg.ResolverConfig()))
	if err != nil {
		return err
	}
	defer chainService.Close()

	profile := chainService.Profile()
	client, err := chainService.Client()
	if err != nil {
		return err
	}

	heads, err := chains.NewHeadTracker(ctx, client, cfg.Refresh.HeadInterval)
	if err != nil {
		return errors.Wrap(err, "start head tracker")
	}

	// ---- Ledger reads
	reader, err := ledger.NewContractReader(cfg.ContractAddress(), client, ledger.ReaderConfig{
		RequestsPerSecond: cfg.RPC.RequestsPerSecond,
		Burst:             cfg.RPC.Burst,
		BreakerFailures:   cfg.RPC.BreakerFailures,
		BreakerTimeout:    cfg.RPC.BreakerTimeout,
	})
	if err != nil {
		return err
	}

	collector := metrics.New(func() bool { return reader.BreakerState() == "open" })

	aggregator := snapshot.NewAggregator(reader, snapshot.Config{
		ReferralOrigin: cfg.Ledger.ReferralOrigin,
		Blocks:         heads,
		Observer:       collector,
	})
	updates, unsubscribe := aggregator.Subscribe()
	defer unsubscribe()
	go collector.Track(updates)

	// ---- Wallet
	session := wallet.NewSession()
	transport, err := wallet.NewTransport(client, session, cfg.ContractAddress())
	if err != nil {
		return err
	}
	connector := wallet.NewConnector(session, wallet.SignerSource{
		KeystorePath:  cfg.Wallet.KeystorePath,
		PassphraseEnv: cfg.Wallet.PassphraseEnv,
		HexKeyEnv:     cfg.Wallet.HexKeyEnv,
		Prompt:        cfg.Wallet.Prompt,
	})

	// ---- Refresh scheduling
	refresh := scheduler.New(aggregator, scheduler.Config{
		GlobalInterval: cfg.Refresh.GlobalInterval,
		FetchTimeout:   cfg.Refresh.FetchTimeout,
	})
	session.Watch(refresh.HandleSessionEvent)
	if err := refresh.Start(ctx); err != nil {
		return err
	}
	defer refresh.Stop()

	// ---- Transactions
	feed := txflow.NewFeed(cfg.Notifications.Limit)
	watcher := txflow.NewReceiptWatcher(transport, heads, txflow.WatcherConfig{
		PollInterval:  cfg.Confirmation.PollInterval,
		Timeout:       cfg.Confirmation.Timeout,
		Confirmations: cfg.Confirmation.Confirmations,
	})
	transactions := txflow.NewSet(txflow.Config{
		ChainID:         profile.ChainID,
		NativeSymbol:    profile.NativeSymbol,
		MinDeposit:      cfg.MinDeposit(),
		DefaultReferrer: cfg.DefaultReferrer(),
		ExplorerTxURL:   profile.ExplorerTxURL,
	}, txflow.Deps{
		Wallet:    transport,
		Snapshots: aggregator,
		Confirmer: watcher,
		Refresher: refresh,
		Notifier:  feed,
		Observer:  collector,
	})

	// A configured signer connects at startup; otherwise the API connects one later.
	if addr, err := connector.ConnectInteractive(wallet.ConnectRequest{}); err != nil {
		if !errors.Is(err, wallet.ErrNoSigner) {
			log.Warn("wallet not connected at startup", "error", err)
		}
	} else {
		log.Info("wallet connected", "account", addr.Hex())
	}
	defer connector.Disconnect()

	// ---- HTTP API
	handler := clienthttp.NewHandler(ctx, clienthttp.Deps{
		Profile:       profile,
		Snapshots:     aggregator,
		Refresher:     refresh,
		Transactions:  transactions,
		Notifications: feed,
		Wallet:        connector,
	})
	router := clienthttp.NewRouter(handler, cfg.ClientSettings.AllowedOrigins, collector.Handler())
	server := clienthttp.NewServer(cfg.ClientSettings.LocalHost, cfg.ClientSettings.Port, router)

	return server.ListenAndServe(ctx, shutdownTimeout)
}
