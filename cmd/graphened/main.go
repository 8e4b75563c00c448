// Command graphened runs the Graphene core as a standalone process: it
// loads configuration and chain parameters, opens the on-disk object store
// and block log, applies genesis on a fresh data directory (or resumes from
// a prior snapshot otherwise), and then idles, periodically re-snapshotting
// the store, until asked to shut down.
//
// There is no gossip, RPC, or wallet surface here (spec.md's Non-goals) —
// this binary proves out the core end to end (store, evaluator pipeline,
// market engine, block processor, snapshot persistence) the way a future
// gossip/RPC layer would drive it, by exposing the same Processor a
// transport would call PushTransaction/PushBlock against.
//
// Grounded on the teacher's cmd/nhb/main.go: flag-parsed config path,
// config.Load, storage.NewLevelDB, genesis resolution, and a logger set up
// through observability/logging.Setup, narrowed to the pieces this core
// actually needs (no p2p identity/peerstore, no validator passphrase
// source, no RPC server).
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/chainproc"
	"github.com/graphene-chain/core/config"
	"github.com/graphene-chain/core/crypto"
	"github.com/graphene-chain/core/genesis"
	"github.com/graphene-chain/core/observability/logging"
	"github.com/graphene-chain/core/storage"
	"github.com/graphene-chain/core/store"
)

// snapshotInterval bounds how much work a crash can lose: the store is
// re-snapshotted on this cadence in addition to on clean shutdown.
const snapshotInterval = 5 * time.Minute

func main() {
	configFile := flag.String("config", "./graphened.toml", "path to the node configuration file")
	flag.Parse()

	env := os.Getenv("GRAPHENE_ENV")
	logger := logging.Setup("graphened", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	params, err := chainparams.Load(cfg.ParamsFile)
	if err != nil {
		logger.Error("failed to load chain parameters", slog.Any("error", err))
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to prepare data directory", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	keyBytes, err := hex.DecodeString(cfg.ValidatorKey)
	if err != nil {
		logger.Error("failed to decode validator key", slog.Any("error", err))
		os.Exit(1)
	}
	witnessKey, err := crypto.PrivateKeyFromBytes(keyBytes)
	if err != nil {
		logger.Error("failed to parse validator key", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("witness identity", logging.MaskField("address", witnessKey.PubKey().Address().String()))

	s, err := store.LoadSnapshot(db)
	if err != nil {
		logger.Error("failed to load store snapshot", slog.Any("error", err))
		os.Exit(1)
	}

	chain := chainproc.NewChain(db)
	if err := chain.RestoreFromDB(); err != nil {
		logger.Error("failed to restore block log", slog.Any("error", err))
		os.Exit(1)
	}

	if _, ok := chain.HeadHash(); !ok {
		logger.Info("no prior chain found, applying genesis", logging.MaskField("genesis_file", cfg.GenesisFile))
		spec, err := genesis.Load(cfg.GenesisFile)
		if err != nil {
			logger.Error("failed to load genesis spec", slog.Any("error", err))
			os.Exit(1)
		}
		genesisBlock, err := genesis.Apply(s, params, spec)
		if err != nil {
			logger.Error("failed to apply genesis", slog.Any("error", err))
			os.Exit(1)
		}
		if err := chain.RecordGenesis(genesisBlock); err != nil {
			logger.Error("failed to record genesis block", slog.Any("error", err))
			os.Exit(1)
		}
		if err := s.Snapshot(db); err != nil {
			logger.Error("failed to snapshot genesis state", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Info("resumed chain", slog.Uint64("height", chain.Height()))
	}

	proc := chainproc.NewProcessor(s, params, chain)
	proc.Notifier = chainproc.NewNotifier(logger, 64)

	logger.Info("graphened started",
		logging.MaskField("data_dir", cfg.DataDir),
		logging.MaskField("listen", cfg.ListenAddress))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

runLoop:
	for {
		select {
		case <-ticker.C:
			if err := s.Snapshot(db); err != nil {
				logger.Error("periodic snapshot failed", slog.Any("error", err))
			}
		case <-sig:
			break runLoop
		}
	}

	logger.Info("shutting down, taking final snapshot")
	if err := s.Snapshot(db); err != nil {
		logger.Error("final snapshot failed", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Fprintln(os.Stdout, "graphened stopped cleanly")
}
