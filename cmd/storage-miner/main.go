package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CPerezz/worst-case-miner/internal/config"
	"github.com/CPerezz/worst-case-miner/internal/initcode"
	logpkg "github.com/CPerezz/worst-case-miner/internal/logger"
	"github.com/CPerezz/worst-case-miner/pkg/account"
	minerpkg "github.com/CPerezz/worst-case-miner/pkg/miner"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.NewConfig()
	logger = logpkg.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storage-miner",
		Short: "Storage-branch and CREATE2 account address miner",
		Long: `storage-miner mines a chain of storage keys sharing increasing prefix
lengths and emits an initcode blob that writes a marker into each one. With
--num-contracts it instead mines CREATE2 account addresses against a
deployer and init code, the way the original accounts-mining mode did.`,
		RunE: run,
	}

	flags := rootCmd.Flags()
	flags.Uint32Var(&cfg.Depth, "depth", cfg.Depth, "number of chained levels to mine (1-32)")
	flags.IntVar(&cfg.Threads, "threads", cfg.Threads, "number of CPU worker goroutines")
	flags.StringVar(&cfg.BaseSlot, "base-slot", "", "base storage slot index, hex or decimal (default 0)")
	flags.StringVar(&cfg.Marker, "marker", "", "256-bit marker value written to storage, hex or decimal (default 1)")
	flags.BoolVar(&cfg.CUDA, "cuda", false, "force the CUDA backend instead of CPU/Auto")
	flags.BoolVar(&cfg.CUDAStrict, "cuda-strict", false, "fail instead of falling back to CPU when --cuda is set and no device is available")
	flags.StringVar(&cfg.Output, "output", cfg.Output, "path to write the encoded initcode blob")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose logging")

	flags.IntVar(&cfg.NumContracts, "num-contracts", 0, "mine N CREATE2 account addresses instead of storage branches")
	flags.StringVar(&cfg.Deployer, "deployer", "", "CREATE2 deployer address (default: ERC-2470 singleton factory)")
	flags.StringVar(&cfg.InitCodeFile, "init-code", "", "file containing hex-encoded init code (required with --num-contracts)")
	flags.StringVar(&cfg.AccountsTarget, "accounts-target", "", "exact CREATE2 address to match")
	flags.StringVar(&cfg.AccountsPrefix, "accounts-prefix", "", "CREATE2 address byte prefix to match")
	flags.StringVar(&cfg.AccountsSuffix, "accounts-suffix", "", "CREATE2 address byte suffix to match")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.IsAccountMode() {
		return runAccountMode()
	}
	return runStorageMode()
}

func runAccountMode() error {
	acfg, err := cfg.AccountConfig()
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("mining %d CREATE2 account(s) with %d workers", cfg.NumContracts, acfg.Workers))
	results, err := account.MineAccounts(acfg, cfg.NumContracts)
	if err != nil {
		return err
	}

	for _, r := range results {
		logger.Info(fmt.Sprintf("found address=%s salt=0x%s attempts=%d duration=%s", r.Address, r.Salt, r.Attempts, r.Duration))
	}
	return nil
}

func runStorageMode() error {
	baseSlot, err := cfg.BaseSlotValue()
	if err != nil {
		return err
	}
	marker, err := cfg.MarkerValue()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("received interrupt signal, stopping miners")
		cancel()
	}()

	logger.Info(fmt.Sprintf("mining %d levels with %d threads", cfg.Depth, cfg.Threads))
	run, err := minerpkg.Mine(ctx, minerpkg.Options{
		Depth:    cfg.Depth,
		BaseSlot: baseSlot,
		Backend:  cfg.SchedulerConfig(),
	})
	if err != nil {
		return err
	}

	for _, r := range run {
		logger.Info(fmt.Sprintf("level=%d address=%x key=%x", r.Level, r.Address, r.Key))
	}

	blob := initcode.Encode(run, marker)
	if err := os.WriteFile(cfg.Output, blob, 0o644); err != nil {
		return fmt.Errorf("write initcode: %w", err)
	}
	logger.Info(fmt.Sprintf("wrote %d bytes of initcode to %s", len(blob), cfg.Output))
	return nil
}
