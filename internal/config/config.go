// Package config assembles a Config from CLI flags and validates it before
// any hashing starts, the way the teacher's internal/config does for its
// own flag set.
package config

import (
	"fmt"
	"runtime"

	"github.com/CPerezz/worst-case-miner/pkg/account"
	"github.com/CPerezz/worst-case-miner/pkg/scheduler"
	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/holiman/uint256"
)

// MaxDepth mirrors pkg/miner.MaxDepth; duplicated here (rather than
// imported) so this package has no dependency on pkg/miner, matching the
// teacher's layering where internal/config never imports pkg/miner.
const MaxDepth = 32

// Config holds the storage-branch mining flags plus the account-mining
// sub-flags that switch the binary into the supplemental CREATE2 mode.
type Config struct {
	Depth    uint32
	Threads  int
	BaseSlot string // 0x-prefixed hex or decimal; empty means 0
	Marker   string // 0x-prefixed hex or decimal; empty means 1
	CUDA     bool
	// CUDAStrict disables the CPU downgrade spec.md §7 otherwise applies to
	// BackendUnavailable, so an unavailable device is fatal instead.
	CUDAStrict bool
	Output     string

	// Account-mining sub-flags (original_source's --num-contracts mode).
	NumContracts   int
	Deployer       string
	InitCodeFile   string
	AccountsTarget string
	AccountsPrefix string
	AccountsSuffix string

	Verbose bool
}

// NewConfig returns a Config with runtime-derived defaults, the way the
// teacher's NewConfig seeds Workers from runtime.NumCPU().
func NewConfig() *Config {
	return &Config{
		Depth:   4,
		Threads: runtime.NumCPU(),
		Output:  "initcode.bin",
	}
}

// Validate enforces spec.md §7's InvalidDepth rule before any hashing
// starts, and checks that account-mining mode (when selected) has a usable
// init-code source and at least one match criterion.
func (c *Config) Validate() error {
	if c.Depth == 0 || c.Depth > MaxDepth {
		return fmt.Errorf("%w: depth must be in [1,%d], got %d", types.ErrInvalidDepth, MaxDepth, c.Depth)
	}
	if c.IsAccountMode() {
		if c.InitCodeFile == "" {
			return fmt.Errorf("--num-contracts requires --init-code")
		}
		if c.AccountsTarget == "" && c.AccountsPrefix == "" && c.AccountsSuffix == "" {
			return fmt.Errorf("--num-contracts requires one of --accounts-target, --accounts-prefix, --accounts-suffix")
		}
	}
	return nil
}

// IsAccountMode reports whether the binary should run the supplemental
// CREATE2 account miner instead of storage-branch mining, mirroring
// original_source's early return when --num-contracts is set.
func (c *Config) IsAccountMode() bool {
	return c.NumContracts > 0
}

// BaseSlotValue parses BaseSlot, defaulting to 0.
func (c *Config) BaseSlotValue() (*uint256.Int, error) {
	if c.BaseSlot == "" {
		return types.DefaultBaseSlot(), nil
	}
	return parseUint256(c.BaseSlot)
}

// MarkerValue parses Marker, defaulting to 1.
func (c *Config) MarkerValue() (*uint256.Int, error) {
	if c.Marker == "" {
		return types.DefaultMarker(), nil
	}
	return parseUint256(c.Marker)
}

func parseUint256(hexOrDec string) (*uint256.Int, error) {
	v, err := uint256.FromHex(hexOrDec)
	if err == nil {
		return v, nil
	}
	v, err = uint256.FromDecimal(hexOrDec)
	if err != nil {
		return nil, fmt.Errorf("invalid 256-bit value %q: %w", hexOrDec, err)
	}
	return v, nil
}

// SchedulerConfig converts the flat CLI flags into a scheduler.Config.
func (c *Config) SchedulerConfig() scheduler.Config {
	kind := scheduler.Auto
	if c.CUDA {
		kind = scheduler.GPU
	}
	return scheduler.Config{
		Kind:           kind,
		ForbidFallback: c.CUDAStrict,
		Threads:        c.Threads,
	}
}

// AccountConfig converts the account-mining sub-flags into a
// pkg/account.Config, reading the init-code file named by --init-code.
func (c *Config) AccountConfig() (account.Config, error) {
	bytecode, err := account.ReadInitcodeFile(c.InitCodeFile)
	if err != nil {
		return account.Config{}, err
	}
	var deployer []byte
	if c.Deployer != "" {
		deployer, err = account.DecodeDeployer(c.Deployer)
		if err != nil {
			return account.Config{}, err
		}
	}
	return account.Config{
		Deployer: deployer,
		Initcode: bytecode,
		Target:   c.AccountsTarget,
		Prefix:   c.AccountsPrefix,
		Suffix:   c.AccountsSuffix,
		Workers:  c.Threads,
		Verbose:  c.Verbose,
	}, nil
}
