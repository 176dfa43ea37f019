package account

import (
	"fmt"
	"sync"
	"time"

	"github.com/CPerezz/worst-case-miner/internal/crypto"
)

// Config describes one CREATE2 account-mining run.
type Config struct {
	Deployer     []byte // 20 bytes; defaults to crypto.FactoryAddress when empty
	Initcode     []byte
	Target       string
	Prefix       string
	Suffix       string
	Workers      int
	Verbose      bool
}

// Miner coordinates workers searching for CREATE2 addresses matching Config.
type Miner struct {
	config       Config
	workerConfig *WorkerConfig
	attempts     int64

	mu      sync.Mutex
	results []Result
	done    chan struct{}
	once    sync.Once
}

// NewMiner builds the shared, pre-computed worker configuration (init-code
// hash, CREATE2 prefix, pre-decoded match bytes) once per run, the way the
// teacher's NewMiner front-loads the per-run constants.
func NewMiner(cfg Config) (*Miner, error) {
	deployer := cfg.Deployer
	if len(deployer) == 0 {
		var err error
		deployer, err = crypto.MustAddressBytes(crypto.FactoryAddress)
		if err != nil {
			return nil, fmt.Errorf("account: default deployer: %w", err)
		}
	}
	create2Prefix, err := crypto.BuildCreate2Prefix(deployer)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}

	wc := &WorkerConfig{
		Initcode:      cfg.Initcode,
		InitcodeHash:  crypto.Keccak256(cfg.Initcode),
		FactoryBytes:  deployer,
		Target:        cfg.Target,
		Prefix:        cfg.Prefix,
		Suffix:        cfg.Suffix,
		Verbose:       cfg.Verbose,
		Create2Prefix: create2Prefix[:],
	}

	if cfg.Target != "" {
		b, err := crypto.HexToAddressBytes(cfg.Target)
		if err != nil {
			return nil, fmt.Errorf("account: invalid target: %w", err)
		}
		wc.TargetBytes = b
	}
	if cfg.Prefix != "" {
		b, err := crypto.HexToAddressBytes(cfg.Prefix)
		if err != nil {
			return nil, fmt.Errorf("account: invalid prefix: %w", err)
		}
		wc.PrefixBytes = b
	}
	if cfg.Suffix != "" {
		b, err := crypto.HexToAddressBytes(cfg.Suffix)
		if err != nil {
			return nil, fmt.Errorf("account: invalid suffix: %w", err)
		}
		wc.SuffixBytes = b
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Miner{
		config:       cfg,
		workerConfig: wc,
		done:         make(chan struct{}),
	}, nil
}

// MineAccounts fans Workers goroutines out over the salt space and collects
// count independent matches, the generalisation of the teacher's
// single-result Mine() that original_source's --num-contracts needs to seed
// a batch of CREATE2 deployments.
func MineAccounts(cfg Config, count int) ([]Result, error) {
	m, err := NewMiner(cfg)
	if err != nil {
		return nil, err
	}
	return m.Mine(count)
}

// Mine runs until count matches are collected or every worker has stopped.
func (m *Miner) Mine(count int) ([]Result, error) {
	start := time.Now()
	var wg sync.WaitGroup

	for i := 0; i < m.config.Workers; i++ {
		wg.Add(1)
		go m.runWorker(&wg, count, start)
	}
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results, nil
}

func (m *Miner) runWorker(wg *sync.WaitGroup, count int, start time.Time) {
	defer wg.Done()

	w := newWorker(m.workerConfig, &m.attempts)
	for {
		select {
		case <-m.done:
			return
		default:
		}

		result := w.generateAddress()
		if result == nil || !result.IsMatch {
			continue
		}

		m.mu.Lock()
		if len(m.results) < count {
			m.results = append(m.results, Result{
				Salt:     result.Salt,
				Address:  result.Address,
				Attempts: result.Attempts,
				Duration: time.Since(start),
			})
		}
		done := len(m.results) >= count
		m.mu.Unlock()

		if done {
			m.once.Do(func() { close(m.done) })
			return
		}
	}
}
