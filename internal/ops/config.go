package ops

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/yanun0323/errors"

	"main/internal/chase"
	"main/pkg/exception"
)

// FileConfig mirrors the JSON config layout. Zero fields fall back to the
// defaults below.
type FileConfig struct {
	Coin              string   `json:"coin"`
	Asset             int      `json:"asset"`
	TickSize          float64  `json:"tickSize"`
	Side              string   `json:"side"`
	OrderSize         float64  `json:"orderSize"`
	PostOnly          *bool    `json:"postOnly"`
	ToleranceTicks    *float64 `json:"toleranceTicks"`
	MaxAgeMs          *int64   `json:"maxAgeMs"`
	MaxChaseTicks     *float64 `json:"maxChaseTicks"`
	RefreshIntervalMs *int64   `json:"refreshIntervalMs"`
	Testnet           *bool    `json:"testnet"`
	PingIntervalSec   int      `json:"pingIntervalSec"`
	QueueSize         int      `json:"queueSize"`
	DatabaseURL       string   `json:"databaseUrl"`
}

// Loaded is the resolved configuration ready for use. No field mutates once
// a chase session starts.
type Loaded struct {
	Coin              string
	Asset             int
	Testnet           bool
	RefreshIntervalMs int64
	PingInterval      time.Duration
	QueueSize         int
	Chase             chase.Config
	DatabaseURL       string
	Address           string
}

// Defaults mirror the reference run parameters.
const (
	defaultCoin            = "BTC"
	defaultTickSize        = 0.5
	defaultOrderSize       = 0.0002
	defaultToleranceTicks  = 1
	defaultMaxAgeMs        = 5000
	defaultMaxChaseTicks   = 10
	defaultRefreshMs       = 500
	defaultPingIntervalSec = 20
	defaultQueueSize       = 1000
)

// Load reads a JSON config file (optional), applies env overrides
// (TESTNET, POST_ONLY, DATABASE_URL, ADDRESS), and validates.
func Load(path string) (Loaded, error) {
	var cfg FileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, errors.Wrap(err, "read config")
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, errors.Wrap(err, "unmarshal config")
		}
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	loaded := Loaded{
		Coin:              defaultCoin,
		Asset:             cfg.Asset,
		RefreshIntervalMs: defaultRefreshMs,
		PingInterval:      defaultPingIntervalSec * time.Second,
		QueueSize:         defaultQueueSize,
		Chase: chase.Config{
			TickSize:       defaultTickSize,
			Side:           chase.SideBuy,
			OrderSize:      defaultOrderSize,
			PostOnly:       true,
			ToleranceTicks: defaultToleranceTicks,
			MaxAgeMs:       defaultMaxAgeMs,
			MaxChaseTicks:  defaultMaxChaseTicks,
		},
		DatabaseURL: cfg.DatabaseURL,
	}

	if cfg.Coin != "" {
		loaded.Coin = cfg.Coin
	}
	if cfg.TickSize != 0 {
		loaded.Chase.TickSize = cfg.TickSize
	}
	if cfg.Side != "" {
		side, err := chase.ParseSide(cfg.Side)
		if err != nil {
			return Loaded{}, errors.Wrap(err, cfg.Side)
		}
		loaded.Chase.Side = side
	}
	if cfg.OrderSize != 0 {
		loaded.Chase.OrderSize = cfg.OrderSize
	}
	if cfg.PostOnly != nil {
		loaded.Chase.PostOnly = *cfg.PostOnly
	}
	if cfg.ToleranceTicks != nil {
		loaded.Chase.ToleranceTicks = *cfg.ToleranceTicks
	}
	if cfg.MaxAgeMs != nil {
		loaded.Chase.MaxAgeMs = *cfg.MaxAgeMs
	}
	if cfg.MaxChaseTicks != nil {
		loaded.Chase.MaxChaseTicks = *cfg.MaxChaseTicks
	}
	if cfg.RefreshIntervalMs != nil {
		loaded.RefreshIntervalMs = *cfg.RefreshIntervalMs
	}
	if cfg.Testnet != nil {
		loaded.Testnet = *cfg.Testnet
	}
	if cfg.PingIntervalSec > 0 {
		loaded.PingInterval = time.Duration(cfg.PingIntervalSec) * time.Second
	}
	if cfg.QueueSize > 0 {
		loaded.QueueSize = cfg.QueueSize
	}

	applyEnv(&loaded)

	if err := validate(loaded); err != nil {
		return Loaded{}, err
	}
	return loaded, nil
}

func applyEnv(loaded *Loaded) {
	if v, ok := os.LookupEnv("TESTNET"); ok {
		loaded.Testnet = envTrue(v)
	}
	if v, ok := os.LookupEnv("POST_ONLY"); ok {
		loaded.Chase.PostOnly = envTrue(v)
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		loaded.DatabaseURL = v
	}
	loaded.Address = os.Getenv("ADDRESS")
}

func validate(loaded Loaded) error {
	if loaded.Coin == "" {
		return exception.ErrEmptyStreamSymbol
	}
	if loaded.RefreshIntervalMs < 0 {
		return exception.ErrChaseInvalidRefresh
	}
	if loaded.QueueSize <= 0 {
		return exception.ErrInvalidStreamQueue
	}
	return loaded.Chase.Validate()
}

func envTrue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
