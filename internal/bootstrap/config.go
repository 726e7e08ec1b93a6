package bootstrap

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"stockfish_harness/internal/engine"
)

type Config struct {
	ServerPort     string        `mapstructure:"SERVER_PORT"`
	GrpcPort       string        `mapstructure:"GRPC_PORT"`
	EngineGrpcAddr string        `mapstructure:"ENGINE_GRPC_ADDR"`
	RedisUrl       string        `mapstructure:"REDIS_URL"`
	MongoUri       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	IsLocalCors    bool          `mapstructure:"LOCAL_CORS"`

	EnginePath      string `mapstructure:"ENGINE_PATH"`
	EngineThreads   int    `mapstructure:"ENGINE_THREADS"`
	EngineHashMB    int    `mapstructure:"ENGINE_HASH_MB"`
	EngineMultiPV   int    `mapstructure:"ENGINE_MULTI_PV"`
	EngineSlowMover int    `mapstructure:"ENGINE_SLOW_MOVER"`
	EnginePonder    bool   `mapstructure:"ENGINE_PONDER"`
	SyzygyPath      string `mapstructure:"SYZYGY_PATH"`
	IsChess960      bool   `mapstructure:"IS_CHESS960"`

	DefaultAnalysisDepth   int `mapstructure:"DEFAULT_ANALYSIS_DEPTH"`
	DefaultMinDepth        int `mapstructure:"DEFAULT_MIN_DEPTH"`
	DefaultCpLossThreshold int `mapstructure:"DEFAULT_CP_LOSS_THRESHOLD"`
}

var defaults = map[string]any{
	"SERVER_PORT":      "8080",
	"GRPC_PORT":        "8082",
	"ENGINE_GRPC_ADDR": "",
	"REDIS_URL":        "localhost:6379",
	"MONGO_URI":        "mongodb://localhost:27017",
	"MONGO_DATABASE":   "stockfish_harness",
	"CACHE_TTL":        "24h",
	"LOCAL_CORS":       false,

	"ENGINE_PATH":       "stockfish",
	"ENGINE_THREADS":    8,
	"ENGINE_HASH_MB":    32768,
	"ENGINE_MULTI_PV":   7,
	"ENGINE_SLOW_MOVER": 100,
	"ENGINE_PONDER":     false,
	"SYZYGY_PATH":       "",
	"IS_CHESS960":       false,

	"DEFAULT_ANALYSIS_DEPTH":    20,
	"DEFAULT_MIN_DEPTH":         10,
	"DEFAULT_CP_LOSS_THRESHOLD": 20,
}

// Setup reads cfgPath when it exists; environment variables override both the file and the defaults.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")

	err := v.ReadInConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		IsChess960: c.IsChess960,
		Threads:    c.EngineThreads,
		HashMB:     c.EngineHashMB,
		Ponder:     c.EnginePonder,
		MultiPV:    c.EngineMultiPV,
		SlowMover:  c.EngineSlowMover,
		SyzygyPath: c.SyzygyPath,
	}
}
