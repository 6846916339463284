package config

import (
	"os"
)

// FirebaseConfig holds the Firestore connection settings.
type FirebaseConfig struct {
	ProjectID        string
	CredentialsPath  string
	CollectionPrefix string
}

// TradingConfig holds the trading system settings.
type TradingConfig struct {
	DefaultExchange string
	DefaultSymbol   string
	DataTimeframe   string
	MaxPositionSize float64
	RiskPerTrade    float64
}

// RLConfig holds the reinforcement learning settings.
type RLConfig struct {
	LearningRate    float64
	DiscountFactor  float64
	ExplorationRate float64
	BatchSize       int
	MemorySize      int
}

// LoggingConfig holds the logging settings.
type LoggingConfig struct {
	Level    string
	FilePath string
}

// Config aggregates all settings groups. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	Firebase FirebaseConfig
	Trading  TradingConfig
	RL       RLConfig
	Logging  LoggingConfig
}

// Load builds the full configuration from the given environment snapshot,
// applying documented defaults for every missing variable.
func Load(env Env) *Config {
	return &Config{
		Firebase: FirebaseConfig{
			ProjectID:        env.getEnv("FIREBASE_PROJECT_ID", "arl-et-production"),
			CredentialsPath:  env.getEnv("FIREBASE_CREDENTIALS", "./firebase-credentials.json"),
			CollectionPrefix: env.getEnv("FIREBASE_COLLECTION_PREFIX", "ARLET_"),
		},
		Trading: TradingConfig{
			DefaultExchange: env.getEnv("DEFAULT_EXCHANGE", "binance"),
			DefaultSymbol:   env.getEnv("DEFAULT_SYMBOL", "BTC/USDT"),
			DataTimeframe:   env.getEnv("DATA_TIMEFRAME", "1h"),
			MaxPositionSize: env.getEnvFloat("MAX_POSITION_SIZE", 0.1),
			RiskPerTrade:    env.getEnvFloat("RISK_PER_TRADE", 0.02),
		},
		RL: RLConfig{
			LearningRate:    env.getEnvFloat("RL_LEARNING_RATE", 0.001),
			DiscountFactor:  env.getEnvFloat("RL_DISCOUNT_FACTOR", 0.95),
			ExplorationRate: env.getEnvFloat("RL_EXPLORATION_RATE", 0.1),
			BatchSize:       env.getEnvInt("RL_BATCH_SIZE", 32),
			MemorySize:      env.getEnvInt("RL_MEMORY_SIZE", 10000),
		},
		Logging: LoggingConfig{
			Level:    env.getEnv("LOG_LEVEL", "INFO"),
			FilePath: env.getEnv("LOG_FILE", "arl_et.log"),
		},
	}
}

// Logger is the minimal logging surface the validation pass needs.
type Logger interface {
	Error(format string, args ...interface{})
}

// ValidateAll checks every settings group against its domain constraints and
// returns a per-group pass/fail map. Invalid values are logged, never raised:
// callers must inspect the returned map to detect failure.
func (c *Config) ValidateAll(log Logger) map[string]bool {
	return map[string]bool{
		"firebase": c.validateFirebase(log),
		"trading":  c.validateTrading(log),
		"rl":       c.validateRL(log),
	}
}

func (c *Config) validateFirebase(log Logger) bool {
	if c.Firebase.ProjectID == "" {
		log.Error("FIREBASE_PROJECT_ID not configured")
		return false
	}
	if _, err := os.Stat(c.Firebase.CredentialsPath); err != nil {
		log.Error("Firebase credentials not found at %s", c.Firebase.CredentialsPath)
		return false
	}
	return true
}

func (c *Config) validateTrading(log Logger) bool {
	if c.Trading.MaxPositionSize <= 0 {
		log.Error("MAX_POSITION_SIZE must be positive")
		return false
	}
	if c.Trading.RiskPerTrade <= 0 || c.Trading.RiskPerTrade > 1 {
		log.Error("RISK_PER_TRADE must be between 0 and 1")
		return false
	}
	return true
}

func (c *Config) validateRL(log Logger) bool {
	if c.RL.LearningRate <= 0 || c.RL.LearningRate > 1 {
		log.Error("RL_LEARNING_RATE must be between 0 and 1")
		return false
	}
	if c.RL.ExplorationRate < 0 || c.RL.ExplorationRate > 1 {
		log.Error("RL_EXPLORATION_RATE must be between 0 and 1")
		return false
	}
	return true
}
