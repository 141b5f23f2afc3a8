package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	RedisURL     string
	AdminAddress string // holder address of the administrative identity
	AdminKeyHash string // bcrypt hash checked by the AuthorizeAdmin middleware

	// DAO parameter seeds, written to the DAOConfig row on first boot only.
	// Runtime changes go through PATCH /governance/update-parameters.
	ProposalThreshold int64
	VotingPeriod      time.Duration
	QuorumBps         int64

	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	threshold := viper.GetInt64("DAO_PROPOSAL_THRESHOLD")
	if threshold == 0 {
		threshold = 100
	}
	period := viper.GetDuration("DAO_VOTING_PERIOD")
	if period == 0 {
		period = 7 * 24 * time.Hour
	}
	quorum := viper.GetInt64("DAO_QUORUM_BPS")
	if quorum == 0 {
		quorum = 1000 // 10%
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		AdminAddress:        viper.GetString("DAO_ADMIN_ADDRESS"),
		AdminKeyHash:        viper.GetString("DAO_ADMIN_KEY_HASH"),
		ProposalThreshold:   threshold,
		VotingPeriod:        period,
		QuorumBps:           quorum,
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}
