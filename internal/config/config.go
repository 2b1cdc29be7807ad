package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
)

const devJWTSecret = "dev-secret-change-in-production"

// TokenExpiry is the fixed lifetime of an issued session token.
const TokenExpiry = time.Hour

var (
	ErrMissingJWTSecret  = errors.New("JWT_SECRET must be set in production environment")
	ErrUnknownHashScheme = errors.New("PASSWORD_HASH must be bcrypt or argon2id")
	ErrBcryptCostRange   = fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
)

type Config struct {
	Port        string
	Env         string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	HashScheme  string
	BcryptCost  int
	CORSOrigins []string
}

func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "5000"),
		Env:         getEnv("ENV", "development"),
		DBHost:      getEnv("DB_HOST", "127.0.0.1:3306"),
		DBUser:      getEnv("DB_USER", "root"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_DATABASE", "todos"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:   TokenExpiry,
		HashScheme:  strings.ToLower(getEnv("PASSWORD_HASH", "bcrypt")),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing BCRYPT_COST: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Config{}, ErrBcryptCostRange
	}
	cfg.BcryptCost = cost

	if cfg.HashScheme != "bcrypt" && cfg.HashScheme != "argon2id" {
		return Config{}, ErrUnknownHashScheme
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}

// DSN returns DATABASE_DSN verbatim when set, otherwise a MySQL DSN assembled
// from the DB_* variables.
func (c Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}

	addr := c.DBHost
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(strings.Trim(addr, "[]"), "3306")
	}

	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = c.DBName
	mc.ParseTime = true
	return mc.FormatDSN()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
