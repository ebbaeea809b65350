package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the production backend used when API_URL is not set.
const DefaultAPIURL = "https://backend-photo-jay.onrender.com"

type Config struct {
	// Console
	APIURL         string
	AccessToken    string
	AdminUserName  string
	AdminPassword  string
	RequestTimeout time.Duration
	GatewayRPS     float64
	MetricsAddr    string

	// Stub API
	ServerPort        string
	JWTSecret         string
	AccessTokenMaxAge int

	DatabaseURL   string
	RedisURL      string
	StatsCacheTTL time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	apiURL := strings.TrimSuffix(strings.TrimSpace(os.Getenv("API_URL")), "/")
	if apiURL == "" {
		log.Printf("WARNING: API_URL not set - defaulting to %s", DefaultAPIURL)
		apiURL = DefaultAPIURL
	}

	requestTimeout, err := strconv.Atoi(os.Getenv("REQUEST_TIMEOUT_SECONDS"))
	if err != nil || requestTimeout <= 0 {
		requestTimeout = 10
	}

	gatewayRPS, err := strconv.ParseFloat(os.Getenv("GATEWAY_RPS"), 64)
	if err != nil || gatewayRPS < 0 {
		gatewayRPS = 5
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 900
	}

	statsCacheTTL, err := strconv.Atoi(os.Getenv("STATS_CACHE_TTL_SECONDS"))
	if err != nil || statsCacheTTL <= 0 {
		statsCacheTTL = 30
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	return &Config{
		APIURL:         apiURL,
		AccessToken:    os.Getenv("ACCESS_TOKEN"),
		AdminUserName:  os.Getenv("ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		RequestTimeout: time.Duration(requestTimeout) * time.Second,
		GatewayRPS:     gatewayRPS,
		MetricsAddr:    os.Getenv("METRICS_ADDR"),

		ServerPort:        serverPort,
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenMaxAge: accessTokenMaxAge,

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		StatsCacheTTL: time.Duration(statsCacheTTL) * time.Second,
	}, nil
}
