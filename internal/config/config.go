package config

import (
	"os"
	"strconv"
	"time"
)

type CloudBackend string

const (
	CloudNone      CloudBackend = "none"
	CloudFirestore CloudBackend = "firestore"
	CloudSupabase  CloudBackend = "supabase"
)

type LogFormat string

const (
	// LogJSON is the machine-readable daemon format on stdout.
	LogJSON LogFormat = "json"
	// LogConsole is the human-readable text format on stderr.
	LogConsole LogFormat = "console"
)

type Config struct {
	LogLevel        string
	LogFormat       LogFormat
	ListenAddr      string
	DBPath          string
	CloudBackend    CloudBackend
	ProjectID       string
	FirebaseAPIKey  string
	FirebaseIDToken string
	SupabaseURL     string
	SupabaseAnonKey string
	SyncStreaming   bool
	PollInterval    time.Duration
}

func New() *Config {
	return &Config{
		LogLevel:        os.Getenv("LOGLEVEL"),
		LogFormat:       getLogFormat(os.Getenv("LOGFORMAT")),
		ListenAddr:      getOrDefault("LISTENADDR", ":8080"),
		DBPath:          getOrDefault("DBPATH", "expenses.db"),
		CloudBackend:    getCloudBackend(os.Getenv("CLOUDBACKEND")),
		ProjectID:       os.Getenv("PROJECTID"),
		FirebaseAPIKey:  os.Getenv("FIREBASEAPIKEY"),
		FirebaseIDToken: os.Getenv("FIREBASEIDTOKEN"),
		SupabaseURL:     os.Getenv("SUPABASEURL"),
		SupabaseAnonKey: os.Getenv("SUPABASEANONKEY"),
		SyncStreaming:   getBool("SYNCSTREAMING"),
		PollInterval:    getDuration("POLLINTERVAL", 30*time.Second),
	}
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getLogFormat(format string) LogFormat {
	if format == "console" {
		return LogConsole
	}
	return LogJSON
}

func getCloudBackend(backend string) CloudBackend {
	switch backend {
	case "firestore":
		return CloudFirestore
	case "supabase":
		return CloudSupabase
	default:
		return CloudNone
	}
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return false
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
