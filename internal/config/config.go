package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string         `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string         `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	Storage     StorageConfig  `yaml:"storage"`
	HTTP        HTTPConfig     `yaml:"http"`
	GRPC        GRPCConfig     `yaml:"grpc"`
	JWT         JWTConfig      `yaml:"jwt"`
	Realtime    RealtimeConfig `yaml:"realtime"`
}

type StorageConfig struct {
	AutoMigrate bool `yaml:"auto_migrate" env:"STORAGE_AUTO_MIGRATE" env-default:"false"`
}

type HTTPConfig struct {
	Port        int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	// WriteTimeout of 0 disables it. SSE streams clear it per request.
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"0s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
}

type GRPCConfig struct {
	Port int `yaml:"port" env:"GRPC_PORT" env-default:"44044"`
}

type JWTConfig struct {
	Secret    string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	AccessTTL time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"24h"`
}

type RealtimeConfig struct {
	SendBuffer       int           `yaml:"send_buffer" env:"REALTIME_SEND_BUFFER" env-default:"16"`
	WriteWait        time.Duration `yaml:"write_wait" env:"REALTIME_WRITE_WAIT" env-default:"10s"`
	PongWait         time.Duration `yaml:"pong_wait" env:"REALTIME_PONG_WAIT" env-default:"60s"`
	BroadcastTimeout time.Duration `yaml:"broadcast_timeout" env:"REALTIME_BROADCAST_TIMEOUT" env-default:"5s"`
	AllowedOrigins   []string      `yaml:"allowed_origins" env:"REALTIME_ALLOWED_ORIGINS"`
}

// MustLoad reads the config from the path given by -config or CONFIG_PATH.
func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		log.Fatal("config path is empty")
	}

	return Load(path)
}

func Load(path string) *Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", path)
	}

	var config Config
	err := cleanenv.ReadConfig(path, &config)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &config
}

// fetchConfigPath prefers the -config flag over the CONFIG_PATH env variable.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
