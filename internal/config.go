package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/errors"
	"github.com/go-playground/validator/v10"
)

// Config is decoded from the environment with Netflix/go-env.
type Config struct {
	LogLevel             string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=8080" validate:"min=1,max=65535"`
	GrpcPort             int           `env:"GRPC_PORT,default=0" validate:"min=0,max=65535"`
	WsPath               string        `env:"WS_PATH,default=/" validate:"startswith=/"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS,default=*"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64" validate:"min=1"`
	BufferSize           int           `env:"BUFFER_SIZE,default=1024" validate:"min=1"`
	ReadLimit            int64         `env:"READ_LIMIT,default=65536" validate:"min=512"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s" validate:"gt=0"`
	PingInterval         time.Duration `env:"PING_INTERVAL,default=30s" validate:"gt=0"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s" validate:"gt=0"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=10" validate:"min=0"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH"`
	LimitEvents          *int          `env:"LIMIT_EVENTS" validate:"omitempty,min=1"`
	EnableModeration     bool          `env:"ENABLE_MODERATION,default=false"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	DebugEndpoints       bool          `env:"DEBUG_ENDPOINTS,default=true"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
}

// Validate checks the decoded values. Every failure wraps ErrInvalidConfig.
func (c Config) Validate(validate *validator.Validate) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) GrpcAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GrpcPort)
}

// Origins splits ALLOWED_ORIGINS on commas, dropping blanks.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
