package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "DOCFLOW_"

// parseEnv loads envFile (when present) into the process environment, then
// overlays every DOCFLOW_* variable that is set onto config. Variables that
// are already set win over the file.
func parseEnv(config *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return applyEnv(config, os.LookupEnv)
}

type lookupFunc func(string) (string, bool)

func applyEnv(c *Config, lookup lookupFunc) error {
	e := envReader{lookup: lookup}

	e.str("HTTP_ADDR", &c.HTTPAddr)
	e.str("DATABASE_DSN", &c.DatabaseDSN)
	e.str("SECRET_KEY", &c.SecretKey)
	e.duration("ACCESS_TOKEN_TTL", &c.AccessTokenTTL)

	e.str("S3_ACCESS_KEY", &c.S3AccessKey)
	e.str("S3_SECRET_KEY", &c.S3SecretKey)
	e.str("S3_BUCKET", &c.S3Bucket)
	e.str("S3_REGION", &c.S3Region)
	e.str("S3_BASE_ENDPOINT", &c.S3BaseEndpoint)
	e.boolean("S3_USE_PATH_STYLE", &c.S3UsePathStyle)
	e.int64("S3_MULTIPART_THRESHOLD", &c.S3MultipartThreshold)

	e.duration("PRESIGN_TTL", &c.PresignTTL)
	e.duration("SHARE_LINK_TTL", &c.ShareLinkTTL)
	e.duration("BIN_RETENTION", &c.BinRetention)
	e.int64("MAX_UPLOAD_BYTES", &c.MaxUploadBytes)

	e.str("PUBLIC_BASE_URL", &c.PublicBaseURL)
	e.str("API_PREFIX", &c.APIPrefix)

	e.str("SMTP_HOST", &c.SMTPHost)
	e.integer("SMTP_PORT", &c.SMTPPort)
	e.str("SMTP_USERNAME", &c.SMTPUsername)
	e.str("SMTP_PASSWORD", &c.SMTPPassword)
	e.str("SMTP_FROM", &c.SMTPFrom)

	e.str("LOG_BACKEND", &c.LogBackend)
	e.str("LOG_LEVEL", &c.LogLevel)

	e.float("REDEEM_RATE_PER_SECOND", &c.RedeemRatePerSecond)
	e.integer("REDEEM_BURST", &c.RedeemBurst)
	e.list("TRUSTED_PROXIES", &c.TrustedProxies)

	return e.err
}

// envReader remembers the first conversion error so call sites stay flat.
type envReader struct {
	lookup lookupFunc
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := e.lookup(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *envReader) fail(name string, err error) {
	e.err = fmt.Errorf("env %s%s: %w", EnvPrefix, name, err)
}

func (e *envReader) str(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) duration(name string, dst *time.Duration) {
	if v, ok := e.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = d
	}
}

func (e *envReader) boolean(name string, dst *bool) {
	if v, ok := e.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) integer(name string, dst *int) {
	if v, ok := e.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) int64(name string, dst *int64) {
	if v, ok := e.get(name); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = n
	}
}

// list splits a comma separated value, dropping blank items.
func (e *envReader) list(name string, dst *[]string) {
	if v, ok := e.get(name); ok {
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*dst = out
	}
}

func (e *envReader) float(name string, dst *float64) {
	if v, ok := e.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = f
	}
}
