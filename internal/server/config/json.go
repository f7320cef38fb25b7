package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/docflow/internal/flagx"
	"github.com/dmitrijs2005/docflow/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Pointer fields let a
// file override only what it mentions; durations accept "1h" or nanoseconds.
type JSONConfig struct {
	HTTPAddr       *string         `json:"http_addr"`
	DatabaseDSN    *string         `json:"database_dsn"`
	SecretKey      *string         `json:"secret_key"`
	AccessTokenTTL *timex.Duration `json:"access_token_ttl"`

	S3AccessKey          *string `json:"s3_access_key"`
	S3SecretKey          *string `json:"s3_secret_key"`
	S3Bucket             *string `json:"s3_bucket"`
	S3Region             *string `json:"s3_region"`
	S3BaseEndpoint       *string `json:"s3_base_endpoint"`
	S3UsePathStyle       *bool   `json:"s3_use_path_style"`
	S3MultipartThreshold *int64  `json:"s3_multipart_threshold"`

	PresignTTL     *timex.Duration `json:"presign_ttl"`
	ShareLinkTTL   *timex.Duration `json:"share_link_ttl"`
	BinRetention   *timex.Duration `json:"bin_retention"`
	MaxUploadBytes *int64          `json:"max_upload_bytes"`

	PublicBaseURL *string `json:"public_base_url"`
	APIPrefix     *string `json:"api_prefix"`

	SMTPHost     *string `json:"smtp_host"`
	SMTPPort     *int    `json:"smtp_port"`
	SMTPUsername *string `json:"smtp_username"`
	SMTPPassword *string `json:"smtp_password"`
	SMTPFrom     *string `json:"smtp_from"`

	LogBackend *string `json:"log_backend"`
	LogLevel   *string `json:"log_level"`

	RedeemRatePerSecond *float64 `json:"redeem_rate_per_second"`
	RedeemBurst         *int     `json:"redeem_burst"`

	TrustedProxies *[]string `json:"trusted_proxies"`
}

// parseJSON overlays the file named by -c/-config, if any, onto config.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var c JSONConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JSONConfig) apply(config *Config) {
	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenTTL, c.AccessTokenTTL)

	set(&config.S3AccessKey, c.S3AccessKey)
	set(&config.S3SecretKey, c.S3SecretKey)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.S3UsePathStyle, c.S3UsePathStyle)
	set(&config.S3MultipartThreshold, c.S3MultipartThreshold)

	setDuration(&config.PresignTTL, c.PresignTTL)
	setDuration(&config.ShareLinkTTL, c.ShareLinkTTL)
	setDuration(&config.BinRetention, c.BinRetention)
	set(&config.MaxUploadBytes, c.MaxUploadBytes)

	set(&config.PublicBaseURL, c.PublicBaseURL)
	set(&config.APIPrefix, c.APIPrefix)

	set(&config.SMTPHost, c.SMTPHost)
	set(&config.SMTPPort, c.SMTPPort)
	set(&config.SMTPUsername, c.SMTPUsername)
	set(&config.SMTPPassword, c.SMTPPassword)
	set(&config.SMTPFrom, c.SMTPFrom)

	set(&config.LogBackend, c.LogBackend)
	set(&config.LogLevel, c.LogLevel)

	set(&config.RedeemRatePerSecond, c.RedeemRatePerSecond)
	set(&config.RedeemBurst, c.RedeemBurst)
	set(&config.TrustedProxies, c.TrustedProxies)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
