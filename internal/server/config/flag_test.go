package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("overrides from flags", func(t *testing.T) {
		os.Args = []string{"testbin",
			"-a", ":8080",
			"-d", "postgres://flags/db",
			"-s", "flag-secret",
			"-t", "48",
			"-k", "bot-token",
			"-i", "chat-id",
			"-u", "s3user",
			"-p", "s3pass",
			"-b", "s3bucket",
			"-g", "s3region",
			"-e", "http://minio:9000/",
		}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, ":8080", cfg.EndpointAddr)
		assert.Equal(t, "postgres://flags/db", cfg.DatabaseDSN)
		assert.Equal(t, "flag-secret", cfg.SecretKey)
		assert.Equal(t, 48*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, "bot-token", cfg.TelegramBotToken)
		assert.Equal(t, "chat-id", cfg.TelegramChatID)
		assert.Equal(t, "s3user", cfg.S3RootUser)
		assert.Equal(t, "s3pass", cfg.S3RootPassword)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
		assert.Equal(t, "s3region", cfg.S3Region)
		assert.Equal(t, "http://minio:9000/", cfg.S3BaseEndpoint)
	})

	t.Run("no flags keep defaults", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, ":3000", cfg.EndpointAddr)
		assert.Equal(t, 30*24*time.Hour, cfg.TokenValidityDuration)
	})

	t.Run("foreign flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1", "-a", ":9090"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, ":9090", cfg.EndpointAddr)
	})
}
