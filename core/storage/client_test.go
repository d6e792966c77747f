package storage_test

import (
	"testing"
	"time"

	"georecon/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		cfg    storage.Config
		host   string
		secure bool
	}{
		{"Bare host", storage.Config{Endpoint: "localhost:9000"}, "localhost:9000", false},
		{"Bare host with SSL", storage.Config{Endpoint: "minio.internal:9000", UseSSL: true}, "minio.internal:9000", true},
		{"HTTP scheme", storage.Config{Endpoint: "http://localhost:9000/"}, "localhost:9000", false},
		{"HTTPS scheme forces TLS", storage.Config{Endpoint: "https://s3.amazonaws.com"}, "s3.amazonaws.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure := storage.Endpoint(tt.cfg)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, storage.Timeout(storage.Config{}))
	assert.Equal(t, 5*time.Second, storage.Timeout(storage.Config{TimeoutSeconds: 5}))
}

func TestNewClient(t *testing.T) {
	t.Run("Valid config", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "gazetteer",
			Region:    "us-east-1",
		})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("HTTPS endpoint", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("Empty endpoint", func(t *testing.T) {
		_, err := storage.NewClient(storage.Config{})
		assert.ErrorContains(t, err, "endpoint is empty")
	})
}
