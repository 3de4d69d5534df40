package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile/internal/config"
	"profile/internal/lib/logger/sl"
)

func TestNew_MemoryDriver(t *testing.T) {
	cfg := &config.Config{
		Storage:    config.Storage{Driver: config.DriverMemory},
		HTTPServer: config.HTTPServer{Port: 0, Prefix: "/profile"},
	}

	application, err := New(context.Background(), sl.Discard(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, application.HTTPServer)
	assert.NoError(t, application.Storage.Ping(context.Background()))
	assert.NoError(t, application.CloseStorage())
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.Storage{Driver: "cassandra"}}

	_, err := New(context.Background(), sl.Discard(), cfg)
	assert.ErrorContains(t, err, `unknown storage driver "cassandra"`)
}
