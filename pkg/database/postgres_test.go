package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-attendance-dashboard/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "dash",
		Password: "secret",
		Name:     "attendance_dashboard",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=db port=5432 user=dash password=secret dbname=attendance_dashboard sslmode=disable", dsn)
}
