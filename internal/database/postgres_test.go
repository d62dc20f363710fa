package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/form-guide/internal/config"
)

func TestConnString(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "form_guide"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=form_guide sslmode=disable", ConnString(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, ConnString(cfg), "sslmode=require")
}

func TestSchemaIsIdempotent(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"runs", "scored_rows", "value_bets"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.NotContains(t, schema, "DROP ")
}
