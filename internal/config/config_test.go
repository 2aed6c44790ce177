package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestDecode_Defaults(t *testing.T) {
	cfg, err := Decode(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "admin", cfg.App.AdminUsername)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestDecode_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("MAIL_HOST", "smtp.internal")
	t.Setenv("APP_PUBLIC_URL", "https://books.example.com")

	cfg, err := Decode(newViper())
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "smtp.internal", cfg.Mail.Host)
	assert.Equal(t, "https://books.example.com", cfg.App.PublicURL)
}
