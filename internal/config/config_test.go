package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost:5432/watch_keeper")
	t.Setenv("INITIAL_CAPTAIN_PASSWORD", "secret")
	t.Setenv("INITIAL_CAPTAIN_EMAIL", "captain@example.com")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("SEED_USER_PASSWORD", "seed-secret")
	t.Setenv("EMAIL_USER_DOMAIN", "example.com")
	t.Setenv("EMAIL_SMTP_USERNAME", "noreply@example.com")
	t.Setenv("EMAIL_SMTP_PASSWORD", "smtp-secret")
	t.Setenv("EMAIL_SMTP_HOST", "smtp.example.com")
	t.Setenv("RABBITMQ_DSN", "amqp://localhost:5672")
	t.Setenv("REDIS_PASSWORD", "redis-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "3000", cfg.Server.Port)
	require.Equal(t, 15, cfg.Vessel.DefaultCheckInInterval)
	require.Equal(t, 30, cfg.Reminder.DispatchInterval)
	require.Equal(t, 60, cfg.Liveness.SweepInterval)
	require.Equal(t, 10, cfg.Liveness.AlertResendMinutes)
	require.Equal(t, "船长", cfg.InitialCaptain.FullName)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	// t.Setenv 已登记恢复，直接删掉这个必填项
	os.Unsetenv("DATABASE_DSN")

	cfg, err := LoadConfig()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoadConfigInvalidValue(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-number")

	// 解析失败时必须返回错误，绝不能带着零值配置继续启动
	cfg, err := LoadConfig()
	require.Error(t, err)
	require.Nil(t, cfg)
}
