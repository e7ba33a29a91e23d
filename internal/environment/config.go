package environment

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvConfig holds every knob the runner reads from the environment. A
// missing .env file is fine; defaults keep a local setup working.
type EnvConfig struct {
	// ExecRoot is the directory run directories are created under.
	ExecRoot string
	// WorkspaceRoot is the directory the workspace store keeps files in.
	WorkspaceRoot string

	DockerBin string
	// WatchdogMarginSec is added on top of the per-run time limit for the
	// host-side watchdog.
	WatchdogMarginSec int
	// MaxConcurrent caps how many runs may execute at once.
	MaxConcurrent int
	// MaxOutputBytes bounds captured stdout and stderr, each.
	MaxOutputBytes int

	// LangConfigPath optionally points at a TOML language override file.
	LangConfigPath string

	NatsUrl   string
	ReqSqsUrl string
	AwsRegion string
}

func ReadEnvConfig() *EnvConfig {
	_ = godotenv.Load()

	result := &EnvConfig{
		ExecRoot:          getenv("RUNNER_EXEC_ROOT", "/tmp/runner/runs"),
		WorkspaceRoot:     getenv("RUNNER_WORKSPACE_ROOT", "/tmp/runner/workspaces"),
		DockerBin:         getenv("RUNNER_DOCKER_BIN", "docker"),
		WatchdogMarginSec: getenvInt("RUNNER_WATCHDOG_MARGIN_SEC", 10),
		MaxConcurrent:     getenvInt("RUNNER_MAX_CONCURRENT", 4),
		MaxOutputBytes:    getenvInt("RUNNER_MAX_OUTPUT_BYTES", 64*1024),
		LangConfigPath:    os.Getenv("RUNNER_LANG_CONFIG"),
		NatsUrl:           os.Getenv("RUNNER_NATS_URL"),
		ReqSqsUrl:         os.Getenv("RUNNER_REQ_SQS_URL"),
		AwsRegion:         getenv("RUNNER_AWS_REGION", "eu-central-1"),
	}

	return result
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
