package config

import (
	"os"
	"strconv"
	"time"
)

type envVarsService struct {
}

// NewEnvVars returns a config service backed by environment variables with
// sensible defaults. Env vars are expected to be loaded from a .env file by
// the caller in dev mode.
func NewEnvVars() IService {
	return &envVarsService{}
}

func (svc *envVarsService) GetModeMaxShutdownTime() int {
	return intFromEnv("MODE_MAX_SHUTDOWN_TIME", 5)
}

func (svc *envVarsService) GetCapturePeriod() time.Duration {
	// 33ms holds the default 30 frames/second cadence
	return durationFromEnv("CAPTURE_PERIOD", 33*time.Millisecond)
}

func (svc *envVarsService) GetFrameBufferCapacity() int {
	return intFromEnv("FRAME_BUFFER_CAPACITY", 10)
}

func (svc *envVarsService) GetCacheMaxSize() int {
	return intFromEnv("CACHE_MAX_SIZE", 200)
}

func (svc *envVarsService) GetStreamPollInterval() time.Duration {
	return durationFromEnv("STREAM_POLL_INTERVAL", 10*time.Millisecond)
}

func (svc *envVarsService) GetSchedulerStopTimeout() time.Duration {
	return durationFromEnv("SCHEDULER_STOP_TIMEOUT", 5*time.Second)
}

func (svc *envVarsService) GetStatsPeriod() time.Duration {
	return durationFromEnv("STATS_PERIOD", 10*time.Second)
}

func (svc *envVarsService) GetCaptureDisplay() int {
	return intFromEnv("CAPTURE_DISPLAY", 0)
}

func (svc *envVarsService) GetVideoInputURL() string {
	return os.Getenv("VIDEO_INPUT_URL")
}

func (svc *envVarsService) GetSnapshotsFolder() string {
	if v := os.Getenv("SNAPSHOTS_FOLDER"); v != "" {
		return v
	}
	return "./snapshots"
}

func intFromEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
