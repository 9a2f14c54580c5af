package config

import "time"

type IService interface {
	GetModeMaxShutdownTime() int
	GetCapturePeriod() time.Duration
	GetFrameBufferCapacity() int
	GetCacheMaxSize() int
	GetStreamPollInterval() time.Duration
	GetSchedulerStopTimeout() time.Duration
	GetStatsPeriod() time.Duration
	GetCaptureDisplay() int
	GetVideoInputURL() string
	GetSnapshotsFolder() string
}
