package gfx

import (
	"log/slog"
	"os"

	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// SetLogLevel forwards level to the native WebGPU logger. WGPU_LOG_LEVEL,
// when set, takes precedence.
func SetLogLevel(level slog.Level) {
	switch os.Getenv("WGPU_LOG_LEVEL") {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevel_Off)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevel_Error)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevel_Warn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevel_Info)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevel_Debug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevel_Trace)
	default:
		wgpu.SetLogLevel(nativeLevel(level))
	}
}

func nativeLevel(level slog.Level) wgpu.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return wgpu.LogLevel_Debug
	case level <= slog.LevelInfo:
		return wgpu.LogLevel_Info
	case level <= slog.LevelWarn:
		return wgpu.LogLevel_Warn
	}
	return wgpu.LogLevel_Error
}
