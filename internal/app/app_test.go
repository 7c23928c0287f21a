package app

import (
	"testing"

	"clubsphere/internal/config"
	"clubsphere/internal/logger"
	"clubsphere/internal/service"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOpenLockerWithoutRedis(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar(), Name: "app"}

	a := &App{Config: &config.Config{}}
	if err := a.openLocker(log); err != nil {
		t.Fatalf("openLocker: %v", err)
	}
	if _, ok := a.Locker.(service.NopLocker); !ok {
		t.Fatalf("locker = %T, want service.NopLocker", a.Locker)
	}
	if n := logs.FilterMessage("redis.addr is empty, request locks are disabled").Len(); n != 1 {
		t.Fatalf("warnings = %v", logs.All())
	}
	if len(a.closers) != 0 {
		t.Fatalf("closers = %d, want 0", len(a.closers))
	}
}
