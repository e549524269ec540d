package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Temutjin2k/smartrash/config"
	"github.com/Temutjin2k/smartrash/pkg/logger"
)

func TestNewApplication_InvalidMode(t *testing.T) {
	_, err := NewApplication(context.Background(), config.Config{Mode: "driver-service"}, logger.New(io.Discard, "test", "ERROR"))
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestRun_WithoutService(t *testing.T) {
	if err := (&App{}).Run(context.Background()); !errors.Is(err, ErrServiceNotInitialized) {
		t.Fatalf("expected ErrServiceNotInitialized, got %v", err)
	}
}
