package pipeline

import (
	"io"
	"log/slog"
	"math"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func abs(x float64) float64 {
	return math.Abs(x)
}
