package logger

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// Module provides the fx dependency injection options for the logger package
var Module = fx.Options(
	fx.Provide(NewSinkLogger),
	fx.Invoke(RegisterClose),
)

// RegisterClose closes the log file when the application stops
func RegisterClose(lifecycle fx.Lifecycle, log Logger) {
	closer, ok := log.(io.Closer)
	if !ok {
		return
	}

	lifecycle.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return closer.Close()
		},
	})
}
