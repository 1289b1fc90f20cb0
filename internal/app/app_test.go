package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"

	"logview/internal/app/cli"
	"logview/internal/config/logger"
)

// mockLifecycle implements fx.Lifecycle for testing
type mockLifecycle struct {
	onAppend func(fx.Hook)
}

func (m *mockLifecycle) Append(hook fx.Hook) {
	if m.onAppend != nil {
		m.onAppend(hook)
	}
}

// mockShutdowner records the options it was shut down with
type mockShutdowner struct {
	mu    sync.Mutex
	calls int
	opts  []fx.ShutdownOption
}

func (m *mockShutdowner) Shutdown(opts ...fx.ShutdownOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.opts = opts

	return nil
}

func newTestLogger(ctrl *gomock.Controller) *logger.MockLogger {
	mockLog := logger.NewMockLogger(ctrl)
	noopLogger := zerolog.New(io.Discard)
	noopEvent := noopLogger.Debug()
	mockLog.EXPECT().Debug().Return(noopEvent).AnyTimes()
	mockLog.EXPECT().Error().Return(noopEvent).AnyTimes()

	return mockLog
}

func Test_NewApp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	opts := &cli.Options{Type: cli.CommandVersion}

	application := NewApp(mockCLI, opts, &mockShutdowner{}, mockLogger)

	require.NotNil(t, application)
	assert.Equal(t, mockCLI, application.cli)
	assert.Equal(t, opts, application.opts)
	assert.Equal(t, mockLogger, application.log)
	assert.NoError(t, application.ctx.Err())
}

func Test_execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	opts := &cli.Options{Type: cli.CommandServe}
	app := NewApp(mockCLI, opts, &mockShutdowner{}, newTestLogger(ctrl))

	t.Run("Success", func(t *testing.T) {
		mockCLI.EXPECT().Run(app.ctx, opts).Return(nil)
		assert.NoError(t, app.execute())
	})

	t.Run("Failure", func(t *testing.T) {
		testErr := errors.New("server failed")
		mockCLI.EXPECT().Run(app.ctx, opts).Return(testErr)
		assert.Equal(t, testErr, app.execute())
	})
}

func Test_App_Run(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "Success"},
		{name: "Failure", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCLI := cli.NewMockCLI(ctrl)
			shutdowner := &mockShutdowner{}
			app := NewApp(mockCLI, &cli.Options{}, shutdowner, newTestLogger(ctrl))

			mockCLI.EXPECT().Run(gomock.Any(), gomock.Any()).Return(tt.err)

			app.Run()

			select {
			case <-app.done:
			default:
				t.Fatal("done should be closed")
			}

			assert.Equal(t, 1, shutdowner.calls)
			assert.Len(t, shutdowner.opts, 1)
		})
	}
}

func Test_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app := NewApp(cli.NewMockCLI(ctrl), &cli.Options{}, &mockShutdowner{}, newTestLogger(ctrl))

	var hooks []fx.Hook

	Register(&mockLifecycle{onAppend: func(hook fx.Hook) { hooks = append(hooks, hook) }}, app)

	require.Len(t, hooks, 1)
	assert.NotNil(t, hooks[0].OnStart)
	assert.NotNil(t, hooks[0].OnStop)
}

func Test_Register_Hooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	shutdowner := &mockShutdowner{}
	app := NewApp(mockCLI, &cli.Options{Type: cli.CommandServe}, shutdowner, newTestLogger(ctrl))

	mockCLI.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ *cli.Options) error {
		<-ctx.Done()
		return nil
	})

	var hook fx.Hook

	Register(&mockLifecycle{onAppend: func(h fx.Hook) { hook = h }}, app)

	require.NoError(t, hook.OnStart(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, hook.OnStop(stopCtx))
	assert.Error(t, app.ctx.Err())

	assert.Eventually(t, func() bool {
		shutdowner.mu.Lock()
		defer shutdowner.mu.Unlock()

		return shutdowner.calls == 1
	}, time.Second, 10*time.Millisecond)
}

func Test_Register_OnStopTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app := NewApp(cli.NewMockCLI(ctrl), &cli.Options{}, &mockShutdowner{}, newTestLogger(ctrl))

	var hook fx.Hook

	Register(&mockLifecycle{onAppend: func(h fx.Hook) { hook = h }}, app)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, hook.OnStop(ctx), context.Canceled)
}
