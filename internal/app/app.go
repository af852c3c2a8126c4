package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=./app_mock.go -package=app -source=app.go

// Dependency is anything the service needs running while it serves: the chunk server, the
// admin server.
type Dependency interface {
	// Start readies the dependency. Long-running work belongs in its own goroutine.
	Start() error
	// Stop releases whatever Start acquired.
	Stop() error
	// Name is used for logging only.
	Name() string
}

type App struct {
	serviceName string
	deps        []Dependency
	// depFailChan receives the first failure of any dependency's Start.
	depFailChan chan error
	// osSignalChan receives SIGINT and SIGTERM.
	osSignalChan chan os.Signal
	stopCalled   *atomic.Bool
	runCalled    *atomic.Bool
	// stopTimeout bounds the time all dependencies together get to stop.
	stopTimeout time.Duration
}

type Config struct {
	ServiceName string
	StopTimeout time.Duration
}

func (c *Config) validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("service name is required"))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, errors.New("stop timeout is required"))
	}
	return errors.Join(errs...)
}

// CreateApp creates a new application with the provided dependencies. Dependencies start
// in the order given and stop in reverse.
func CreateApp(cfg *Config, deps ...Dependency) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &App{
		serviceName:  cfg.ServiceName,
		deps:         deps,
		stopTimeout:  cfg.StopTimeout,
		stopCalled:   &atomic.Bool{},
		runCalled:    &atomic.Bool{},
		depFailChan:  make(chan error, len(deps)),
		osSignalChan: make(chan os.Signal, 1),
	}, nil
}

// Run starts every dependency and blocks until ctx is cancelled, a signal arrives, or a
// dependency fails to start. It then stops all dependencies.
func (a *App) Run(ctx context.Context) error {
	if !a.runCalled.CompareAndSwap(false, true) {
		return errors.New("run has already been called")
	}

	ctxCancel, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, dep := range a.deps {
		go a.start(dep)
	}

	signal.Notify(a.osSignalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(a.osSignalChan)

	var runErr error
	select {
	case <-ctxCancel.Done():
		log.Info().Str("service", a.serviceName).Msg("context cancelled: shutting down")
	case runErr = <-a.depFailChan:
		log.Error().Err(runErr).Str("service", a.serviceName).Msg("dependency failed to start")
	case sig := <-a.osSignalChan:
		log.Info().Str("service", a.serviceName).Msgf("%s received: shutting down", sig)
	}

	if err := a.stop(); err != nil {
		log.Error().Err(err).Msg("error stopping application")
		return errors.Join(runErr, err)
	}

	return runErr
}

func (a *App) start(dep Dependency) {
	defer func() {
		if err := recover(); err != nil {
			a.depFailChan <- fmt.Errorf("panic in Start() for dependency %s: %v", dep.Name(), err)
		}
	}()

	log.Info().Msg("Starting dependency: " + dep.Name())
	if err := dep.Start(); err != nil {
		a.depFailChan <- fmt.Errorf("failure in Start() for dependency %s: %w", dep.Name(), err)
	}
}

// stop stops every dependency in reverse start order, giving up after the stop timeout.
func (a *App) stop() error {
	if !a.stopCalled.CompareAndSwap(false, true) {
		return errors.New("stop has already been called")
	}

	ctxTo, cancel := context.WithTimeout(context.Background(), a.stopTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for i := len(a.deps) - 1; i >= 0; i-- {
			dep := a.deps[i]
			log.Info().Msg("Stopping dependency: " + dep.Name())
			if err := dep.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("failure in Stop() for dependency %s: %w",
					dep.Name(), err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctxTo.Done():
		return fmt.Errorf("dependencies did not stop within %s: %w", a.stopTimeout, ctxTo.Err())
	}
}
