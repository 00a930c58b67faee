package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-booking-client/api"
	"github.com/jrsteele09/go-booking-client/authz"
	"github.com/jrsteele09/go-booking-client/credential"
	"github.com/jrsteele09/go-booking-client/guard"
	"github.com/jrsteele09/go-booking-client/internal/config"
	"github.com/jrsteele09/go-booking-client/notify"
	"github.com/jrsteele09/go-booking-client/principal"
	"github.com/jrsteele09/go-booking-client/request"
	"github.com/jrsteele09/go-booking-client/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Client stopped")
	}
	log.Info().Msg("Client stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := config.New()
	displayAppname(cfg.GetAppName())

	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	notifier := notify.LogNotifier{Logger: logger}

	storage, err := credential.NewFileStorage(cfg.GetDataFolder())
	if err != nil {
		return fmt.Errorf("credential storage: %w", err)
	}
	store := credential.NewStore(storage, cfg.GetStorageKey(), logger)

	authAPI := api.NewClient(cfg.GetBaseURL(), api.WithLogger(logger), api.WithScheme(cfg.GetAuthScheme()))

	controller, err := session.NewController(authAPI, store, notifier,
		session.WithRefreshInterval(cfg.GetRefreshInterval()),
		session.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("session controller: %w", err)
	}
	defer controller.Close()

	unsubscribe := controller.Subscribe(func(sess session.Session) {
		logger.Info().
			Bool("authenticated", authz.IsAuthenticated(sess)).
			Bool("admin", authz.HasRole(sess, principal.RoleAdmin)).
			Msg("Session changed")
	})
	defer unsubscribe()

	hydrateCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = controller.Hydrate(hydrateCtx)
	cancel()
	if err != nil {
		// A failed initial refresh just means we start logged out.
		logger.Warn().Err(err).Msg("No session restored")
	}

	if !authz.IsAuthenticated(controller.Current()) {
		if err := loginFromEnv(controller, logger); err != nil {
			logger.Warn().Err(err).Msg("Login failed")
		}
	}

	if authz.IsAuthenticated(controller.Current()) {
		showProfile(cfg, controller, logger)
	}

	demoGuards(controller, notifier, cfg, logger)

	waitForStopSignal()
	return nil
}

// loginFromEnv signs in with BOOKING_USERNAME/BOOKING_PASSWORD when
// both are set.
func loginFromEnv(controller *session.Controller, logger zerolog.Logger) error {
	username := os.Getenv("BOOKING_USERNAME")
	password := os.Getenv("BOOKING_PASSWORD")
	if username == "" || password == "" {
		logger.Info().Msg("No credentials in environment, staying anonymous")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return controller.Login(ctx, username, password)
}

// showProfile fetches the account record through an authenticated
// client whose transport injects the live access token and logs the
// session out on a 401.
func showProfile(cfg config.Config, controller *session.Controller, logger zerolog.Logger) {
	resourceAPI := api.NewClient(cfg.GetBaseURL(),
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{
			Timeout: 30 * time.Second,
			Transport: &request.Transport{
				Source:         controller,
				Scheme:         cfg.GetAuthScheme(),
				OnUnauthorized: controller.Logout,
			},
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	profile, err := resourceAPI.Profile(ctx, "")
	if err != nil {
		logger.Warn().Err(err).Msg("Profile fetch failed")
		return
	}
	logger.Info().
		Str("username", profile.Username).
		Str("email", profile.Email).
		Str("role", profile.Role).
		Msg("Signed in")
}

// demoGuards runs the route guards against the current session the
// way the view layer would before rendering a protected page.
func demoGuards(controller *session.Controller, notifier notify.Notifier, cfg config.Config, logger zerolog.Logger) {
	navigator := logNavigator{logger: logger}

	adminGuard, err := guard.New(guard.RequireRole(principal.RoleAdmin), notifier, navigator,
		guard.WithLoginPath(cfg.GetLoginPath()),
		guard.WithUnauthorizedPath(cfg.GetUnauthorizedPath()),
		guard.WithRedirectDelay(cfg.GetRedirectDelay()),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Guard setup failed")
		return
	}

	outcome := adminGuard.Evaluate(controller.Current(), "/admin")
	logger.Info().Int("outcome", int(outcome)).Str("path", "/admin").Msg("Admin guard evaluated")
}

type logNavigator struct {
	logger zerolog.Logger
}

func (n logNavigator) Redirect(path string) {
	n.logger.Info().Str("path", path).Msg("Redirect")
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
