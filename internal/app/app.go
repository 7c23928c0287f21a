// Package app wires configuration into stores, collaborators and services.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubsphere/internal/auth"
	"clubsphere/internal/config"
	"clubsphere/internal/logger"
	"clubsphere/internal/notify"
	"clubsphere/internal/pkg"
	"clubsphere/internal/repository/mongodb"
	"clubsphere/internal/repository/rdb"
	"clubsphere/internal/repository/redis"
	"clubsphere/internal/router"
	"clubsphere/internal/service"
)

var errPaymentsDisabled = errors.New("payments are not configured")

type App struct {
	Config   *config.Config
	Stores   service.Stores
	Locker   service.Locker
	Notifier service.Notifier
	Payments service.PaymentProvider
	Verifier auth.TokenVerifier

	closers []func() error
}

// New opens every backend named in cfg. Call Close when done, even after an error.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	log := logger.Named("app")

	if err := a.openStores(ctx); err != nil {
		return a, err
	}

	if err := a.openLocker(log); err != nil {
		return a, err
	}

	if err := a.openNotifier(); err != nil {
		return a, err
	}

	a.Payments = disabledPayments{}
	if cfg.Payments.StripeSecretKey != "" {
		p, err := pkg.NewStripeProvider(cfg.Payments.StripeSecretKey)
		if err != nil {
			return a, err
		}
		a.Payments = p
	} else {
		log.Warn("payments.stripe-secret-key is empty, payment intents will fail")
	}

	return a, nil
}

func (a *App) openStores(ctx context.Context) error {
	cfg := a.Config.Store
	if cfg.Driver == "mongo" {
		client, db, err := mongodb.Connect(ctx, cfg.DSN, cfg.Database)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(ctx)
		})
		a.Stores = service.Stores{
			Users:         mongodb.NewUserRepository(db),
			Clubs:         mongodb.NewClubRepository(db),
			Events:        mongodb.NewEventRepository(db),
			Memberships:   mongodb.NewMembershipRepository(db),
			Registrations: mongodb.NewRegistrationRepository(db),
			Payments:      mongodb.NewPaymentRepository(db),
		}
		return nil
	}

	db, err := rdb.Open(cfg.Driver, cfg.DSN, a.Config.Settings.Debug)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	a.Stores = service.Stores{
		Users:         rdb.NewUserRepository(db),
		Clubs:         rdb.NewClubRepository(db),
		Events:        rdb.NewEventRepository(db),
		Memberships:   rdb.NewMembershipRepository(db),
		Registrations: rdb.NewRegistrationRepository(db),
		Payments:      rdb.NewPaymentRepository(db),
	}
	return nil
}

// openLocker falls back to NopLocker, which serialises nothing, when no redis is configured.
func (a *App) openLocker(log *logger.Logger) error {
	cfg := a.Config.Redis
	if cfg.Addr == "" {
		log.Warn("redis.addr is empty, request locks are disabled")
		a.Locker = service.NopLocker{}
		return nil
	}
	client, err := redis.NewClient(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, client.Close)
	a.Locker = redis.NewLocker(client, cfg.LockTTL)
	return nil
}

func (a *App) openNotifier() error {
	var sinks notify.Multi
	if len(a.Config.Kafka.Brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: a.Config.Kafka.Brokers,
			Topic:   a.Config.Kafka.Topic,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, producer.Close)
		sinks = append(sinks, notify.NewKafka(producer))
	}
	smtp := pkg.SMTPConfig{
		Host:     a.Config.SMTP.Host,
		Port:     a.Config.SMTP.Port,
		Username: a.Config.SMTP.Username,
		Password: a.Config.SMTP.Password,
		From:     a.Config.SMTP.From,
	}
	if smtp.Enabled() {
		sinks = append(sinks, notify.NewMail(smtp))
	}

	if len(sinks) == 0 {
		a.Notifier = service.NopNotifier{}
		return nil
	}
	async := notify.NewAsync(sinks, 0)
	// Drain before the producers above are closed.
	a.closers = append(a.closers, func() error {
		async.Close()
		return nil
	})
	a.Notifier = async
	return nil
}

// OpenVerifier builds the ID token verifier the API authenticates with.
func (a *App) OpenVerifier(ctx context.Context) error {
	cfg := a.Config.Auth
	switch cfg.Provider {
	case "local":
		v, err := pkg.NewLocalVerifier(cfg.LocalSecret)
		if err != nil {
			return err
		}
		a.Verifier = v
	default:
		v, err := pkg.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.JWKSURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error {
			v.Close()
			return nil
		})
		a.Verifier = v
	}
	return nil
}

func (a *App) Services() router.Services {
	s := a.Stores
	return router.Services{
		Users:         service.NewUserService(s.Users),
		Clubs:         service.NewClubService(s.Clubs, a.Notifier),
		Events:        service.NewEventService(s.Events, s.Clubs),
		Memberships:   service.NewMembershipService(s.Memberships, s.Clubs, a.Locker, a.Notifier),
		Registrations: service.NewRegistrationService(s.Registrations, s.Events, s.Clubs, a.Locker, a.Notifier),
		Payments: service.NewPaymentService(s, a.Payments, a.Locker, a.Notifier,
			service.WithCurrency(a.Config.Payments.Currency)),
		Dashboard: service.NewDashboardService(s),
	}
}

func (a *App) Resolver() *auth.Resolver {
	return auth.NewResolver(a.Verifier, a.Stores.Users)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type disabledPayments struct{}

func (disabledPayments) CreateIntent(context.Context, int64, string, map[string]string) (*pkg.PaymentIntent, error) {
	return nil, errPaymentsDisabled
}

func (disabledPayments) GetIntent(_ context.Context, id string) (*pkg.PaymentIntent, error) {
	return nil, fmt.Errorf("get intent %s: %w", id, errPaymentsDisabled)
}
