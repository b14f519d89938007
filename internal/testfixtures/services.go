package testfixtures

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/eventboard/internal/application"
	"github.com/example/eventboard/internal/persistence"
	"github.com/example/eventboard/internal/persistence/memory"
)

// TokenSecret is the signing secret used by factory-built token services.
const TokenSecret = "testfixtures-token-secret-0123456789"

// ServiceFactory assists tests with constructing application services using
// deterministic clocks and a shared in-memory store.
type ServiceFactory struct {
	Clock    *Clock
	Store    *memory.Store
	TokenTTL time.Duration
	Logger   *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:    NewClock(time.Time{}),
		TokenTTL: application.DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.Store == nil {
		factory.Store = memory.New(factory.Clock.NowFunc())
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithTokenTTL overrides the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.TokenTTL = ttl
	}
}

// WithLogger routes service logs to logger.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// NewTokenService builds a token service driven by the factory clock.
func (f *ServiceFactory) NewTokenService() *application.TokenService {
	return application.NewTokenService(TokenSecret, f.TokenTTL, "eventboard", f.Clock.NowFunc())
}

// AccountServiceDeps captures dependencies for constructing an account service.
// Zero values fall back to the factory store, clock and token service.
type AccountServiceDeps struct {
	Accounts persistence.AccountRepository
	Tokens   *application.TokenService
	Now      func() time.Time
}

// NewAccountService builds an account service. Hashing uses the minimum bcrypt
// cost to keep tests fast.
func (f *ServiceFactory) NewAccountService(deps AccountServiceDeps) *application.AccountService {
	accounts := deps.Accounts
	if accounts == nil {
		accounts = f.Store
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = f.NewTokenService()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewAccountServiceWithLogger(
		accounts,
		application.NewBcryptHasher(bcrypt.MinCost),
		tokens,
		now,
		f.Logger,
	)
}

// EventServiceDeps captures dependencies for constructing an event service.
type EventServiceDeps struct {
	Events persistence.EventRepository
	Now    func() time.Time
}

// NewEventService builds an event service using the supplied dependencies.
func (f *ServiceFactory) NewEventService(deps EventServiceDeps) *application.EventService {
	events := deps.Events
	if events == nil {
		events = f.Store
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewEventServiceWithLogger(events, now, f.Logger)
}
