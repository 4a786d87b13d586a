package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tenangapp/tenang/internal/pkg/clock"
	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/goroutine"
	"github.com/tenangapp/tenang/internal/pkg/hash"
	"github.com/tenangapp/tenang/internal/pkg/idempotency"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
	"github.com/tenangapp/tenang/internal/pkg/mail"
	"github.com/tenangapp/tenang/internal/pkg/messaging"
	"github.com/tenangapp/tenang/internal/pkg/mfa"
	"github.com/tenangapp/tenang/internal/pkg/otp"
	"github.com/tenangapp/tenang/internal/pkg/pgxcasbin"
	"github.com/tenangapp/tenang/internal/pkg/router"
	"github.com/tenangapp/tenang/internal/pkg/sms"
	"github.com/tenangapp/tenang/internal/pkg/storage"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/pkg/validator"
)

// App owns every process wide dependency and tears them down in order
// on shutdown.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// platform
	config config.Config
	ins    instrument.Instrumentation

	// shared utilities
	goroutine       *goroutine.Manager
	validator       validator.Validator
	clock           clock.Clocker
	hmac            hash.Hash
	argon2id        hash.Hash
	bcrypt          hash.Hash
	uid             uid.NumberID
	oid             uid.StringID
	uuid            uid.StringID
	totp            otp.OTP
	jwt             jwt.JWT
	mfaEncryptor    mfa.Encryptor
	mfaRecoveryCode mfa.RecoveryCodeGenerator

	// external resources
	dbConn        *pgxpool.Pool
	cacheConn     *redis.Client
	idemp         idempotency.Idempotency
	mail          mail.Mail
	sms           sms.SMS
	messaging     messaging.Messaging
	storage       storage.Storage
	casbin        *casbin.Enforcer
	casbinWatcher *pgxcasbin.Watcher

	// http
	router     *router.Router
	httpServer *http.Server

	// ordered teardown, ran by Stop
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// New boots the full dependency graph. Order matters, later stages read
// from the ones before them.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initSMS()
	app.initStorage()
	app.initMessaging()
	app.initCasbin()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
