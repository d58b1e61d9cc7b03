package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/adapters/events"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/adapters/store"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/ports"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/service"
)

var (
	apiURL  string
	tokenDB string
)

var rootCmd = &cobra.Command{
	Use:   "adminauth",
	Short: "Operator tool for zarbitrage admin authentication",
	Long: `adminauth manages the administrative bearer credential for a zarbitrage
deployment: issuing a token, verifying the stored one, diagnosing
session/token inconsistencies, and logging out.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api",
		envOr("ZARBITRAGE_API_URL", "http://localhost:3000"),
		"base URL of the zarbitrage API")
	rootCmd.PersistentFlags().StringVar(&tokenDB, "token-db",
		envOr("ADMIN_TOKEN_DB", defaultTokenDB()),
		"path of the local credential database (ignored when REDIS_URL is set)")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultTokenDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".zarbitrage", "admin-token.db")
}

// runtime bundles everything a subcommand needs.
type runtime struct {
	auth   *service.Authenticator
	creds  *service.CredentialStore
	runner *service.DiagnosticRunner

	closers []func() error
}

func (r *runtime) Close() {
	for _, closeFn := range r.closers {
		_ = closeFn()
	}
}

// buildRuntime wires the store, the optional event publisher and the HTTP
// clients. REDIS_URL selects the shared redis slot and enables lifecycle
// event publishing; otherwise the credential lives in a local bolt file.
func buildRuntime() (*runtime, error) {
	cfg := service.Config{
		BaseURL:    apiURL,
		HTTPClient: service.NewHTTPClient(),
	}

	rt := &runtime{}

	var slot ports.Store
	var publisher ports.EventPublisher

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		rt.closers = append(rt.closers, client.Close)

		pub, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("creating event publisher: %w", err)
		}
		rt.closers = append(rt.closers, pub.Close)

		slot = store.NewRedisStore(client)
		publisher = events.NewWatermillPublisher(pub)
	} else {
		if err := os.MkdirAll(filepath.Dir(tokenDB), 0700); err != nil {
			return nil, fmt.Errorf("creating token db directory: %w", err)
		}
		bolt, err := store.NewBoltStoreFromFile(tokenDB)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, bolt.Close)
		slot = bolt
	}

	rt.creds = service.NewCredentialStore(slot)
	rt.auth = service.NewAuthenticator(
		rt.creds,
		service.NewIssuanceClient(cfg),
		service.NewVerificationClient(cfg),
		service.NewSessionClient(cfg),
		publisher,
	)
	rt.runner = service.NewDiagnosticRunner(
		rt.creds,
		service.NewSessionClient(cfg),
		service.NewVerificationClient(cfg),
	)

	return rt, nil
}
