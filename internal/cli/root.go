package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/ecoshop/storefront/internal/pkg/config"
	"github.com/ecoshop/storefront/pkg/logger"
)

var (
	flagAPIURL         string
	flagCredentialFile string
	flagLogLevel       string
	flagDebug          bool
	flagPretty         bool

	// lookuper is swapped in tests to read configuration from a map.
	lookuper envconfig.Lookuper = envconfig.OsLookuper()

	log zerolog.Logger
	st  *app
)

// NewRootCmd creates the root cobra command for the storefront client.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "EcoShop storefront client",
		Long:  "Browse the EcoShop catalog, manage your cart and orders, and administer the store from the terminal or a local web UI.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(cmd.Context(), lookuper)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyFlags(cmd, cfg)

			log = logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.LogPretty || cfg.IsDevelopment(),
				Output:  cmd.ErrOrStderr(),
				Service: "storefront",
			})

			st, err = buildApp(cmd.Context(), cfg, log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st == nil {
				return nil
			}
			return st.Close()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Storefront API base URL (or STOREFRONT_API_URL env)")
	root.PersistentFlags().StringVar(&flagCredentialFile, "credential-file", "", "Credential file path (or CREDENTIAL_PATH env)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&flagPretty, "pretty", false, "Human-friendly log output")

	root.AddCommand(
		newServeCmd(),
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProductsCmd(),
		newCartCmd(),
		newOrdersCmd(),
		newAdminCmd(),
	)

	return root
}

// applyFlags lets explicit flags win over the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.BaseURL = flagAPIURL
	}
	if flags.Changed("credential-file") {
		cfg.Credential.Backend = config.BackendFile
		cfg.Credential.Path = flagCredentialFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}
	if flagPretty {
		cfg.LogPretty = true
	}
}
