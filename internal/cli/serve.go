package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecoshop/storefront/internal/api"
	"github.com/ecoshop/storefront/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront UI locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = st.cfg.Addr()
			}

			e := api.NewRouter(api.Deps{
				Sessions: st.sessions,
				Guard:    st.guard,
				Auth:     st.auth,
				Catalog:  st.catalog,
				Cart:     st.cart,
				Orders:   st.orders,
				Admin:    st.admin,
				Notices:  st.notices,
				Health:   st.health,
				Log:      logger.Component("http"),
			})

			// Pages defer until hydration settles.
			go st.sessions.Hydrate(ctx)

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Str("api", st.api.BaseURL()).Msg("storefront ui starting")
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			log.Info().Msg("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return err
			}
			log.Info().Msg("storefront ui stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default LISTEN_HOST:PORT)")
	return cmd
}
