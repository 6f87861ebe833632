// Command chartbuilder serves the chart editor over http
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/TravisS25/chartbuilder/editor"
	"github.com/TravisS25/chartbuilder/render"
	"github.com/TravisS25/chartbuilder/server"
	"github.com/TravisS25/chartbuilder/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "modernc.org/sqlite"
)

const envPrefix = "CHARTBUILDER"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:   "chartbuilder",
		Short: "Visual line chart configuration editor",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, configFile)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart editors over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := server.LoadSettings(v)

			if err != nil {
				return err
			}

			return serve(cmd.Context(), settings)
		},
	}

	serveCmd.Flags().String("address", "", "address to listen on")
	v.BindPFlag("address", serveCmd.Flags().Lookup("address"))

	root.AddCommand(serveCmd)
	return root
}

func initConfig(v *viper.Viper, configFile string) error {
	server.SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		return nil
	}

	v.SetConfigFile(configFile)

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config %s", configFile)
	}

	return nil
}

func newLogger(s server.LogSetting) (*logrus.Logger, error) {
	log := logrus.New()
	level, err := logrus.ParseLevel(s.Level)

	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.SetLevel(level)

	if s.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log, nil
}

// openStore returns the settings store and a func closing it
func openStore(ctx context.Context, s server.StoreSetting) (store.Store, func() error, error) {
	if s.Driver == server.MemoryDriver {
		return store.NewMemoryStore(), func() error { return nil }, nil
	}

	db, err := sql.Open(server.SQLiteDriver, s.DSN)

	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	sqlStore := store.NewSQLStore(db, store.SQLConfig{Table: s.Table})

	if err = sqlStore.CreateTable(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return sqlStore, db.Close, nil
}

func serve(ctx context.Context, settings server.Settings) error {
	logger, err := newLogger(settings.Log)

	if err != nil {
		return err
	}

	log := logrus.NewEntry(logger)

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	settingsStore, closeStore, err := openStore(ctx, settings.Store)

	if err != nil {
		log.WithError(err).Error("could not open settings store")
		return err
	}
	defer closeStore()

	registry := editor.NewRegistry(editor.Config{
		Loader:  render.NewLoader(render.EChartsSized(settings.Chart.Width, settings.Chart.Height)),
		Adapter: store.NewAdapter(settingsStore, settings.Store.Namespace, log),
		Log:     log,
	})

	srv := &http.Server{
		Addr:              settings.Address,
		Handler:           server.New(registry, settings, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		log.WithFields(logrus.Fields{"address": settings.Address, "store": settings.Store.Driver}).Info("serving chart editors")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err = <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return errors.WithStack(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
