package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

const (
	relatedProductsLimit = 6
	fetchTimeout         = 20 * time.Second
	analyticsFlushWait   = 3 * time.Second
)

// appContext carries what PersistentPreRun prepared for the subcommands
type appContext struct {
	env          Environment
	configPath   string
	configStatus ConfigLoadResult
}

func newRootCmd() *cobra.Command {
	app := &appContext{}
	var (
		debug      bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "pgv",
		Short: "Product gallery viewer",
		Long: `pgv shows a product's images in a gallery with a thumbnail strip,
wheel paging and a zoom viewer.

Products come from a WooCommerce store or from local images and archives.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.env = LoadEnvironment()

			logCfg := DefaultLogConfig()
			logCfg.Level = app.env.LogLevel
			logCfg.Format = app.env.LogFormat
			if debug {
				logCfg.Level = "debug"
			}
			initLogger(logCfg)

			app.configPath = configPath
			if app.configPath == "" {
				app.configPath = getConfigPath()
			}
			app.configStatus = loadConfigFromPath(app.configPath)
			for _, warning := range app.configStatus.Warnings {
				warnLog("Config: %s", warning)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			syncLogger()
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.pgv.json)")

	cmd.AddCommand(newProductCmd(app), newOpenCmd(app))
	return cmd
}

func newProductCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "product <slug>",
		Short: "Open a product from the store API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
			defer cancel()

			client := NewWooCommerceClient(app.env.APIURL, app.env.ConsumerKey, app.env.ConsumerSecret)
			product, err := client.GetProductBySlug(ctx, args[0])
			if err != nil {
				return err
			}
			client.LoadRelatedNames(ctx, product, relatedProductsLimit)

			return runViewer(app, product)
		},
	}
}

func newOpenCmd(app *appContext) *cobra.Command {
	var sortName string

	cmd := &cobra.Command{
		Use:   "open <path>...",
		Short: "Open local images, directories or archives as one product",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sortMethod := app.configStatus.Config.SortMethod
			if sortName != "" {
				method, ok := parseSortMethod(sortName)
				if !ok {
					return fmt.Errorf("unknown sort method %q", sortName)
				}
				sortMethod = method
			}

			product, err := NewLocalProvider(sortMethod).Load(cmd.Context(), args)
			if err != nil {
				return err
			}
			return runViewer(app, product)
		},
	}

	cmd.Flags().StringVar(&sortName, "sort", "", "image order: natural, simple or entry")
	return cmd
}

// runViewer opens the window for product and blocks until it closes
func runViewer(app *appContext, product *Product) error {
	config := app.configStatus.Config

	if err := InitGraphics(); err != nil {
		return fmt.Errorf("loading font: %w", err)
	}

	tracker := newTracker(app.env)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyticsFlushWait)
		defer cancel()
		if err := tracker.Close(ctx); err != nil {
			warnLog("Analytics shutdown: %v", err)
		}
		stats := tracker.Stats()
		debugLog("Analytics: %d published, %d failed, %d dropped", stats.Published, stats.Failed, stats.Dropped)
	}()
	tracker.Track(product.ViewItemEvent(app.env.Currency))

	loader := NewImageLoader(NewSourceFetcher(fetchTimeout), NewTextureCache(config.CacheSize), config.LoaderWorkers, config.PreloadEnabled)
	defer func() {
		loader.Stop()
		stats := loader.Stats()
		debugLog("Loader: %d requested, %d loaded, %d failed, %d preloaded, %d cache hits",
			stats.Requested, stats.LoadedCount, stats.FailedCount, stats.Preloaded, stats.CacheHits)
	}()

	viewer := NewViewer(ViewerOptions{
		Config:       config,
		ConfigStatus: app.configStatus,
		ConfigPath:   app.configPath,
		Product:      product,
		Loader:       loader,
		Tracker:      withProduct(tracker, product.IDString()),
		Currency:     app.env.Currency,
	})

	ebiten.SetWindowTitle(fmt.Sprintf("%s - pgv", product.Name))
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowSizeLimits(minWidth, minHeight, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(config.Fullscreen)

	infoLog("Showing %q with %d images", product.Name, len(product.Images))
	if err := ebiten.RunGame(viewer); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
