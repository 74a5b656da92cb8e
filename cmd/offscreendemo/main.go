// Command offscreendemo renders web surfaces headlessly and writes the last
// frame of each one as a BMP file.
//
// Configuration comes from OFFSCREEN_* environment variables (see package
// config) and an optional YAML scene file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/offscreen"
	"github.com/gogpu/offscreen/browser"
	_ "github.com/gogpu/offscreen/browser/software"
	"github.com/gogpu/offscreen/config"
	"github.com/gogpu/offscreen/metrics"
	"github.com/gogpu/offscreen/texture"
	"github.com/gogpu/offscreen/tick"
)

func main() {
	var (
		duration    = flag.Duration("duration", 2*time.Second, "how long to render")
		outDir      = flag.String("out", ".", "directory for BMP snapshots")
		url         = flag.String("url", "", "start URL when no scene file is configured")
		hide        = flag.Bool("hide-scrollbars", false, "hide scrollbars when no scene file is configured")
		metricsAddr = flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	level, _ := cfg.Level()
	offscreen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	scene := &config.Scene{Surfaces: []config.SurfaceSpec{{Name: "main", URL: *url, HideScrollbars: *hide}}}
	if cfg.Scene != "" {
		if scene, err = config.LoadScene(cfg.Scene); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	if err := run(ctx, cfg, scene, *outDir, *metricsAddr); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, scene *config.Scene, outDir, metricsAddr string) error {
	rt, err := newRuntime(cfg.Backend)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	exp, err := metrics.NewExporter(cfg.MetricsNamespace, reg, metrics.Options{})
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				offscreen.Logger().Error("metrics server failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	engCfg, err := cfg.Engine()
	if err != nil {
		return err
	}
	engCfg.Observer = exp

	loop := tick.New()
	eng, err := offscreen.Start(rt, loop, engCfg)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	surfaces := make([]*offscreen.Surface, 0, len(scene.Surfaces))
	for _, spec := range scene.Surfaces {
		s, err := eng.NewSurface(spec.Options())
		if err != nil {
			return fmt.Errorf("surface %q: %w", spec.Name, err)
		}
		if err := s.Activate(nil); err != nil {
			// One broken surface does not stop the others.
			offscreen.Logger().Warn("surface not activated", "surface", s.Name(), "err", err)
			continue
		}
		surfaces = append(surfaces, s)
	}
	if len(surfaces) == 0 {
		return errors.New("no surface could be activated")
	}

	if err := loop.Run(ctx, cfg.TickInterval()); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}

	for _, s := range surfaces {
		if err := snapshot(s, outDir); err != nil {
			return err
		}
	}
	log.Printf("Rendered %d surface(s) over %d ticks\n", len(surfaces), loop.Ticks())
	return nil
}

func newRuntime(backend string) (browser.Runtime, error) {
	if backend == "" {
		return browser.NewRuntime()
	}
	return browser.NewRuntimeByName(backend)
}

func snapshot(s *offscreen.Surface, outDir string) error {
	img, ok := s.Texture().(*texture.Image)
	if !ok {
		return nil
	}
	path := filepath.Join(outDir, s.Name()+".bmp")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := img.EncodeBMP(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Snapshot saved to %s (%v)\n", path, s.Size())
	return nil
}
