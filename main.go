package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"eve-render/internal/api"
	"eve-render/internal/config"
	"eve-render/internal/db"
	"eve-render/internal/galaxy"
	"eve-render/internal/headless"
	"eve-render/internal/logger"
	"eve-render/internal/sde"
	"eve-render/internal/traffic"
)

var version = "dev"

// keepCycles bounds the feed_cycles table at startup.
const keepCycles = 10000

func main() {
	configPath := flag.String("config", "config.txt", "settings file")
	dataDir := flag.String("data", "", "directory holding systems.txt and gates.txt")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	addr := flag.String("addr", "", `status API address ("off" disables it)`)
	flag.Parse()

	logger.Banner(version)

	if err := godotenv.Load(); err == nil {
		logger.Info("Config", "Loaded .env")
	}
	settings := config.Load(*configPath)
	config.ApplyEnv(settings)
	if *dataDir != "" {
		settings.DataDir = *dataDir
	}
	if *addr != "" {
		settings.StatusAddr = *addr
	}

	catalog, err := sde.Load(settings.DataDir, sde.PaletteFrom(settings))
	if err != nil {
		logger.Warn("SDE", fmt.Sprintf("Incomplete static data: %v", err))
	}

	var recorder traffic.Recorder
	database, err := db.Open(settings.DBPath)
	if err != nil {
		logger.Warn("DB", fmt.Sprintf("Feed cycles will not be recorded: %v", err))
		database = nil
	} else {
		defer database.Close()
		if n, err := database.PruneCycles(keepCycles); err == nil && n > 0 {
			logger.Info("DB", fmt.Sprintf("Pruned %s old feed cycles", humanize.Comma(n)))
		}
		recorder = database
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}
	if settings.Screensaver {
		go watchInput(stop)
	}

	renderer := headless.New()
	clockOpts := galaxy.DefaultClockOptions()
	clockOpts.KillSpeed = settings.KillSpeed
	clockOpts.JumpSpeed = settings.JumpSpeed
	clock := galaxy.NewClock(catalog, renderer, clockOpts)
	clock.Populate(settings.LineColor)

	feed := traffic.NewFeed(traffic.NewClient(settings.UserAgent), catalog, traffic.FeedOptions{
		JumpsURL: settings.JumpsURL,
		KillsURL: settings.KillsURL,
		Interval: settings.FeedInterval,
		Recorder: recorder,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		feed.Start(gctx)
		<-gctx.Done()
		feed.Stop()
		feed.Wait()
		return nil
	})
	g.Go(func() error {
		runClock(gctx, clock, settings.TickRate)
		return nil
	})
	if settings.StatusAddr != "off" {
		srv := &http.Server{
			Addr:              settings.StatusAddr,
			Handler:           api.NewServer(version, catalog, clock, renderer, feed, database).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Server(settings.StatusAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server", err.Error())
		os.Exit(1)
	}
	st := clock.Stats()
	logger.Section("Session")
	logger.Stats("Ticks", st.Ticks)
	logger.Stats("Kills shown", st.Kills)
	logger.Stats("Jumps shown", st.Jumps)
	logger.Success("Sim", "Stopped")
}

// runClock ticks the simulation at rate frames per second, passing the real
// elapsed time to each tick, until ctx is done.
func runClock(ctx context.Context, clock *galaxy.Clock, rate int) {
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	report := time.NewTicker(time.Minute)
	defer report.Stop()

	logger.Info("Sim", fmt.Sprintf("Running at %d ticks/s", rate))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			clock.Tick(now.Sub(last).Seconds())
			last = now
		case <-report.C:
			st := clock.Stats()
			logger.Info("Sim", fmt.Sprintf("%s live, %s kills and %s jumps shown",
				humanize.Comma(st.Live), humanize.Comma(int64(st.Kills)), humanize.Comma(int64(st.Jumps))))
		}
	}
}

// watchInput calls stop when any byte arrives on stdin. A closed stdin is ignored.
func watchInput(stop func()) {
	buf := make([]byte, 1)
	if n, _ := os.Stdin.Read(buf); n > 0 {
		logger.Info("Sim", "Input received, leaving screensaver")
		stop()
	}
}
