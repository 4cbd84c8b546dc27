package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-explorer/config"
	"github.com/Carmen-Shannon/oxy-explorer/engine"
	"github.com/Carmen-Shannon/oxy-explorer/engine/sensorbridge"
	"github.com/Carmen-Shannon/oxy-explorer/engine/texture"
	"github.com/Carmen-Shannon/oxy-explorer/engine/viewer"
	"github.com/Carmen-Shannon/oxy-explorer/engine/window"
	"github.com/ttacon/chalk"
	"github.com/urfave/cli"
)

func init() {
	// GLFW must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		log.Print(chalk.Red)
		log.Printf("[Explorer] %v", err)
		log.Print(chalk.Reset)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "config, c", Value: "", Usage: "JSON file overriding the built-in configuration"},
		cli.StringFlag{Name: "route, r", Value: "/", Usage: "Page to open, e.g. /projects/human-within"},
		cli.StringFlag{Name: "lang", Value: "", Usage: "Notice language (en or es)"},
		cli.StringFlag{Name: "cache-dir", Value: "", Usage: "Directory for downscaled panorama copies"},
		cli.IntFlag{Name: "max-texture-width", Value: texture.DefaultMaxWidth, Usage: "Panoramas wider than this are downscaled"},
		cli.Float64Flag{Name: "tick-rate", Value: 60, Usage: "Frames per second"},
		cli.BoolFlag{Name: "bridge", Usage: "Serve the phone sensor page"},
		cli.StringFlag{Name: "bridge-addr", Value: ":8443", Usage: "Listen address of the phone sensor page"},
		cli.StringFlag{Name: "tls-cert", Value: "", Usage: "PEM certificate for the phone sensor page"},
		cli.StringFlag{Name: "tls-key", Value: "", Usage: "PEM key for the phone sensor page"},
		cli.BoolFlag{Name: "profile", Usage: "Log frame rate and memory statistics"},
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "explorer"
	app.Usage = "Walk through the portfolio room and 360° project panoramas"
	app.Version = "0.1.0"

	viewFlags := append(commonFlags(),
		cli.IntFlag{Name: "width", Value: 1280, Usage: "Window width"},
		cli.IntFlag{Name: "height", Value: 720, Usage: "Window height"},
		cli.BoolFlag{Name: "fullscreen, f", Usage: "Open on the primary monitor"},
		cli.BoolFlag{Name: "touch", Usage: "Drive the on-screen joysticks with the mouse"},
	)

	app.Commands = []cli.Command{
		{
			Name:    "view",
			Aliases: []string{"v"},
			Usage:   "Open the viewer window",
			Flags:   viewFlags,
			Action: func(c *cli.Context) error {
				return viewAction(c, false)
			},
		},
		{
			Name:  "headless",
			Usage: "Run without a window and log the camera pose; pair with --bridge to test a phone",
			Flags: append(commonFlags(),
				cli.DurationFlag{Name: "report", Value: time.Second, Usage: "Interval between pose reports"},
			),
			Action: func(c *cli.Context) error {
				return viewAction(c, true)
			},
		},
	}
	app.Flags = viewFlags
	app.Action = func(c *cli.Context) error {
		return viewAction(c, false)
	}
	return app
}

func loadConfig(c *cli.Context) (config.ViewerConfig, error) {
	cfg := config.Default()
	if file := c.String("config"); file != "" {
		loaded, err := config.LoadFile(file)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if lang := c.String("lang"); lang != "" {
		cfg.Language = lang
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func viewAction(c *cli.Context, headless bool) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	loaderOptions := []texture.LoaderBuilderOption{texture.WithMaxWidth(c.Int("max-texture-width"))}
	if dir := c.String("cache-dir"); dir != "" {
		loaderOptions = append(loaderOptions, texture.WithCacheDir(dir))
	}
	viewerOptions := []viewer.ViewerBuilderOption{
		viewer.WithTextureLoader(texture.NewLoader(loaderOptions...)),
	}
	if c.Bool("bridge") {
		viewerOptions = append(viewerOptions, viewer.WithSensorBridge(
			sensorbridge.WithAddr(c.String("bridge-addr")),
			sensorbridge.WithTLS(c.String("tls-cert"), c.String("tls-key")),
		))
	}

	var win window.Window
	if !headless {
		win, err = window.NewWindow(
			window.WithTitle("Explorer"),
			window.WithSize(c.Int("width"), c.Int("height")),
			window.WithFullscreen(c.Bool("fullscreen")),
		)
		if err != nil {
			return err
		}
		defer win.Close()
		viewerOptions = append(viewerOptions, viewer.WithWindow(win), viewer.WithTouchEmulation(c.Bool("touch")))
	}

	v := viewer.NewViewer(cfg, viewerOptions...)
	defer v.Close()
	v.Navigate(c.String("route"))

	engineOptions := []engine.EngineBuilderOption{
		engine.WithTickRate(c.Float64("tick-rate")),
		engine.WithProfiling(c.Bool("profile")),
		engine.WithTickCallback(v.Frame),
	}
	if win != nil {
		engineOptions = append(engineOptions, engine.WithWindow(win))
	}
	eng := engine.NewEngine(engineOptions...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		eng.Quit()
	}()

	if bridge := v.Bridge(); bridge != nil {
		go func() {
			if err := bridge.ListenAndServe(ctx); err != nil {
				log.Print(chalk.Red)
				log.Printf("[Explorer] sensor bridge stopped: %v", err)
				log.Print(chalk.Reset)
			}
		}()
	}
	if headless {
		go reportPose(ctx, v, c.Duration("report"))
	}

	log.Print(chalk.Green)
	log.Println("[Explorer] Enter or click: explore | Esc: stop | WASD: walk | arrows: look | T: gyro | 1-9: projects | 0: home")
	log.Print(chalk.Reset)

	eng.Run()
	return nil
}

// reportPose logs the camera pose and control state at every interval. Without a
// window nothing can start exploring, so it starts as soon as a phone is connected.
func reportPose(ctx context.Context, v viewer.Viewer, every time.Duration) {
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s := v.Session(); !s.IsLocked() && s.IsMobileDevice() {
				s.StartExploring()
			}
			pose := v.Camera().Controller()
			x, y, z := pose.Position()
			log.Printf("[Explorer] %s | mode=%s | pos=(%.2f, %.2f, %.2f) yaw=%.3f pitch=%.3f | %s",
				v.Route(), v.Session().Mode(), x, y, z, pose.Yaw(), pose.Pitch(), v.Title())
		}
	}
}
