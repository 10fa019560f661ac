package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"runtime"
	"time"

	"github.com/EngoEngine/glm"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"wgpu_lessons/camera"
	"wgpu_lessons/config"
	"wgpu_lessons/demo"
	"wgpu_lessons/gfx"
	"wgpu_lessons/input"
	"wgpu_lessons/logging"
	"wgpu_lessons/mirror"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", "", "YAML config file")
	demoName   = flag.String("demo", "", "lesson to run: triangle, quad, pyramid or camera")
	mirrorAddr = flag.String("mirror", "", "serve the camera pose over websocket on this address")
	writeCfg   = flag.String("write-config", "", "write the effective config to this file and exit")
)

var clearColor = wgpu.Color{R: 0.3, G: 0.3, B: 0.5, A: 1.0}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *writeCfg != "" {
		if err := cfg.Save(*writeCfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	gfx.SetLogLevel(log.Level())

	if err := run(cfg, log); err != nil {
		log.Error("lesson failed", err, "demo", cfg.Demo)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	if *demoName != "" {
		cfg.Demo = *demoName
	}
	if *mirrorAddr != "" {
		cfg.Mirror.Listen = *mirrorAddr
	}
	return cfg, cfg.Validate()
}

// noReceiver swallows input for lessons without a camera.
type noReceiver struct{}

func (noReceiver) HandleKey(camera.Key)            {}
func (noReceiver) HandleMouseMotion(dx, dy float32) {}

func run(cfg *config.Config, log *logging.Logger) error {
	keys, err := input.ParseKeymap(cfg.Camera.Keys)
	if err != nil {
		return err
	}
	var texture image.Image
	if cfg.Texture != "" {
		img, err := gfx.LoadImage(cfg.Texture)
		if err != nil {
			return err
		}
		texture = gfx.Fit(img, gfx.MaxTextureSize)
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	ctx, err := gfx.NewContext(window)
	if err != nil {
		return err
	}
	defer ctx.Release()

	width, height := window.GetSize()
	cam := camera.New(width, height, glm.Vec3(cfg.Camera.Position))
	cam.Speed = cfg.Camera.Speed
	cam.Sensitivity = cfg.Camera.Sensitivity
	cam.MaxPitch = cfg.Camera.MaxPitch

	d, err := demo.New(cfg.Demo, demo.Options{
		Texture: texture,
		Camera:  cam,
		FOV:     cfg.Camera.FOV,
		Near:    cfg.Camera.Near,
		Far:     cfg.Camera.Far,
	})
	if err != nil {
		return err
	}
	if err := d.Init(ctx); err != nil {
		return fmt.Errorf("init %s: %w", d.Name(), err)
	}
	defer d.Release()

	var receiver input.Receiver = noReceiver{}
	viewer, hasCamera := d.(demo.Viewer)
	if hasCamera {
		receiver = viewer.Camera()
	}

	queue := &input.Queue{}
	input.Bind(window, queue, keys)
	dispatcher := input.NewDispatcher(width, height, cfg.Camera.Movement == config.MovementContinuous)
	if hasCamera {
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		input.Recenter(window, dispatcher)
	}

	var poses *mirror.Server
	if cfg.Mirror.Listen != "" && hasCamera {
		mctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		poses = mirror.NewServer(log)
		go func() {
			if err := poses.ListenAndServe(mctx, cfg.Mirror.Listen); err != nil {
				log.Error("mirror stopped", err)
			}
		}()
	}

	log.Info("running lesson", "demo", d.Name(), "width", width, "height", height,
		"movement", cfg.Camera.Movement)

	frames := 0
	last := glfw.GetTime()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for !window.ShouldClose() {
		glfw.PollEvents()
		res := dispatcher.Dispatch(queue.Poll(), receiver)
		if res.Quit {
			break
		}
		if res.Resized {
			fbw, fbh := window.GetFramebufferSize()
			if err := ctx.Resize(fbw, fbh); err != nil {
				return err
			}
		}

		now := glfw.GetTime()
		d.Update(float32(now - last))
		last = now

		if err := render(ctx, d); err != nil {
			if !gfx.IsSurfaceTransient(err) {
				return err
			}
			log.Debug("skipping frame", "error", err.Error())
		}

		if hasCamera && res.Moved {
			input.Recenter(window, dispatcher)
		}
		if poses != nil {
			if err := poses.Broadcast(viewer.Camera().Pose()); err != nil {
				log.Warn("pose broadcast failed", "error", err.Error())
			}
		}

		frames++
		select {
		case <-ticker.C:
			log.Debug("frame rate", "fps", frames)
			frames = 0
		default:
		}
	}
	return nil
}

func render(ctx *gfx.Context, d demo.Demo) error {
	frame, err := ctx.BeginFrame(clearColor)
	if err != nil {
		return err
	}
	if err := d.Draw(frame); err != nil {
		// Present still ends the pass and drops the frame's objects.
		frame.Present()
		return err
	}
	return frame.Present()
}
