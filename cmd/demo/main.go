// Command demo opens a window and drives a World through the GPU kernel,
// proving out the render hand-off contract (render.Source's Frame)
// against a real surface: each frame it pulls the current generation and
// clears the screen to a color derived from it. It does not draw
// particles — camera projection and point/sprite rendering are out of
// scope; that is left to whatever real renderer consumes this package's
// contract. Grounded on gpu_operations.go's
// window/device setup and mod_client.go's clear-and-present render pass.
package main

import (
	"os"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/nbody-go/nbody/config"
	"github.com/nbody-go/nbody/nblog"
	"github.com/nbody-go/nbody/render"
	"github.com/nbody-go/nbody/scene"
	"github.com/nbody-go/nbody/vec2"
	"github.com/nbody-go/nbody/world"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	windowTitle  = "nbody demo"

	updateStep = 0.01
)

var (
	particleCount int
	seed          int64
)

var rootCmd = &cobra.Command{
	Use:   "demo",
	Short: "Window harness proving the GPU render hand-off contract",
	Run:   run,
}

func init() {
	rootCmd.Flags().IntVar(&particleCount, "n", 500, "particle count")
	rootCmd.Flags().Int64Var(&seed, "seed", 11037, "scene generation seed")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type windowState struct {
	glfwWindow    *glfw.Window
	surface       *wgpu.Surface
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func run(cmd *cobra.Command, args []string) {
	log := nblog.New("demo")
	win, err := openWindow()
	if err != nil {
		log.Fatalf("opening window: %v", err)
	}
	defer win.glfwWindow.Destroy()
	defer glfw.Terminate()

	bodies := scene.Uniform(particleCount, vec2.Zero, vec2.New(1000, 1000), seed)
	w := world.New(bodies, config.Default(), log)
	w.InitGPU(win.device)
	defer w.Close()

	for !win.glfwWindow.ShouldClose() {
		glfw.PollEvents()

		w.GPUStep(updateStep, 1)
		frame, err := w.Frame()
		if err != nil {
			log.Fatalf("reading frame: %v", err)
		}

		if err := renderClear(win, frame); err != nil {
			log.Fatalf("render: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
}

// renderClear is the pass-through render step this command proves the
// contract with (a plain function, not a render.Renderer implementation):
// it clears the surface to a color that cycles with the frame generation,
// demonstrating that a render.Frame is enough to drive a present loop
// without touching particle data directly.
func renderClear(win *windowState, frame render.Frame) error {
	texture, err := win.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := win.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	phase := clearColorPhase(frame.Generation)
	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: phase, G: 0.1, B: 1 - phase, A: 1.0},
			},
		},
	})
	if err := renderPass.End(); err != nil {
		return err
	}
	renderPass.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	win.queue.Submit(cmdBuffer)
	win.surface.Present()
	return nil
}

// clearColorPhase cycles a [0,1) value over 120 generations so the clear
// color visibly changes frame to frame without needing to inspect
// particle data.
func clearColorPhase(generation uint64) float64 {
	return float64(generation%120) / 120.0
}

func openWindow() (*windowState, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	if err := glfw.Init(); err != nil {
		return nil, err
	}
	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return nil, err
	}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, err
	}
	defer adapter.Release()

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "demo device"})
	if err != nil {
		return nil, err
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	surfaceConfig := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       windowWidth,
		Height:      windowHeight,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, surfaceConfig)

	return &windowState{
		glfwWindow:    win,
		surface:       surface,
		device:        device,
		queue:         queue,
		surfaceConfig: surfaceConfig,
	}, nil
}
