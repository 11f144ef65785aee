package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
	"github.com/voxellight/bdpt/pkg/integrator"
	"github.com/voxellight/bdpt/pkg/renderer"
)

// Render drives a single-frame BDPT render of the built-in demo box
// scene: one goroutine per CPU core, each with its own sampler, all
// sharing one Integrator and one splat Framebuffer. Integrator holds
// no per-call mutable state, so sharing it across goroutines is safe.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	width := ctx.Int("width")
	height := ctx.Int("height")
	spp := ctx.Int("spp")
	maxBounces := ctx.Int("max-bounces")
	outPath := ctx.String("out")

	scene := newBox()
	camera := newPinholeCamera(core.NewVec3(0, 1, 5), core.NewVec3(0, 1, -1), 40, width, height)
	light := scene.light
	framebuffer := renderer.NewAtomicFramebuffer(width, height)

	bdpt := &integrator.Integrator{
		Scene:       scene,
		Camera:      camera,
		Emitters:    []collab.Emitter{light},
		EmitterDist: uniformEmitterDistribution{n: 1},
		Framebuffer: framebuffer,
		MaxBounces:  maxBounces,
		Log:         logger,
	}

	pixelSum := make([]core.Vec3, width*height)

	start := time.Now()
	renderRows(bdpt, pixelSum, width, height, spp)
	renderTime := time.Since(start)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			c := pixelSum[i].Multiply(1 / float64(spp)).Add(framebuffer.At(x, y).Multiply(1 / float64(spp)))
			img.Set(x, y, toRGBA(c))
		}
	}

	file, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return err
	}

	displayRenderStats(width, height, spp, maxBounces, renderTime, outPath)
	return nil
}

func renderRows(bdpt *integrator.Integrator, pixelSum []core.Vec3, width, height, spp int) {
	workers := runtime.NumCPU()
	rows := make(chan int, height)
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(seed int64) {
			defer wg.Done()
			sampler := newRandomSampler(seed)
			for y := range rows {
				for x := 0; x < width; x++ {
					pixel := collab.Pixel{X: x, Y: y}
					var sum core.Vec3
					for s := 0; s < spp; s++ {
						sum = sum.Add(bdpt.TraceSample(pixel, sampler))
					}
					pixelSum[y*width+x] = sum
				}
			}
		}(int64(w) + 1)
	}
	wg.Wait()
}

func toRGBA(c core.Vec3) color.RGBA {
	tone := func(v float64) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(math.Pow(v, 1/2.2) * 255)
	}
	return color.RGBA{R: tone(c.X), G: tone(c.Y), B: tone(c.Z), A: 255}
}

func displayRenderStats(width, height, spp, maxBounces int, renderTime time.Duration, outPath string) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Resolution", "Samples/pixel", "Max bounces", "Render time", "Output"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", width, height),
		fmt.Sprintf("%d", spp),
		fmt.Sprintf("%d", maxBounces),
		renderTime.Round(time.Millisecond).String(),
		outPath,
	})
	table.Render()
	logger.Noticef("render complete\n%s", buf.String())
}
