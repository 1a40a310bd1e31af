// Command bench measures per-step wall-clock cost of the CPU and GPU
// kernels across a sweep of particle counts, reporting the median of
// BENCH_ITER timed iterations after WARMUP_ITER untimed ones. Ports
// _examples/original_source/src/bench.c's methodology (qsort-and-take-
// middle median, same warmup/measure split) onto Go's stdlib timer and
// gonum's quantile function.
package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/nbody-go/nbody/config"
	"github.com/nbody-go/nbody/nblog"
	"github.com/nbody-go/nbody/scene"
	"github.com/nbody-go/nbody/vec2"
	"github.com/nbody-go/nbody/world"
)

const (
	warmupIter = 100
	benchIter  = 1000
	updateStep = 0.01

	worldWidth  = 1000
	worldHeight = 1000

	// benchSeed matches bench.c's srand(11037): a fixed seed so repeated
	// runs sweep identical initial conditions.
	benchSeed = 11037

	csvPath = "bench_results.csv"
)

var benchCounts = []int{10, 100, 250, 500, 800, 1200, 2000}

// Row is one line of bench_results.csv: particle count and median step
// time for each kernel, in microseconds.
type Row struct {
	N      int     `csv:"n"`
	CPUus  float64 `csv:"cpu_us"`
	GPUus  float64 `csv:"gpu_us"`
	Approx float64 `csv:"cpu_approx_us"`
}

// rootCmd takes no flags: the N sweep, seed, and warmup/iteration counts
// are fixed, so a run is reproducible without any arguments to remember.
var rootCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the CPU, Barnes-Hut, and GPU n-body kernels",
	Run:   run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	log := nblog.New("bench")
	cfg := config.Default()

	device, err := requestHeadlessDevice()
	skipGPU := err != nil
	if skipGPU {
		log.Warnf("no GPU adapter available, skipping GPU column: %v", err)
	}

	fmt.Printf("\t   N\t  CPU\tAPPROX\t  GPU\n")
	rows := make([]Row, 0, len(benchCounts))

	for _, n := range benchCounts {
		bodies := scene.Uniform(n, vec2.Zero, vec2.New(worldWidth, worldHeight), benchSeed)

		cpuWorld := world.New(bodies, cfg, log)
		cpuUS := benchFn(func() { cpuWorld.CPUStep(updateStep, 1) })

		approxWorld := world.New(bodies, cfg, log)
		approxUS := benchFn(func() {
			approxWorld.CPUStepApprox(updateStep, 1, vec2.Zero, vec2.New(worldWidth, worldHeight))
		})

		var gpuUS float64
		if !skipGPU {
			gpuWorld := world.New(bodies, cfg, log)
			gpuWorld.InitGPU(device)
			gpuUS = benchFn(func() { gpuWorld.GPUStep(updateStep, 1) })
			gpuWorld.Close()
		}

		fmt.Printf("\t%4d\t%5.0f\t%6.0f\t%5.0f\n", n, cpuUS, approxUS, gpuUS)
		rows = append(rows, Row{N: n, CPUus: cpuUS, GPUus: gpuUS, Approx: approxUS})
	}

	if err := writeCSV(csvPath, rows); err != nil {
		log.Errorf("writing %s: %v", csvPath, err)
	}
}

// benchFn times step BENCH_ITER times after WARMUP_ITER untimed calls, and
// returns the median duration in microseconds via gonum's empirical
// quantile at p=0.5 over the sorted sample.
func benchFn(step func()) float64 {
	for i := 0; i < warmupIter; i++ {
		step()
	}

	samples := make([]float64, benchIter)
	for i := 0; i < benchIter; i++ {
		start := time.Now()
		step()
		samples[i] = float64(time.Since(start).Microseconds())
	}

	sort.Float64s(samples)
	return stat.Quantile(0.5, stat.Empirical, samples, nil)
}

func writeCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}

func requestHeadlessDevice() (*wgpu.Device, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, err
	}
	defer adapter.Release()

	return adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "bench device"})
}
