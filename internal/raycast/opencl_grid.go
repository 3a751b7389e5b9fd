//go:build opencl

package raycast

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"fovcone/internal/fov"
)

const rayKernelSource = `__kernel void cast_rays(
    const int width,
    const int height,
    const float cell_size,
    const float grid_x,
    const float grid_y,
    const float ray_x,
    const float ray_y,
    const float max_distance,
    const int ray_count,
    __global const uchar* cells,
    __global const float* dirs,
    __global float* out_dist)
{
    int gid = get_global_id(0);
    if (gid >= ray_count) {
        return;
    }
    float dx = dirs[2 * gid];
    float dy = dirs[2 * gid + 1];
    float px = (ray_x - grid_x) / cell_size;
    float py = (ray_y - grid_y) / cell_size;
    int cx = (int)floor(px);
    int cy = (int)floor(py);
    if (cx < 0 || cx >= width || cy < 0 || cy >= height || cells[cy * width + cx]) {
        out_dist[gid] = 0.0f;
        return;
    }
    int step_x = 0;
    int step_y = 0;
    float t_max_x = INFINITY;
    float t_max_y = INFINITY;
    float t_delta_x = INFINITY;
    float t_delta_y = INFINITY;
    if (dx > 0.0f) {
        step_x = 1;
        t_max_x = (floor(px) + 1.0f - px) / dx;
        t_delta_x = 1.0f / dx;
    } else if (dx < 0.0f) {
        step_x = -1;
        t_max_x = (px - floor(px)) / -dx;
        t_delta_x = -1.0f / dx;
    }
    if (dy > 0.0f) {
        step_y = 1;
        t_max_y = (floor(py) + 1.0f - py) / dy;
        t_delta_y = 1.0f / dy;
    } else if (dy < 0.0f) {
        step_y = -1;
        t_max_y = (py - floor(py)) / -dy;
        t_delta_y = -1.0f / dy;
    }
    if (step_x == 0 && step_y == 0) {
        out_dist[gid] = max_distance;
        return;
    }
    float max_t = max_distance / cell_size;
    for (;;) {
        float t;
        if (t_max_x < t_max_y) {
            cx += step_x;
            t = t_max_x;
            t_max_x += t_delta_x;
        } else {
            cy += step_y;
            t = t_max_y;
            t_max_y += t_delta_y;
        }
        if (t > max_t) {
            out_dist[gid] = max_distance;
            return;
        }
        if (cx < 0 || cx >= width || cy < 0 || cy >= height || cells[cy * width + cx]) {
            out_dist[gid] = t * cell_size;
            return;
        }
    }
}`

// CLGrid casts a whole cone of rays against a Grid on an OpenCL device. Single
// rays still go through the embedded CPU grid.
type CLGrid struct {
	*Grid

	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	cellBuf    *cl.MemObject
	dirBuf     *cl.MemObject
	distBuf    *cl.MemObject
	rayCap     int
	cellBytes  []uint8
	dirScratch []float32
	outScratch []float32
	synced     uint64
	hasSynced  bool
	deviceName string
}

// NewCLGrid compiles the ray kernel on the first GPU, or failing that CPU,
// device found.
func NewCLGrid(g *Grid) (*CLGrid, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	var device *cl.Device
	for _, typ := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(typ)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
		if device != nil {
			break
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	s := &CLGrid{Grid: g, deviceName: device.Name()}
	s.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	s.queue, err = s.context.CreateCommandQueue(device, 0)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	s.program, err = s.context.CreateProgramWithSource([]string{rayKernelSource})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	s.kernel, err = s.program.CreateKernel("cast_rays")
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	cellCount := g.width * g.height
	s.cellBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, cellCount)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating cell buffer: %w", err)
	}
	s.cellBytes = make([]uint8, cellCount)
	return s, nil
}

// DeviceName reports the OpenCL device in use.
func (s *CLGrid) DeviceName() string { return s.deviceName }

func (s *CLGrid) ensureRayBuffers(n int) error {
	if n <= s.rayCap {
		return nil
	}
	if s.dirBuf != nil {
		s.dirBuf.Release()
		s.dirBuf = nil
	}
	if s.distBuf != nil {
		s.distBuf.Release()
		s.distBuf = nil
	}
	floatSize := int(unsafe.Sizeof(float32(0)))
	var err error
	s.dirBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, 2*n*floatSize)
	if err != nil {
		return fmt.Errorf("allocating direction buffer: %w", err)
	}
	s.distBuf, err = s.context.CreateEmptyBuffer(cl.MemWriteOnly, n*floatSize)
	if err != nil {
		return fmt.Errorf("allocating distance buffer: %w", err)
	}
	s.dirScratch = make([]float32, 2*n)
	s.outScratch = make([]float32, n)
	s.rayCap = n
	return nil
}

func (s *CLGrid) syncCells() error {
	if s.hasSynced && s.synced == s.Grid.version {
		return nil
	}
	for i, wall := range s.Grid.cells {
		if wall {
			s.cellBytes[i] = 1
		} else {
			s.cellBytes[i] = 0
		}
	}
	if len(s.cellBytes) > 0 {
		ptr := unsafe.Pointer(&s.cellBytes[0])
		if _, err := s.queue.EnqueueWriteBuffer(s.cellBuf, true, 0, len(s.cellBytes), ptr, nil); err != nil {
			return fmt.Errorf("writing cell buffer: %w", err)
		}
	}
	s.synced = s.Grid.version
	s.hasSynced = true
	return nil
}

// CastRays runs one kernel invocation per direction.
func (s *CLGrid) CastRays(origin fov.Vec2, dirs []fov.Vec2, maxDistance float64, _ fov.QueryFilter, dist []float64) error {
	n := len(dirs)
	if n == 0 {
		return nil
	}
	if len(dist) < n {
		return fmt.Errorf("distance buffer holds %d entries, need %d", len(dist), n)
	}
	if err := s.syncCells(); err != nil {
		return err
	}
	if err := s.ensureRayBuffers(n); err != nil {
		return err
	}
	for i, d := range dirs {
		s.dirScratch[2*i] = float32(d.X)
		s.dirScratch[2*i+1] = float32(d.Y)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.dirBuf, false, 0, s.dirScratch[:2*n], nil); err != nil {
		return fmt.Errorf("writing direction buffer: %w", err)
	}
	if err := s.kernel.SetArgs(
		int32(s.Grid.width),
		int32(s.Grid.height),
		float32(s.Grid.cellSize),
		float32(s.Grid.origin.X),
		float32(s.Grid.origin.Y),
		float32(origin.X),
		float32(origin.Y),
		float32(maxDistance),
		int32(n),
		s.cellBuf,
		s.dirBuf,
		s.distBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{n}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	out := s.outScratch[:n]
	if _, err := s.queue.EnqueueReadBufferFloat32(s.distBuf, true, 0, out, nil); err != nil {
		return fmt.Errorf("reading distance buffer: %w", err)
	}
	for i, v := range out {
		dist[i] = float64(v)
	}
	return nil
}

// Close releases every OpenCL object.
func (s *CLGrid) Close() {
	if s.distBuf != nil {
		s.distBuf.Release()
		s.distBuf = nil
	}
	if s.dirBuf != nil {
		s.dirBuf.Release()
		s.dirBuf = nil
	}
	if s.cellBuf != nil {
		s.cellBuf.Release()
		s.cellBuf = nil
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
	s.rayCap = 0
}
