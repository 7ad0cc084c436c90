// Package gpu manages the wgpu device lifecycle for GPU tile painting
// and hands out per-worker tile contexts bound to a fixed tile size.
package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/scenepaint"
)

// MinTileSize is the smallest tile worth painting on the GPU; anything
// smaller costs more in upload latency than the raster saves.
const MinTileSize = 32

// Info describes the selected GPU.
type Info struct {
	Name       string
	Vendor     string
	DeviceType gputypes.DeviceType
	Backend    gputypes.Backend
	Driver     string
}

func (i *Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Name, i.DeviceType, i.Backend)
}

// Context owns the GPU resources shared by a pipeline's paint workers:
// instance, adapter, device, and queue.
type Context struct {
	mu sync.RWMutex

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	info        *Info
	maxTexture  uint32
	initialized bool
}

// NewContext creates an uninitialized context. Call Init before use.
func NewContext() *Context {
	return &Context{}
}

// Init acquires the adapter, device, and queue. Safe to call twice; the
// second call is a no-op.
func (c *Context) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	c.instance = core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})

	adapterID, err := c.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	c.adapter = adapterID

	if info, ierr := core.GetAdapterInfo(adapterID); ierr == nil {
		c.info = &Info{
			Name:       info.Name,
			Vendor:     info.Vendor,
			DeviceType: info.DeviceType,
			Backend:    info.Backend,
			Driver:     info.Driver,
		}
		scenepaint.Logger().Info("gpu adapter selected", "gpu", c.info.String())
	}

	deviceID, err := core.RequestDevice(adapterID, &gputypes.DeviceDescriptor{
		Label:          "scenepaint-device",
		RequiredLimits: gputypes.DefaultLimits(),
	})
	if err != nil {
		_ = core.AdapterDrop(adapterID)
		c.adapter = core.AdapterID{}
		return fmt.Errorf("device creation failed: %w", err)
	}
	c.device = deviceID

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		_ = core.AdapterDrop(adapterID)
		c.device = core.DeviceID{}
		c.adapter = core.AdapterID{}
		return fmt.Errorf("queue retrieval failed: %w", err)
	}
	c.queue = queueID

	if limits, lerr := core.GetDeviceLimits(deviceID); lerr == nil {
		c.maxTexture = limits.MaxTextureDimension2D
	}

	c.initialized = true
	return nil
}

// Close releases the device and adapter, in reverse order of creation.
// The queue is released with the device.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	if !c.device.IsZero() {
		if err := core.DeviceDrop(c.device); err != nil {
			scenepaint.Logger().Warn("device release failed", "err", err)
		}
		c.device = core.DeviceID{}
	}
	if !c.adapter.IsZero() {
		if err := core.AdapterDrop(c.adapter); err != nil {
			scenepaint.Logger().Warn("adapter release failed", "err", err)
		}
		c.adapter = core.AdapterID{}
	}
	c.instance = nil
	c.queue = core.QueueID{}
	c.info = nil
	c.initialized = false
}

// Initialized reports whether Init has succeeded.
func (c *Context) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// GPUInfo returns adapter information, or nil before Init.
func (c *Context) GPUInfo() *Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info
}

// Device returns the device id; zero before Init.
func (c *Context) Device() core.DeviceID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.device
}

// Queue returns the queue id; zero before Init.
func (c *Context) Queue() core.QueueID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queue
}

// TileContext binds a context to one fixed tile size. Each worker holds
// its own TileContext; the underlying Context is shared.
type TileContext struct {
	ctx      *Context
	tileSize int
}

// NewTileContext validates tileSize against the device limits and the
// minimum worthwhile tile.
func (c *Context) NewTileContext(tileSize int) (*TileContext, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return nil, ErrNotInitialized
	}
	if tileSize < MinTileSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrTileTooSmall, tileSize, MinTileSize)
	}
	if c.maxTexture > 0 && uint32(tileSize) > c.maxTexture {
		return nil, fmt.Errorf("%w: %d > %d", ErrTileTooLarge, tileSize, c.maxTexture)
	}
	return &TileContext{ctx: c, tileSize: tileSize}, nil
}

// TileSize returns the fixed tile edge length in pixels.
func (tc *TileContext) TileSize() int {
	return tc.tileSize
}

// Context returns the shared device context.
func (tc *TileContext) Context() *Context {
	return tc.ctx
}
