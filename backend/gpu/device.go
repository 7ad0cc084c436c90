package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (compositor process, windowing framework) owns the device and
// passes a handle down; paint workers receive the device, they never
// create one when a handle is supplied. A nil or null handle makes the
// context create and own its own device.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so any
// gpucontext host integrates without adapters.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with no device behind it, used for
// CPU-only painting.
type NullDeviceHandle struct{}

func (NullDeviceHandle) Device() gpucontext.Device   { return nil }
func (NullDeviceHandle) Queue() gpucontext.Queue     { return nil }
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

var _ DeviceHandle = NullDeviceHandle{}

// IsNull reports whether a handle carries no actual device.
func IsNull(h DeviceHandle) bool {
	if h == nil {
		return true
	}
	if _, null := h.(NullDeviceHandle); null {
		return true
	}
	return h.Device() == nil
}
