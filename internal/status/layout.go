// internal/status/layout.go
package status

// Mirror status block layout.
// One block of SlotsPerDevice holding registers per mirrored bus.
// These values define the register map and MUST NOT be configurable.

// SlotsPerDevice is the fixed number of registers per block.
const SlotsPerDevice = 20

// ---- LIVE SLOTS ----

const (
	SlotHealthCode     = 0 // Health*
	SlotLastErrorCode  = 1 // Err*
	SlotSecondsInError = 2 // saturates at 65535
	SlotGoodCycles     = 3 // wraps
	SlotFailedCycles   = 4 // wraps
)

// Slots 5–10 are reserved and written as zero.
const (
	SlotReservedStart = 5
	SlotReservedEnd   = 10
)

// ---- DEVICE NAME ----

// The device name lives at the end of the block, two ASCII bytes per slot.
const (
	SlotDeviceNameStart = 11
	SlotDeviceNameSlots = 8
	SlotDeviceNameEnd   = SlotDeviceNameStart + SlotDeviceNameSlots - 1
	DeviceNameMaxChars  = 2 * SlotDeviceNameSlots
)

// ---- HEALTH CODES ----

const (
	HealthUnknown uint16 = 0 // no cycle completed yet
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
)

// ---- ERROR CODES ----

const (
	ErrNone        uint16 = 0
	ErrGeneric     uint16 = 1
	ErrTimeout     uint16 = 2 // bus did not answer in time
	ErrReplyLength uint16 = 3 // bus answered with the wrong layout (echo)
)
