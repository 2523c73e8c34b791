// internal/bus/ids.go
package bus

// Device ids (request byte 0).
const (
	DeviceOBC  uint8 = 0x01
	DeviceEPS  uint8 = 0x02
	DeviceADCS uint8 = 0x03
)

// Register addresses (request byte 1), per device.
const (
	OBCRegTemp uint8 = 0x00

	EPSRegHousekeeping uint8 = 0x00
	EPSRegSet          uint8 = 0x01

	ADCSRegMag    uint8 = 0x00
	ADCSRegGyro   uint8 = 0x01
	ADCSRegSun    uint8 = 0x02
	ADCSRegTorque uint8 = 0x03
)

// Request byte offsets.
const (
	offDevice   = 0
	offRegister = 1
	offArg      = 2
)
