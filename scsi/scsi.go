// Package scsi adapts a synthesized volume to the external SCSI/USB Mass
// Storage boundary: INQUIRY, READ CAPACITY, TEST UNIT READY, PREVENT/ALLOW
// MEDIUM REMOVAL, WRITE(10), MODE SENSE(10), and the generic command
// filter. Everything here is a thin translation layer over dispatch.Table
// and notify.State; no exFAT semantics live here.
package scsi

import (
	"github.com/dargueta/vexfat/errors"
	"github.com/dargueta/vexfat/notify"
)

// SectorReader is the narrow read surface Adapter needs from the
// synthesized volume. *dispatch.Table satisfies this.
type SectorReader interface {
	Render(lba uint64, buf []byte)
}

// Adapter implements the transport/SCSI boundary over a SectorReader and a
// notify.State. It holds no exFAT state of its own.
type Adapter struct {
	Sectors             SectorReader
	State               *notify.State
	VolumeLengthSectors uint64
	SectorSize          uint32

	Vendor, Product, Revision string
}

// Read10 implements the "read10(lba, offset, buf, len)" contract: it
// renders whole sectors through Sectors and copies the requested byte
// range out of them, spanning sector boundaries as needed.
func (a *Adapter) Read10(lba uint64, byteOffset uint32, buf []byte) {
	sector := make([]byte, a.SectorSize)
	written := 0
	for written < len(buf) {
		a.Sectors.Render(lba, sector)
		n := copy(buf[written:], sector[byteOffset:])
		written += n
		byteOffset = 0
		lba++
	}
}

// Inquiry fills resp with the standard INQUIRY descriptor: peripheral type
// 0 (direct-access block device), vendor/product/revision strings, and the
// removable-media bit set (the volume is presented over a removable USB
// transport). resp must be at least 36 bytes; a shorter buffer is filled as
// far as it goes.
func (a *Adapter) Inquiry(resp []byte) {
	for i := range resp {
		resp[i] = 0x20 // ASCII space, the INQUIRY padding convention
	}
	if len(resp) > 1 {
		resp[1] = 0x80 // RMB: removable medium
	}
	copyField(resp, 8, 8, a.Vendor)
	copyField(resp, 16, 16, a.Product)
	copyField(resp, 32, 4, a.Revision)
}

func copyField(resp []byte, offset, length int, value string) {
	if offset >= len(resp) {
		return
	}
	end := offset + length
	if end > len(resp) {
		end = len(resp)
	}
	copy(resp[offset:end], value)
}

// Capacity returns (block_count, block_size): the volume length in
// sectors and the sector size.
func (a *Adapter) Capacity() (blockCount uint64, blockSize uint32) {
	return a.VolumeLengthSectors, a.SectorSize
}

// TestUnitReady implements the TEST UNIT READY hook, reporting not-ready
// with a Unit Attention sense exactly when notify.State says a pending
// notification is due.
func (a *Adapter) TestUnitReady() (ready bool, sense notify.Sense) {
	ready = a.State.TestUnitReady(&sense)
	return ready, sense
}

// PreventAllowMediumRemoval implements the PREVENT ALLOW MEDIUM REMOVAL
// hook. The control parameter (SCSI's PREVENT field reserved bits) is accepted
// for interface symmetry with the real command but unused: the synthesized
// volume only distinguishes prevent=true/false.
func (a *Adapter) PreventAllowMediumRemoval(prevent bool, control byte) bool {
	return a.State.PreventAllowMediumRemoval(prevent)
}

// IsWritable is always false: the synthesizer never accepts writes.
func (a *Adapter) IsWritable() bool {
	return false
}

// writeProtectSense is returned by every write-like command.
var writeProtectSense = notify.SenseDataProtect

// Write10 is unreachable in a correctly behaving host -- the volume
// advertises write protection -- but a misbehaving or buggy host may still
// issue it. It always fails with DATA PROTECT sense.
func (a *Adapter) Write10(lba uint64, byteOffset uint32, buf []byte) (notify.Sense, error) {
	return writeProtectSense, errors.ErrInvalidArgument.WithMessage("volume is read-only")
}

// ModeSense10 writes the minimal 8-byte MODE SENSE(10) header: mode data
// length, medium type 0, the WP bit set in the device-specific-parameter
// byte, and zero block descriptors.
func (a *Adapter) ModeSense10(buf []byte) int {
	for i := range buf {
		buf[i] = 0
	}
	if len(buf) < 8 {
		return len(buf)
	}
	buf[0] = 0    // mode data length (bytes following this field), big-endian high byte
	buf[1] = 6    // mode data length, low byte
	buf[2] = 0    // medium type
	buf[3] = 0x80 // device-specific parameter: WP bit set
	buf[6], buf[7] = 0, 0 // block descriptor length = 0
	return 8
}

// SCSI operation codes the command filter refers to: the read-side hooks
// plus every write-like command, reachable through the generic
// "scsi(cmd, buf, buf_len)" entry point. opModeSense6 is listed but not
// handled by Command, so MODE SENSE(6) falls through to -1.
const (
	opTestUnitReady             = 0x00
	opInquiry                   = 0x12
	opModeSelect6               = 0x15
	opModeSense6                = 0x1A
	opPreventAllowMediumRemoval = 0x1E
	opFormatUnit                = 0x04
	opWrite10                   = 0x2A
	opModeSense10               = 0x5A
	opModeSelect10              = 0x55
	opWrite12                   = 0xAA
	opWrite16                   = 0x8A
	opUnmap                     = 0x42
)

// Command implements the generic "scsi(cmd[16], buf, buf_len)" filter: it
// handles every command this synthesizer needs to special-case and
// returns -1 for anything else, deferring to whatever default handling
// the transport layer provides for commands it doesn't recognize.
func (a *Adapter) Command(cmd []byte, buf []byte) int {
	if len(cmd) == 0 {
		return -1
	}

	switch cmd[0] {
	case opTestUnitReady:
		ready, sense := a.TestUnitReady()
		if ready {
			return 0
		}
		return encodeSense(buf, sense)

	case opInquiry:
		a.Inquiry(buf)
		return len(buf)

	case opModeSense10:
		return a.ModeSense10(buf)

	case opPreventAllowMediumRemoval:
		var control byte
		if len(cmd) > 4 {
			control = cmd[4]
		}
		prevent := len(cmd) > 4 && cmd[4]&0x01 != 0
		if a.PreventAllowMediumRemoval(prevent, control) {
			return 0
		}
		return -1

	case opWrite10, opWrite12, opWrite16, opModeSelect6, opModeSelect10, opUnmap, opFormatUnit:
		return encodeSense(buf, writeProtectSense)

	default:
		return -1
	}
}

// encodeSense writes a minimal fixed-format sense buffer (key in byte 2,
// ASC in byte 12, ASCQ in byte 13, matching the standard 18-byte fixed
// sense format) and returns the byte count written, or -1 if buf is too
// small to hold it.
func encodeSense(buf []byte, sense notify.Sense) int {
	const senseLen = 18
	if len(buf) < senseLen {
		return -1
	}
	for i := range buf[:senseLen] {
		buf[i] = 0
	}
	buf[0] = 0x70 // fixed format, current errors
	buf[2] = sense.Key
	buf[7] = senseLen - 8
	buf[12] = sense.ASC
	buf[13] = sense.ASCQ
	return senseLen
}
