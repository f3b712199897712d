// Package ioctl encodes Linux ioctl request numbers and issues them against
// device files.
package ioctl

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Mode is the IOCTL direction, seen from userland.
type Mode uint8

// Modes
const (
	None  Mode = 0
	Write Mode = 1
	Read  Mode = 2

	ReadWrite = Read | Write
)

// Command to be sent over ioctl.
type Command uintptr

// Type is the driver type byte of the command.
func (c Command) Type() uint8 {
	return uint8(c >> 8)
}

// Number is the request number within the driver type.
func (c Command) Number() uint8 {
	return uint8(c)
}

// Size is the size of the argument in bytes.
func (c Command) Size() uint16 {
	return uint16(c >> 16 & 0x3fff)
}

func (c Command) String() string {
	var (
		mode = Mode(c >> 30 & 0x03)
		str  string
	)
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) %q 0x%02x", str, c.Size(), rune(c.Type()), c.Number())
}

// Ioctler is a device file that accepts ioctl calls, such as a periph.io fs.File.
type Ioctler interface {
	Ioctl(op uint, data uintptr) error
}

// Error is a failed ioctl call. Err is the error returned by the device,
// usually a syscall.Errno.
type Error struct {
	Command Command
	Err     error
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", err.Command, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Do executes the ioctl call with a pointer argument.
func Do(dev Ioctler, command Command, arg unsafe.Pointer) error {
	if err := dev.Ioctl(uint(command), uintptr(arg)); err != nil {
		return &Error{Command: command, Err: err}
	}
	return nil
}

// Encode an ioctl command.
func Encode(mode Mode, size uint16, typ uint8, nr uint8) Command {
	return Command(mode)<<30 | Command(size&0x3fff)<<16 | Command(typ)<<8 | Command(nr)
}

// Pointer encodes a command whose argument is a pointer to ref's element type.
func Pointer(mode Mode, ref interface{}, typ uint8, nr uint8) Command {
	size := uint16(reflect.TypeOf(ref).Elem().Size())
	return Encode(mode, size, typ, nr)
}
