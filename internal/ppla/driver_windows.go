//go:build windows

package ppla

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// A_CreatePrn selection value for opening by USB device interface path.
const selectorDevicePath = 12

// winDriver binds Winppla.dll. The DLL is resolved lazily, so construction
// never fails; a missing or broken DLL surfaces as an error from the first
// operation that needs it.
type winDriver struct {
	dll *windows.LazyDLL

	getUSBBufferLen  *windows.LazyProc
	enumUSB          *windows.LazyProc
	getUSBDeviceInfo *windows.LazyProc
	createPrn        *windows.LazyProc
	createUSBPort    *windows.LazyProc
	writeData        *windows.LazyProc
	closePrn         *windows.LazyProc
}

// NewDriver loads the vendor PPLA driver DLL.
func NewDriver() Driver {
	dll := windows.NewLazyDLL("Winppla.dll")

	return &winDriver{
		dll:              dll,
		getUSBBufferLen:  dll.NewProc("A_GetUSBBufferLen"),
		enumUSB:          dll.NewProc("A_EnumUSB"),
		getUSBDeviceInfo: dll.NewProc("A_GetUSBDeviceInfo"),
		createPrn:        dll.NewProc("A_CreatePrn"),
		createUSBPort:    dll.NewProc("A_CreateUSBPort"),
		writeData:        dll.NewProc("A_WriteData"),
		closePrn:         dll.NewProc("A_ClosePrn"),
	}
}

func (d *winDriver) ready(proc *windows.LazyProc) error {
	if err := proc.Find(); err != nil {
		return fmt.Errorf("%w: %v", ErrDriverUnavailable, err)
	}
	return nil
}

func (d *winDriver) BufferLength() (int, error) {
	if err := d.ready(d.getUSBBufferLen); err != nil {
		return 0, err
	}

	n, _, _ := d.getUSBBufferLen.Call()
	return int(int32(n)), nil
}

func (d *winDriver) EnumDevices(buf []byte) error {
	if err := d.ready(d.enumUSB); err != nil {
		return err
	}
	if len(buf) == 0 {
		return fmt.Errorf("ppla: enumeration buffer is empty")
	}

	rc, _, _ := d.enumUSB.Call(uintptr(unsafe.Pointer(&buf[0])))
	return statusErr("A_EnumUSB", int(int32(rc)))
}

func (d *winDriver) DeviceInfo(index int) (string, string, error) {
	if err := d.ready(d.getUSBDeviceInfo); err != nil {
		return "", "", err
	}

	nameBuf := make([]byte, 128)
	pathBuf := make([]byte, 256)
	nameLen := int32(len(nameBuf))
	pathLen := int32(len(pathBuf))

	rc, _, _ := d.getUSBDeviceInfo.Call(
		uintptr(index),
		uintptr(unsafe.Pointer(&nameBuf[0])),
		uintptr(unsafe.Pointer(&nameLen)),
		uintptr(unsafe.Pointer(&pathBuf[0])),
		uintptr(unsafe.Pointer(&pathLen)),
	)

	if err := statusErr("A_GetUSBDeviceInfo", int(int32(rc))); err != nil {
		return "", "", err
	}

	return cstring(nameBuf), cstring(pathBuf), nil
}

func (d *winDriver) OpenPath(path string) error {
	if err := d.ready(d.createPrn); err != nil {
		return err
	}

	p, err := windows.BytePtrFromString(path)
	if err != nil {
		return fmt.Errorf("ppla: invalid device path: %w", err)
	}

	rc, _, _ := d.createPrn.Call(uintptr(selectorDevicePath), uintptr(unsafe.Pointer(p)))
	return statusErr("A_CreatePrn", int(int32(rc)))
}

func (d *winDriver) OpenIndex(selector, index int) error {
	if selector != SelectorUSB {
		return fmt.Errorf("ppla: unsupported port selector %d", selector)
	}
	if err := d.ready(d.createUSBPort); err != nil {
		return err
	}

	rc, _, _ := d.createUSBPort.Call(uintptr(index))
	return statusErr("A_CreateUSBPort", int(int32(rc)))
}

func (d *winDriver) Write(data []byte) (int, error) {
	if err := d.ready(d.writeData); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}

	rc, _, _ := d.writeData.Call(
		uintptr(1), // immediate
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
	)

	if err := statusErr("A_WriteData", int(int32(rc))); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (d *winDriver) Close() error {
	if err := d.ready(d.closePrn); err != nil {
		return err
	}

	// The vendor call has no return value of interest.
	d.closePrn.Call()
	return nil
}

// cstring returns the bytes of buf up to the first NUL as a string.
func cstring(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
