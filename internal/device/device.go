// Package device enumerates audio input devices and selects one of them.
package device

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrEnumerate wraps failures of the audio subsystem while listing devices.
	ErrEnumerate = errors.New("failed to get audio devices")
	// ErrNotInteger is returned when the selection is not a number.
	ErrNotInteger = errors.New("this was not an integer")
	// ErrInvalidSource is returned when the selection is not an enumerated index.
	ErrInvalidSource = errors.New("invalid input source")
)

// Device is an enumerated audio input device.
type Device struct {
	Index int
	Name  string
}

// Lister returns the names of the available input devices in a stable order.
type Lister func() ([]string, error)

// Enumerate lists devices, assigning 0-based indices in enumeration order,
// and prints each of them to out.
func Enumerate(list Lister, out io.Writer) ([]Device, error) {
	if list == nil {
		return nil, fmt.Errorf("%w: no lister", ErrEnumerate)
	}
	names, err := list()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumerate, err)
	}
	devices := make([]Device, 0, len(names))
	for i, name := range names {
		devices = append(devices, Device{Index: i, Name: name})
		if out != nil {
			fmt.Fprintf(out, "index: %d, device name: %q\n", i, name)
		}
	}
	return devices, nil
}

// Prompt enumerates the devices and asks for one on in.
func Prompt(list Lister, in io.Reader, out io.Writer) (int, error) {
	devices, err := Enumerate(list, out)
	if err != nil {
		return 0, err
	}
	return Select(in, out, devices)
}

// Select reads a single line from in and returns the chosen device index.
// There is no second chance: any invalid entry is returned as an error.
func Select(in io.Reader, out io.Writer, devices []Device) (int, error) {
	if out != nil {
		fmt.Fprint(out, "Select input source by index: ")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return 0, fmt.Errorf("failed to read line: %w", err)
	}
	trimmed := strings.TrimSpace(line)
	index, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotInteger, trimmed)
	}
	if err := Validate(index, devices); err != nil {
		return 0, err
	}
	return index, nil
}

// Validate checks that index is one of the enumerated device indices.
func Validate(index int, devices []Device) error {
	for _, d := range devices {
		if d.Index == index {
			return nil
		}
	}
	return fmt.Errorf("%w, allowed sources indexes are: %s", ErrInvalidSource, formatIndices(devices))
}

func formatIndices(devices []Device) string {
	parts := make([]string, len(devices))
	for i, d := range devices {
		parts[i] = strconv.Itoa(d.Index)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
