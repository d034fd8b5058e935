package device

import (
	"sort"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port found on the host.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// listDetailed is replaced in tests.
var listDetailed = enumerator.GetDetailedPortsList

// ListPorts enumerates serial ports sorted by name.
func ListPorts() ([]PortInfo, error) {
	details, err := listDetailed()
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrOperationFailed, err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })

	return ports, nil
}
