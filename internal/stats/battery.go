package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Battery is a power_supply uevent snapshot.
type Battery struct {
	Name             string
	Type             string
	Status           string
	Present          bool
	Technology       string
	CycleCount       int64
	VoltageMinDesign int64
	VoltageNow       int64
	CurrentNow       int64
	ChargeFullDesign int64
	ChargeFull       int64
	ChargeNow        int64
	Capacity         int
	CapacityLevel    string
	ModelName        string
	Manufacturer     string
	SerialNumber     string
}

// ParseBattery parses KEY=value lines. POWER_SUPPLY_CAPACITY is required;
// unknown keys are ignored.
func ParseBattery(r io.Reader) (Battery, error) {
	var b Battery
	seenCapacity := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		var err error
		switch key {
		case "POWER_SUPPLY_NAME":
			b.Name = value
		case "POWER_SUPPLY_TYPE":
			b.Type = value
		case "POWER_SUPPLY_STATUS":
			b.Status = value
		case "POWER_SUPPLY_PRESENT":
			b.Present = value == "1"
		case "POWER_SUPPLY_TECHNOLOGY":
			b.Technology = value
		case "POWER_SUPPLY_CYCLE_COUNT":
			b.CycleCount, err = strconv.ParseInt(value, 10, 64)
		case "POWER_SUPPLY_VOLTAGE_MIN_DESIGN":
			b.VoltageMinDesign, err = strconv.ParseInt(value, 10, 64)
		case "POWER_SUPPLY_VOLTAGE_NOW":
			b.VoltageNow, err = strconv.ParseInt(value, 10, 64)
		case "POWER_SUPPLY_CURRENT_NOW":
			b.CurrentNow, err = strconv.ParseInt(value, 10, 64)
		case "POWER_SUPPLY_CHARGE_FULL_DESIGN":
			b.ChargeFullDesign, err = strconv.ParseInt(value, 10, 64)
		case "POWER_SUPPLY_CHARGE_FULL":
			b.ChargeFull, err = strconv.ParseInt(value, 10, 64)
		case "POWER_SUPPLY_CHARGE_NOW":
			b.ChargeNow, err = strconv.ParseInt(value, 10, 64)
		case "POWER_SUPPLY_CAPACITY":
			b.Capacity, err = strconv.Atoi(value)
			seenCapacity = err == nil
		case "POWER_SUPPLY_CAPACITY_LEVEL":
			b.CapacityLevel = value
		case "POWER_SUPPLY_MODEL_NAME":
			b.ModelName = value
		case "POWER_SUPPLY_MANUFACTURER":
			b.Manufacturer = value
		case "POWER_SUPPLY_SERIAL_NUMBER":
			b.SerialNumber = value
		}
		if err != nil {
			return Battery{}, fmt.Errorf("%s: %w", key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Battery{}, err
	}
	if !seenCapacity {
		return Battery{}, fmt.Errorf("missing POWER_SUPPLY_CAPACITY")
	}

	return b, nil
}
