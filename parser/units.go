package parser

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Binary units used by the report. All sizes are powers of 1024.
var block_units = map[string]uint64{
	"bytes": 1,
	"KiB":   1 << 10,
	"MiB":   1 << 20,
	"GiB":   1 << 30,
}

func UnitSize(unit string) (uint64, error) {
	multiplier, pres := block_units[unit]
	if !pres {
		return 0, errors.Wrapf(ErrUnimplemented, "unknown size unit %q", unit)
	}
	return multiplier, nil
}

// ParseSize normalizes a count and a unit into bytes.
func ParseSize(count, unit string) (uint64, error) {
	multiplier, err := UnitSize(unit)
	if err != nil {
		return 0, err
	}

	value, err := parseUint(count)
	if err != nil {
		return 0, err
	}
	return multiplySize(value, multiplier)
}

// multiplySize returns count * size, failing when the product does
// not fit in 64 bits.
func multiplySize(count, size uint64) (uint64, error) {
	hi, lo := bits.Mul64(count, size)
	if hi != 0 {
		return 0, errors.Wrapf(ErrGeometry,
			"%d units of %d bytes overflow", count, size)
	}
	return lo, nil
}

func parseUint(value string) (uint64, error) {
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrUnimplemented, "bad integer %q", value)
	}
	return result, nil
}

// Partition type codes are printed either as hex (0x83) or decimal.
func parsePartitionType(value string) (uint64, error) {
	base := 10
	digits := value
	if strings.HasPrefix(value, "0x") {
		base = 16
		digits = value[2:]
	}

	result, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrUnimplemented, "bad partition type %q", value)
	}
	return result, nil
}
