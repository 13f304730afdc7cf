package parser

import (
	"github.com/pkg/errors"
)

// containerRun returns the nearest complete byte run below the top of
// the entity stack.
func (self *Parser) containerRun() *ByteRun {
	for i := len(self.entities) - 2; i >= 0; i-- {
		run := self.entities[i].ByteRun()
		if run != nil && run.Defined() {
			return run
		}
	}
	return nil
}

// deriveVolumeRun records a volume length. Without a known offset the
// volume takes its container's offset when both are the same size.
func (self *Parser) deriveVolumeRun(
	volume *Volume, length uint64, provisional bool) error {
	if volume.PartitionOffset == nil && !volume.Wrapped {
		container := self.containerRun()
		if container != nil && *container.Length == length {
			volume.PartitionOffset = newUint64(*container.Offset)
		}
	}

	return volume.Run.assign(volume.PartitionOffset, &length, provisional)
}

// Size of a volume before the file system reports its own: the
// inherited partition geometry, or whatever is left of the disk image.
func (self *Parser) defaultVolumeLength(volume *Volume) (uint64, bool) {
	if volume.BlockCount != nil && volume.BlockSize != nil {
		length, err := multiplySize(*volume.BlockCount, *volume.BlockSize)
		return length, err == nil
	}

	disk := self.nearestDiskImage()
	if disk == nil || !disk.Run.Defined() || volume.PartitionOffset == nil {
		return 0, false
	}

	end := *disk.Run.Offset + *disk.Run.Length
	if *volume.PartitionOffset > end {
		return 0, false
	}
	return end - *volume.PartitionOffset, true
}

// placeVolume sets the offset of a freshly typed file system.
// distance is an explicit offset printed on the file system line; it
// is taken relative to the enclosing container, not the image start.
func (self *Parser) placeVolume(volume *Volume, distance *uint64) {
	_, in_partition := self.parent().(*Partition)
	container := self.containerRun()

	if distance != nil {
		base := uint64(0)
		if container != nil {
			base = *container.Offset
		}
		volume.PartitionOffset = newUint64(base + *distance)
		return
	}

	// Inside a partition the offset was inherited when the volume
	// was opened.
	if in_partition || volume.Wrapped || container == nil {
		return
	}
	volume.PartitionOffset = newUint64(*container.Offset)
}

// setPartitionGeometry fills a partition from its size, block count
// and start block, back-filling unknown block sizes up the stack.
func (self *Parser) setPartitionGeometry(
	partition *Partition, ps *PartitionSystem,
	length, block_count, from uint64) error {

	err := partition.Run.SetLength(length)
	if err != nil {
		return err
	}
	partition.BlockCount = newUint64(block_count)

	if block_count > 0 {
		if length%block_count != 0 {
			return errors.Wrapf(ErrGeometry,
				"partition of %d bytes is not %d whole blocks",
				length, block_count)
		}
		partition.BlockSize = newUint64(length / block_count)
	}

	if ps.BlockSize == nil && partition.BlockSize != nil {
		ps.BlockSize = newUint64(*partition.BlockSize)
	}

	disk := self.nearestDiskImage()
	if disk != nil && disk.SectorSize == nil && ps.BlockSize != nil {
		disk.SectorSize = newUint64(*ps.BlockSize)
	}

	distance := uint64(0)
	if from > 0 {
		if partition.BlockSize == nil {
			return errors.Wrapf(ErrUnimplemented,
				"partition starts at block %d of unknown size", from)
		}
		distance, err = multiplySize(from, *partition.BlockSize)
		if err != nil {
			return err
		}
	}
	partition.PartitionSystemOffset = newUint64(distance)

	if ps.Run.Offset == nil {
		return errors.Wrapf(ErrGeometry,
			"partition system offset is unknown")
	}
	return partition.Run.SetOffset(*ps.Run.Offset + distance)
}
