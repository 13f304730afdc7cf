package parser

import (
	"github.com/Velocidex/ordereddict"
)

// Describe renders the document as nested ordered dicts, ready for
// JSON output. Unknown values are emitted as null.
func Describe(doc *Document) *ordereddict.Dict {
	disk_images := make([]*ordereddict.Dict, 0, len(doc.DiskImages))
	for _, disk := range doc.DiskImages {
		disk_images = append(disk_images, describeDiskImage(disk))
	}

	return ordereddict.NewDict().
		Set("Program", doc.Program).
		Set("Version", doc.Version).
		Set("CommandLine", doc.CommandLine).
		Set("Sources", doc.Sources).
		Set("Extensions", describeExtensions(doc.Extensions)).
		Set("DiskImages", disk_images)
}

func describeOptional(value *uint64) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func describeByteRun(run *ByteRun) *ordereddict.Dict {
	return ordereddict.NewDict().
		Set("Offset", describeOptional(run.Offset)).
		Set("Length", describeOptional(run.Length))
}

func describeDiskImage(disk *DiskImage) *ordereddict.Dict {
	result := ordereddict.NewDict().
		Set("Type", KindDiskImage.String()).
		Set("ByteRun", describeByteRun(&disk.Run)).
		Set("SectorSize", describeOptional(disk.SectorSize))

	if disk.Emulation != "" {
		result.Set("Emulation", disk.Emulation)
	}

	return result.
		Set("PartitionSystems", describePartitionSystems(disk.PartitionSystems)).
		Set("Volumes", describeVolumes(disk.Volumes))
}

func describePartitionSystems(systems []*PartitionSystem) []*ordereddict.Dict {
	result := make([]*ordereddict.Dict, 0, len(systems))
	for _, ps := range systems {
		partitions := make([]*ordereddict.Dict, 0, len(ps.Partitions))
		for _, partition := range ps.Partitions {
			partitions = append(partitions, describePartition(partition))
		}

		result = append(result, ordereddict.NewDict().
			Set("Type", KindPartitionSystem.String()).
			Set("PartitionSystemType", ps.Type).
			Set("Label", ps.Label).
			Set("BlockSize", describeOptional(ps.BlockSize)).
			Set("GUID", ps.GUID).
			Set("ByteRun", describeByteRun(&ps.Run)).
			Set("Partitions", partitions))
	}
	return result
}

func describePartition(partition *Partition) *ordereddict.Dict {
	result := ordereddict.NewDict().
		Set("Type", KindPartition.String()).
		Set("Index", partition.Index)

	if partition.Unused {
		return result.Set("Unused", true)
	}

	return result.
		Set("ByteRun", describeByteRun(&partition.Run)).
		Set("BlockCount", describeOptional(partition.BlockCount)).
		Set("BlockSize", describeOptional(partition.BlockSize)).
		Set("PartitionSystemOffset",
			describeOptional(partition.PartitionSystemOffset)).
		Set("PartitionType", describeOptional(partition.Type)).
		Set("PartitionTypeLabel", partition.TypeLabel).
		Set("PartitionTypeGUID", partition.TypeGUID).
		Set("GUID", partition.GUID).
		Set("FileSystemType", partition.FileSystemType).
		Set("Name", partition.Name).
		Set("Bootable", partition.Bootable).
		Set("PartitionSystems",
			describePartitionSystems(partition.PartitionSystems)).
		Set("Volumes", describeVolumes(partition.Volumes))
}

func describeVolumes(volumes []*Volume) []*ordereddict.Dict {
	result := make([]*ordereddict.Dict, 0, len(volumes))
	for _, volume := range volumes {
		result = append(result, describeVolume(volume))
	}
	return result
}

func describeVolume(volume *Volume) *ordereddict.Dict {
	disk_images := make([]*ordereddict.Dict, 0, len(volume.DiskImages))
	for _, disk := range volume.DiskImages {
		disk_images = append(disk_images, describeDiskImage(disk))
	}

	return ordereddict.NewDict().
		Set("Type", KindVolume.String()).
		Set("FileSystemType", volume.FileSystemType).
		Set("Name", volume.Name).
		Set("ByteRun", describeByteRun(&volume.Run)).
		Set("BlockCount", describeOptional(volume.BlockCount)).
		Set("BlockSize", describeOptional(volume.BlockSize)).
		Set("SectorSize", describeOptional(volume.SectorSize)).
		Set("PartitionOffset", describeOptional(volume.PartitionOffset)).
		Set("Wrapped", volume.Wrapped).
		Set("Extensions", describeExtensions(volume.Extensions)).
		Set("DiskImages", disk_images).
		Set("PartitionSystems",
			describePartitionSystems(volume.PartitionSystems))
}

func describeExtensions(extensions []Extension) []*ordereddict.Dict {
	result := make([]*ordereddict.Dict, 0, len(extensions))
	for _, ext := range extensions {
		result = append(result, DescribeExtension(ext))
	}
	return result
}

func DescribeExtension(ext Extension) *ordereddict.Dict {
	result := ordereddict.NewDict().Set("Name", ext.Name())

	switch t := ext.(type) {
	case *PartitionSystemType:
		result.Set("Value", t.Type)
	case *GUID:
		result.Set("Value", t.Value)
	case *PartitionType:
		result.Set("Value", t.Code)
	case *PartitionTypeLabel:
		result.Set("Value", t.Label)
	case *PartitionByteRun:
		result.Set("ByteRun", describeByteRun(&t.Run))
	case *DiskImageByteRun:
		result.Set("ByteRun", describeByteRun(&t.Run))
	case *UUID:
		result.Set("Value", t.Value)
	case *ISO9660Extension:
		result.Set("Extension", t.Extension).
			Set("VolumeName", t.VolumeName)
	case *WrappedVolume:
		result.Set("Volume", describeVolume(t.Volume))
	}
	return result
}
