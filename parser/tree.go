package parser

import (
	"fmt"
	"strings"
)

// DebugTree renders the document as an indented outline, one entity
// or extension per line.
func DebugTree(doc *Document) string {
	builder := &strings.Builder{}
	writeLine(builder, 0, "Document program=%q version=%q",
		doc.Program, doc.Version)

	for _, source := range doc.Sources {
		writeLine(builder, 1, "Source %q", source)
	}
	writeExtensions(builder, 1, doc.Extensions)

	for _, disk := range doc.DiskImages {
		writeDiskImage(builder, 1, disk)
	}

	return strings.TrimRight(builder.String(), "\n")
}

func writeLine(builder *strings.Builder, depth int,
	format string, args ...interface{}) {
	builder.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(builder, format, args...)
	builder.WriteString("\n")
}

func writeDiskImage(builder *strings.Builder, depth int, disk *DiskImage) {
	line := fmt.Sprintf("DiskImage %v sector_size=%v",
		disk.Run, formatOptional(disk.SectorSize))
	if disk.Emulation != "" {
		line += fmt.Sprintf(" emulation=%q", disk.Emulation)
	}
	writeLine(builder, depth, "%s", line)

	for _, ps := range disk.PartitionSystems {
		writePartitionSystem(builder, depth+1, ps)
	}
	for _, volume := range disk.Volumes {
		writeVolume(builder, depth+1, volume)
	}
}

func writePartitionSystem(builder *strings.Builder, depth int,
	ps *PartitionSystem) {
	line := fmt.Sprintf("PartitionSystem %s %v block_size=%v",
		ps.Type, ps.Run, formatOptional(ps.BlockSize))
	if ps.GUID != "" {
		line += " guid=" + ps.GUID
	}
	writeLine(builder, depth, "%s", line)

	for _, partition := range ps.Partitions {
		writePartition(builder, depth+1, partition)
	}
}

func writePartition(builder *strings.Builder, depth int, partition *Partition) {
	if partition.Unused {
		writeLine(builder, depth, "Partition %s unused", partition.Index)
		return
	}

	line := fmt.Sprintf("Partition %s %v blocks=%v",
		partition.Index, partition.Run, formatOptional(partition.BlockCount))
	if partition.Type != nil {
		line += fmt.Sprintf(" ptype=0x%02x", *partition.Type)
	}
	if partition.TypeLabel != "" {
		line += fmt.Sprintf(" ptype_str=%q", partition.TypeLabel)
	}
	if partition.TypeGUID != "" {
		line += " type_guid=" + partition.TypeGUID
	}
	if partition.GUID != "" {
		line += " guid=" + partition.GUID
	}
	if partition.FileSystemType != "" {
		line += fmt.Sprintf(" ftype=%q", partition.FileSystemType)
	}
	if partition.Name != "" {
		line += fmt.Sprintf(" name=%q", partition.Name)
	}
	if partition.Bootable {
		line += " bootable"
	}
	writeLine(builder, depth, "%s", line)

	for _, ps := range partition.PartitionSystems {
		writePartitionSystem(builder, depth+1, ps)
	}
	for _, volume := range partition.Volumes {
		writeVolume(builder, depth+1, volume)
	}
}

func writeVolume(builder *strings.Builder, depth int, volume *Volume) {
	line := fmt.Sprintf("Volume %q %v blocks=%v block_size=%v",
		volume.FileSystemType, volume.Run,
		formatOptional(volume.BlockCount), formatOptional(volume.BlockSize))
	if volume.Name != "" {
		line += fmt.Sprintf(" name=%q", volume.Name)
	}
	if volume.SectorSize != nil {
		line += fmt.Sprintf(" sector_size=%d", *volume.SectorSize)
	}
	if volume.PartitionOffset != nil {
		line += fmt.Sprintf(" partition_offset=%d", *volume.PartitionOffset)
	}
	if volume.Wrapped {
		line += " wrapped"
	}
	writeLine(builder, depth, "%s", line)

	writeExtensions(builder, depth+1, volume.Extensions)
	for _, disk := range volume.DiskImages {
		writeDiskImage(builder, depth+1, disk)
	}
	for _, ps := range volume.PartitionSystems {
		writePartitionSystem(builder, depth+1, ps)
	}
}

func writeExtensions(builder *strings.Builder, depth int,
	extensions []Extension) {
	for _, ext := range extensions {
		switch t := ext.(type) {
		case *WrappedVolume:
			writeLine(builder, depth, "Extension %s", t.Name())
			writeVolume(builder, depth+1, t.Volume)
		default:
			writeLine(builder, depth, "Extension %s %s",
				ext.Name(), extensionValue(ext))
		}
	}
}

func extensionValue(ext Extension) string {
	switch t := ext.(type) {
	case *PartitionSystemType:
		return t.Type
	case *GUID:
		return t.Value
	case *PartitionType:
		return fmt.Sprintf("0x%02x", t.Code)
	case *PartitionTypeLabel:
		return fmt.Sprintf("%q", t.Label)
	case *PartitionByteRun:
		return t.Run.String()
	case *DiskImageByteRun:
		return t.Run.String()
	case *UUID:
		return fmt.Sprintf("%q", t.Value)
	case *ISO9660Extension:
		return fmt.Sprintf("%s %q", t.Extension, t.VolumeName)
	}
	return ""
}
