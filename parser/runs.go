package parser

import (
	"fmt"
	"strings"
)

// RunInfo is one entity's extent in a flat listing of the tree.
type RunInfo struct {
	Type        EntityKind
	Level       int
	Offset      *uint64
	Length      *uint64
	Provisional bool
	Description string
}

func (self RunInfo) String() string {
	prefix := strings.Repeat(" ", self.Level)

	properties := ""
	if self.Provisional {
		properties = " Provisional"
	}

	result := fmt.Sprintf("%s%d %v: Offset %v (Length %v%s)",
		prefix, self.Level, self.Type,
		formatOptional(self.Offset), formatOptional(self.Length),
		properties)
	if self.Description != "" {
		result += " " + self.Description
	}
	return result
}

// End returns the first byte after the run, if it is fully known.
func (self RunInfo) End() (uint64, bool) {
	if self.Offset == nil || self.Length == nil {
		return 0, false
	}
	return *self.Offset + *self.Length, true
}

func newRunInfo(kind EntityKind, level int, run *ByteRun,
	description string) *RunInfo {
	return &RunInfo{
		Type:        kind,
		Level:       level,
		Offset:      run.Offset,
		Length:      run.Length,
		Provisional: run.Provisional(),
		Description: description,
	}
}

// DebugRuns lists every entity of the document in tree order.
func DebugRuns(doc *Document) []*RunInfo {
	result := make([]*RunInfo, 0)
	for _, disk := range doc.DiskImages {
		result = append(result, diskImageRuns(disk, 0)...)
	}
	return result
}

func diskImageRuns(disk *DiskImage, level int) []*RunInfo {
	result := []*RunInfo{
		newRunInfo(KindDiskImage, level, &disk.Run, disk.Emulation),
	}

	for _, ps := range disk.PartitionSystems {
		result = append(result, partitionSystemRuns(ps, level+1)...)
	}
	for _, volume := range disk.Volumes {
		result = append(result, volumeRuns(volume, level+1)...)
	}
	return result
}

func partitionSystemRuns(ps *PartitionSystem, level int) []*RunInfo {
	result := []*RunInfo{
		newRunInfo(KindPartitionSystem, level, &ps.Run, ps.Type),
	}

	for _, partition := range ps.Partitions {
		if partition.Unused {
			continue
		}

		description := "Partition " + partition.Index
		if partition.TypeLabel != "" {
			description += " " + partition.TypeLabel
		}
		result = append(result, newRunInfo(
			KindPartition, level+1, &partition.Run, description))

		for _, nested := range partition.PartitionSystems {
			result = append(result, partitionSystemRuns(nested, level+2)...)
		}
		for _, volume := range partition.Volumes {
			result = append(result, volumeRuns(volume, level+2)...)
		}
	}
	return result
}

func volumeRuns(volume *Volume, level int) []*RunInfo {
	description := volume.FileSystemType
	if volume.Name != "" {
		description += fmt.Sprintf(" %q", volume.Name)
	}

	result := []*RunInfo{
		newRunInfo(KindVolume, level, &volume.Run, description),
	}

	for _, wrapped := range volume.WrappedVolumes() {
		result = append(result, volumeRuns(wrapped, level+1)...)
	}
	for _, disk := range volume.DiskImages {
		result = append(result, diskImageRuns(disk, level+1)...)
	}
	for _, ps := range volume.PartitionSystems {
		result = append(result, partitionSystemRuns(ps, level+1)...)
	}
	return result
}
