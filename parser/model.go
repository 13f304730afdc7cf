package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

type EntityKind int

const (
	KindDocument EntityKind = iota
	KindDiskImage
	KindPartitionSystem
	KindPartition
	KindVolume
)

func (self EntityKind) String() string {
	switch self {
	case KindDocument:
		return "Document"
	case KindDiskImage:
		return "DiskImage"
	case KindPartitionSystem:
		return "PartitionSystem"
	case KindPartition:
		return "Partition"
	case KindVolume:
		return "Volume"
	}
	return fmt.Sprintf("EntityKind(%d)", int(self))
}

// Entity is a node of the parsed tree.
type Entity interface {
	Kind() EntityKind

	// The entity's extent on the image. Nil for the document.
	ByteRun() *ByteRun
}

func newUint64(value uint64) *uint64 {
	return &value
}

// ByteRun is an extent of the outermost image. Offset and Length are
// each filled once. A provisional run only holds values inherited
// from a container and gives way to the first explicit assignment.
type ByteRun struct {
	Offset *uint64
	Length *uint64

	provisional bool
}

func (self *ByteRun) Defined() bool {
	return self.Offset != nil && self.Length != nil
}

func (self *ByteRun) Provisional() bool {
	return self.provisional
}

func (self *ByteRun) Copy() ByteRun {
	result := ByteRun{provisional: self.provisional}
	if self.Offset != nil {
		result.Offset = newUint64(*self.Offset)
	}
	if self.Length != nil {
		result.Length = newUint64(*self.Length)
	}
	return result
}

func (self *ByteRun) SetOffset(offset uint64) error {
	if self.Offset != nil && *self.Offset != offset {
		return errors.Wrapf(ErrGeometry,
			"byte run offset already %d, refusing %d", *self.Offset, offset)
	}
	self.Offset = newUint64(offset)
	return nil
}

func (self *ByteRun) SetLength(length uint64) error {
	if self.Length != nil && *self.Length != length {
		return errors.Wrapf(ErrGeometry,
			"byte run length already %d, refusing %d", *self.Length, length)
	}
	self.Length = newUint64(length)
	return nil
}

// assign fills a volume run. Values passed as provisional never
// override explicit ones; explicit values replace a provisional run
// once and are checked against each other afterwards.
func (self *ByteRun) assign(offset, length *uint64, provisional bool) error {
	if self.provisional {
		if offset != nil {
			self.Offset = newUint64(*offset)
		}
		if length != nil {
			self.Length = newUint64(*length)
		}
		self.provisional = provisional
		return nil
	}

	if provisional && (self.Offset != nil || self.Length != nil) {
		return nil
	}

	if offset != nil {
		err := self.SetOffset(*offset)
		if err != nil {
			return err
		}
	}
	if length != nil {
		err := self.SetLength(*length)
		if err != nil {
			return err
		}
	}
	self.provisional = provisional
	return nil
}

func (self ByteRun) String() string {
	return fmt.Sprintf("ByteRun(offset=%v, len=%v)",
		formatOptional(self.Offset), formatOptional(self.Length))
}

func formatOptional(value *uint64) string {
	if value == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *value)
}

// Document is the root of the tree. It holds one DiskImage per
// input marker and the extension records attached at the top level.
type Document struct {
	Program     string
	Version     string
	CommandLine string

	Sources    []string
	DiskImages []*DiskImage
	Extensions []Extension

	// Every volume in the order it was opened, including wrapped
	// and emulated ones.
	volumes []*Volume
}

func (self *Document) Kind() EntityKind  { return KindDocument }
func (self *Document) ByteRun() *ByteRun { return nil }

func (self *Document) Volumes() []*Volume {
	return self.volumes
}

type DiskImage struct {
	Run        ByteRun
	SectorSize *uint64

	// Set for El Torito images, e.g. "1.44M floppy" or "hard disk".
	Emulation string

	PartitionSystems []*PartitionSystem
	Volumes          []*Volume
}

func (self *DiskImage) Kind() EntityKind  { return KindDiskImage }
func (self *DiskImage) ByteRun() *ByteRun { return &self.Run }

type PartitionSystem struct {
	// One of dos, gpt, mac, bsd or sun.
	Type string

	// The label as printed in the report e.g. "DOS/MBR".
	Label string

	BlockSize *uint64
	GUID      string
	Run       ByteRun

	Partitions []*Partition
}

func (self *PartitionSystem) Kind() EntityKind  { return KindPartitionSystem }
func (self *PartitionSystem) ByteRun() *ByteRun { return &self.Run }

type Partition struct {
	Index string

	BlockCount *uint64
	BlockSize  *uint64
	Run        ByteRun

	// Distance of the partition from the start of its partition
	// system.
	PartitionSystemOffset *uint64

	Type      *uint64
	TypeLabel string
	TypeGUID  string

	// Unique partition GUID (GPT).
	GUID string

	FileSystemType string
	Name           string
	Bootable       bool
	Unused         bool

	PartitionSystems []*PartitionSystem
	Volumes          []*Volume
}

func (self *Partition) Kind() EntityKind  { return KindPartition }
func (self *Partition) ByteRun() *ByteRun { return &self.Run }

type Volume struct {
	FileSystemType string
	Name           string

	BlockCount *uint64
	BlockSize  *uint64
	SectorSize *uint64
	Run        ByteRun

	// Absolute offset of the file system on the image.
	PartitionOffset *uint64

	Extensions []Extension

	// Embedded in another volume (e.g. HFS Plus inside an HFS
	// wrapper). The report never states where, so the offset stays
	// unknown.
	Wrapped bool

	DiskImages       []*DiskImage
	PartitionSystems []*PartitionSystem
}

func (self *Volume) Kind() EntityKind  { return KindVolume }
func (self *Volume) ByteRun() *ByteRun { return &self.Run }

// WrappedVolumes returns the volumes embedded in this one.
func (self *Volume) WrappedVolumes() []*Volume {
	var result []*Volume
	for _, ext := range self.Extensions {
		wrapped, ok := ext.(*WrappedVolume)
		if ok {
			result = append(result, wrapped.Volume)
		}
	}
	return result
}
