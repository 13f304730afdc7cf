package parser

// Extension is a typed record attached to the document or a volume.
// The set of implementations is closed.
type Extension interface {
	// Element name used by serializers, without namespace.
	Name() string

	isExtension()
}

// Partition system type tag (dos, gpt, mac, bsd, sun).
type PartitionSystemType struct {
	Type string
}

func (self *PartitionSystemType) Name() string { return "pstype_str" }
func (self *PartitionSystemType) isExtension() {}

type GUID struct {
	Value string
}

func (self *GUID) Name() string { return "guid" }
func (self *GUID) isExtension() {}

// Numeric partition type code.
type PartitionType struct {
	Code uint64
}

func (self *PartitionType) Name() string { return "ptype" }
func (self *PartitionType) isExtension() {}

type PartitionTypeLabel struct {
	Label string
}

func (self *PartitionTypeLabel) Name() string { return "ptype_str" }
func (self *PartitionTypeLabel) isExtension() {}

// The extent of the partition a volume was found in.
type PartitionByteRun struct {
	Run ByteRun
}

func (self *PartitionByteRun) Name() string { return "partition_byte_run" }
func (self *PartitionByteRun) isExtension() {}

// The extent of an input image as reported by its "Regular file" line.
type DiskImageByteRun struct {
	Run ByteRun
}

func (self *DiskImageByteRun) Name() string { return "disk_image_byte_runs" }
func (self *DiskImageByteRun) isExtension() {}

// File system UUID. Empty when reported as nil.
type UUID struct {
	Value string
}

func (self *UUID) Name() string { return "uuid" }
func (self *UUID) isExtension() {}

// ISO9660 extension such as Joliet or Rock Ridge.
type ISO9660Extension struct {
	Extension  string
	VolumeName string
}

func (self *ISO9660Extension) Name() string { return "iso9660extension" }
func (self *ISO9660Extension) isExtension() {}

type WrappedVolume struct {
	Volume *Volume
}

func (self *WrappedVolume) Name() string { return "wrapped_volume" }
func (self *WrappedVolume) isExtension() {}
