package parser

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type eventHandler func(self *Parser, event *Event) error

// Lines which only move the grammar forward.
func factHandler(state ParseState) eventHandler {
	return func(self *Parser, event *Event) error {
		return self.transition(state)
	}
}

var event_handlers = map[LineKind]eventHandler{
	LineAdditionalPrimaryVolumeDescriptor: factHandler(ADDITIONAL_PRIMARY_VOLUME_DESCRIPTOR),
	LineApplication:                       factHandler(APPLICATION),
	LineBlankMedium:                       factHandler(BLANK_MEDIUM),
	LineBootLoader:                        factHandler(BOOT_LOADER),
	LineBootRecord:                        (*Parser).handleBootRecord,
	LineBootableFloppyImage:               (*Parser).handleBootableImage,
	LineBootableHardDiskImage:             (*Parser).handleBootableImage,
	LineBootableNonEmulatedImage:          (*Parser).handleBootableImage,
	LineBSDDisklabel:                      (*Parser).handleDisklabel,
	LineCPIOArchive:                       factHandler(CPIO_ARCHIVE),
	LineDataSize:                          (*Parser).handleDataSize,
	LineDescriptorType:                    factHandler(DESCRIPTOR_TYPE),
	LineDiskGUID:                          (*Parser).handleDiskGUID,
	LineDiskMeta:                          (*Parser).handleDiskMeta,
	LineDiskSize:                          (*Parser).handleDiskSize,
	LineFileSystemUUID:                    (*Parser).handleFileSystemUUID,
	LineFileSystemIncludes:                factHandler(FILE_SYSTEM_INCLUDES),
	LineFileSystem:                        (*Parser).handleFileSystem,
	LineGzip:                              (*Parser).handleGzip,
	LineInputFile:                         (*Parser).handleInputFile,
	LineHFSWrapper:                        (*Parser).handleHFSWrapper,
	LineISO9660Extension:                  (*Parser).handleISO9660Extension,
	LineLastMounted:                       factHandler(LAST_MOUNTED),
	LineNoTypeAndCreatorCode:              factHandler(NO_TYPE_AND_CREATOR_CODE),
	LinePartitionBlankCheck:               factHandler(PARTITION_BLANK_CHECK),
	LinePartitionGUID:                     (*Parser).handlePartitionGUID,
	LinePartitionIncludes:                 factHandler(PARTITION_INCLUDES),
	LinePartitionMap:                      (*Parser).handlePartitionMap,
	LinePartitionMeta:                     (*Parser).handlePartitionMeta,
	LinePartitionName:                     (*Parser).handlePartitionName,
	LinePartitionPtypeInt:                 (*Parser).handlePartitionType,
	LinePartitionPtypeStr:                 (*Parser).handlePartitionType,
	LinePartitionPtypeStrFtypeStrAndGUID:  (*Parser).handlePartitionType,
	LinePartitionPtypeStrAndGUID:          (*Parser).handlePartitionType,
	LinePartitionPtypeAndPtypeStr:         (*Parser).handlePartitionType,
	LinePartitionUnused:                   (*Parser).handlePartitionUnused,
	LinePlatformSystemType:                factHandler(PLATFORM_SYSTEM_TYPE),
	LinePreparer:                          factHandler(PREPARER),
	LinePublisher:                         factHandler(PUBLISHER),
	LineSectorSize:                        (*Parser).handleSectorSize,
	LineSignatureMissing:                  factHandler(SIGNATURE_MISSING),
	LineSolarisSPARCDisklabel:             (*Parser).handleDisklabel,
	LineTarArchive:                        factHandler(TAR_ARCHIVE),
	LineUDFRecognitionMissingAnchor:       (*Parser).handleUDFRecognition,
	LineUDFVersion:                        factHandler(UDF_VERSION),
	LineValidationEntryMissing:            factHandler(VALIDATION_ENTRY_MISSING),
	LineVolumeName:                        (*Parser).handleVolumeName,
	LineVolumeSizeBlocks:                  (*Parser).handleVolumeSizeBlocks,
	LineVolumeSizeClusters:                (*Parser).handleVolumeSizeClusters,
}

// Partition map labels and the tag recorded for them.
var partition_system_types = map[string]string{
	"Apple":   "mac",
	"DOS/MBR": "dos",
	"GPT":     "gpt",
}

func parseGUID(value string) (string, error) {
	_, err := uuid.Parse(value)
	if err != nil {
		return "", errors.Wrapf(ErrUnimplemented, "malformed GUID %q", value)
	}
	return value, nil
}

func (self *Parser) handleInputFile(event *Event) error {
	err := self.transition(DISK_START)
	if err != nil {
		return err
	}

	err = self.transition(INPUT_FILE)
	if err != nil {
		return err
	}

	self.document.Sources = append(self.document.Sources,
		event.Text("filepath"))
	return nil
}

func (self *Parser) handleDiskMeta(event *Event) error {
	err := self.transition(DISK_META)
	if err != nil {
		return err
	}

	// Only the input image itself is a regular file.
	if len(self.entities) != 2 {
		return errors.Wrapf(ErrStructuralMismatch,
			"regular file line at depth %d", len(self.entities))
	}

	disk, err := self.topDiskImage()
	if err != nil {
		return err
	}

	length, err := event.Uint("bytes")
	if err != nil {
		return err
	}

	err = disk.Run.SetOffset(0)
	if err != nil {
		return err
	}

	err = disk.Run.SetLength(length)
	if err != nil {
		return err
	}

	self.document.Extensions = append(self.document.Extensions,
		&DiskImageByteRun{Run: disk.Run.Copy()})
	return nil
}

func (self *Parser) handlePartitionMap(event *Event) error {
	// A new map closes the previous one.
	if self.topLevel().State == PARTITION_SYSTEM_START {
		err := self.popLevel()
		if err != nil {
			return err
		}
	}

	label := event.Text("pstype_str")
	pstype, pres := partition_system_types[label]
	if !pres {
		return errors.Wrapf(ErrUnimplemented,
			"unknown partition map type %q", label)
	}

	return self.openPartitionSystem(PARTITION_MAP, label, pstype)
}

func (self *Parser) handleDisklabel(event *Event) error {
	if event.Kind == LineBSDDisklabel {
		return self.openPartitionSystem(BSD_DISKLABEL, "BSD", "bsd")
	}
	return self.openPartitionSystem(
		SOLARIS_SPARC_DISKLABEL, "Solaris SPARC", "sun")
}

func (self *Parser) openPartitionSystem(
	state ParseState, label, pstype string) error {
	err := self.transition(PARTITION_SYSTEM_START)
	if err != nil {
		return err
	}

	err = self.transition(state)
	if err != nil {
		return err
	}

	ps, err := self.topPartitionSystem()
	if err != nil {
		return err
	}
	ps.Label = label
	ps.Type = pstype

	self.document.Extensions = append(self.document.Extensions,
		&PartitionSystemType{Type: pstype})
	return nil
}

func (self *Parser) handleDiskSize(event *Event) error {
	err := self.transition(DISK_SIZE)
	if err != nil {
		return err
	}

	ps, err := self.topPartitionSystem()
	if err != nil {
		return err
	}

	length, err := event.Uint("bytes")
	if err != nil {
		return err
	}

	count, err := event.Uint("count")
	if err != nil {
		return err
	}

	err = ps.Run.SetLength(length)
	if err != nil {
		return err
	}

	if ps.BlockSize == nil && count > 0 {
		if length%count != 0 {
			return errors.Wrapf(ErrGeometry,
				"disk of %d bytes is not %d whole blocks", length, count)
		}
		ps.BlockSize = newUint64(length / count)
	}
	return nil
}

func (self *Parser) handleDiskGUID(event *Event) error {
	err := self.transition(DISK_GUID)
	if err != nil {
		return err
	}

	ps, err := self.topPartitionSystem()
	if err != nil {
		return err
	}

	ps.GUID, err = parseGUID(event.Text("guid"))
	return err
}

// Consecutive partition lines at one indentation close the previous
// partition.
func (self *Parser) closeSiblingPartition() error {
	top := self.topLevel()
	if top.State == PARTITION_START && top.Indent == self.current_indent {
		return self.popLevel()
	}
	return nil
}

func (self *Parser) handlePartitionMeta(event *Event) error {
	err := self.closeSiblingPartition()
	if err != nil {
		return err
	}

	err = self.transition(PARTITION_START)
	if err != nil {
		return err
	}

	err = self.transition(PARTITION_META)
	if err != nil {
		return err
	}

	partition, err := self.topPartition()
	if err != nil {
		return err
	}

	ps, ok := self.parent().(*PartitionSystem)
	if !ok {
		return errors.Wrapf(ErrStructuralMismatch,
			"partition outside a partition system")
	}

	partition.Index = event.Text("index")
	partition.Bootable = event.Has("bootable")

	length, err := ParseSize(event.Text("size"), event.Text("unit"))
	if err != nil {
		return err
	}

	count, err := event.Uint("count")
	if err != nil {
		return err
	}

	from, err := event.Uint("from")
	if err != nil {
		return err
	}

	return self.setPartitionGeometry(partition, ps, length, count, from)
}

func (self *Parser) handlePartitionUnused(event *Event) error {
	err := self.closeSiblingPartition()
	if err != nil {
		return err
	}

	err = self.transition(PARTITION_START)
	if err != nil {
		return err
	}

	err = self.transition(PARTITION_UNUSED)
	if err != nil {
		return err
	}

	partition, err := self.topPartition()
	if err != nil {
		return err
	}

	partition.Index = event.Text("index")
	partition.Unused = true
	return nil
}

func (self *Parser) handlePartitionType(event *Event) error {
	var state ParseState
	switch event.Kind {
	case LinePartitionPtypeInt:
		state = PARTITION_PTYPE_INT
	case LinePartitionPtypeStr:
		state = PARTITION_PTYPE_STR
	case LinePartitionPtypeStrFtypeStrAndGUID:
		state = PARTITION_PTYPE_STR_FTYPE_STR_AND_GUID
	case LinePartitionPtypeStrAndGUID:
		state = PARTITION_PTYPE_STR_AND_GUID
	default:
		state = PARTITION_PTYPE_AND_PTYPE_STR
	}

	err := self.transition(state)
	if err != nil {
		return err
	}

	partition, err := self.topPartition()
	if err != nil {
		return err
	}

	if event.Has("ptype") {
		code, err := parsePartitionType(event.Text("ptype"))
		if err != nil {
			return err
		}
		partition.Type = newUint64(code)
	}

	if event.Has("ptype_str") {
		partition.TypeLabel = event.Text("ptype_str")
	}

	if event.Has("ftype_str") {
		partition.FileSystemType = event.Text("ftype_str")
	}

	if event.Has("guid") {
		partition.TypeGUID, err = parseGUID(event.Text("guid"))
		if err != nil {
			return err
		}
	}
	return nil
}

func (self *Parser) handlePartitionName(event *Event) error {
	err := self.transition(PARTITION_NAME)
	if err != nil {
		return err
	}

	partition, err := self.topPartition()
	if err != nil {
		return err
	}
	partition.Name = event.Text("name")
	return nil
}

func (self *Parser) handlePartitionGUID(event *Event) error {
	err := self.transition(PARTITION_GUID)
	if err != nil {
		return err
	}

	partition, err := self.topPartition()
	if err != nil {
		return err
	}

	partition.GUID, err = parseGUID(event.Text("guid"))
	return err
}

func (self *Parser) handleFileSystem(event *Event) error {
	// A file system at the margin belongs to the disk image itself.
	if self.current_indent == 0 {
		err := self.popUntil(DISK_START)
		if err != nil {
			return err
		}
	}

	err := self.transition(FILE_SYSTEM_START)
	if err != nil {
		return err
	}

	err = self.transition(FS_TYPE_STR)
	if err != nil {
		return err
	}

	volume, err := self.topVolume()
	if err != nil {
		return err
	}
	volume.FileSystemType = event.Text("ftype_str")

	var distance *uint64
	offset := matchEvent(LineFileSystem, rx_fs_type_str_misc_offset,
		event.Bytes("misc"))

	// The UFS offset locates the superblock, not the file system.
	if offset != nil && volume.FileSystemType != "UFS" {
		value, err := ParseSize(offset.Text("size"), offset.Text("unit"))
		if err != nil {
			return err
		}
		distance = &value
	}
	self.placeVolume(volume, distance)

	length, ok := self.defaultVolumeLength(volume)
	if !ok {
		return nil
	}
	return self.deriveVolumeRun(volume, length, true)
}

func (self *Parser) handleHFSWrapper(event *Event) error {
	err := self.transition(HFS_WRAPPER)
	if err != nil {
		return err
	}

	if self.last_volume == nil {
		return errors.Wrapf(ErrStructuralMismatch,
			"wrapper line without a preceding file system")
	}
	self.wrapper = self.last_volume
	return nil
}

func (self *Parser) handleFileSystemUUID(event *Event) error {
	err := self.transition(FILE_SYSTEM_UUID)
	if err != nil {
		return err
	}

	volume, ok := self.top().(*Volume)
	if !ok {
		return errors.Wrapf(ErrUnimplemented, "UUID outside a file system")
	}

	value := event.Text("uuid")
	if value == "nil" {
		value = ""
	}
	volume.Extensions = append(volume.Extensions, &UUID{Value: value})
	return nil
}

func (self *Parser) handleVolumeName(event *Event) error {
	err := self.transition(VOLUME_NAME)
	if err != nil {
		return err
	}

	volume, err := self.topVolume()
	if err != nil {
		return err
	}
	volume.Name = event.Text("name")
	return nil
}

func (self *Parser) handleSectorSize(event *Event) error {
	if self.topLevel().State != FILE_SYSTEM_START {
		return errors.Wrapf(ErrUnimplemented,
			"sector size outside a file system")
	}

	err := self.transition(SECTOR_SIZE)
	if err != nil {
		return err
	}

	volume, err := self.topVolume()
	if err != nil {
		return err
	}

	size, err := event.Uint("size")
	if err != nil {
		return err
	}
	volume.SectorSize = newUint64(size)
	return nil
}

func (self *Parser) handleDataSize(event *Event) error {
	err := self.transition(DATA_SIZE)
	if err != nil {
		return err
	}

	volume, err := self.topVolume()
	if err != nil {
		return err
	}

	length, err := event.Uint("bytes")
	if err != nil {
		return err
	}

	count, err := event.Uint("count")
	if err != nil {
		return err
	}

	block_size, err := ParseSize(event.Text("size"), event.Text("unit"))
	if err != nil {
		return err
	}

	expected, err := multiplySize(count, block_size)
	if err != nil {
		return err
	}

	if expected != length {
		return errors.Wrapf(ErrGeometry,
			"data size %d is not %d blocks of %d", length, count, block_size)
	}

	volume.BlockCount = newUint64(count)
	volume.BlockSize = newUint64(block_size)
	return self.deriveVolumeRun(volume, length, false)
}

func (self *Parser) handleVolumeSizeBlocks(event *Event) error {
	err := self.transition(VOLUME_SIZE)
	if err != nil {
		return err
	}

	volume, err := self.topVolume()
	if err != nil {
		return err
	}

	length, err := event.Uint("bytes")
	if err != nil {
		return err
	}

	count, err := event.Uint("count")
	if err != nil {
		return err
	}

	volume.BlockCount = newUint64(count)
	if count > 0 {
		if length%count != 0 {
			return errors.Wrapf(ErrGeometry,
				"volume of %d bytes is not %d whole blocks", length, count)
		}
		block_size := length / count

		if event.Has("size") {
			reported, err := ParseSize(event.Text("size"), event.Text("unit"))
			if err != nil {
				return err
			}
			if reported != block_size {
				return errors.Wrapf(ErrGeometry,
					"volume blocks of %d bytes reported as %d",
					block_size, reported)
			}
		}
		volume.BlockSize = newUint64(block_size)
	}

	return self.deriveVolumeRun(volume, length, false)
}

func (self *Parser) handleVolumeSizeClusters(event *Event) error {
	err := self.transition(VOLUME_SIZE)
	if err != nil {
		return err
	}

	volume, err := self.topVolume()
	if err != nil {
		return err
	}

	count, err := event.Uint("count")
	if err != nil {
		return err
	}

	cluster_size, err := ParseSize(event.Text("size"), event.Text("unit"))
	if err != nil {
		return err
	}

	length, err := multiplySize(count, cluster_size)
	if err != nil {
		return err
	}

	if event.Has("bytes") {
		reported, err := event.Uint("bytes")
		if err != nil {
			return err
		}
		if reported != length {
			return errors.Wrapf(ErrGeometry,
				"volume size %d is not %d clusters of %d",
				reported, count, cluster_size)
		}
	}

	volume.BlockCount = newUint64(count)
	volume.BlockSize = newUint64(cluster_size)
	return self.deriveVolumeRun(volume, length, false)
}

func (self *Parser) handleISO9660Extension(event *Event) error {
	err := self.transition(ISO9660_EXTENSION)
	if err != nil {
		return err
	}

	volume := self.nearestVolume()
	if volume == nil {
		volume = self.last_volume
	}
	if volume == nil {
		return errors.Wrapf(ErrStructuralMismatch,
			"ISO9660 extension without a file system")
	}

	volume.Extensions = append(volume.Extensions, &ISO9660Extension{
		Extension:  event.Text("extension"),
		VolumeName: event.Text("volume_name"),
	})
	return nil
}

func (self *Parser) handleBootRecord(event *Event) error {
	if event.Text("type") == "El Torito" {
		err := self.transition(EL_TORITO_START)
		if err != nil {
			return err
		}
	}
	return self.transition(BOOT_RECORD)
}

// El Torito boot images are disk images inside the ISO9660 volume.
func (self *Parser) handleBootableImage(event *Event) error {
	err := self.transition(DISK_START)
	if err != nil {
		return err
	}

	var state ParseState
	switch event.Kind {
	case LineBootableFloppyImage:
		state = BOOTABLE_FLOPPY_IMAGE
	case LineBootableHardDiskImage:
		state = BOOTABLE_HARD_DISK_IMAGE
	default:
		state = BOOTABLE_NONEMULATED_IMAGE
	}

	err = self.transition(state)
	if err != nil {
		return err
	}

	disk, err := self.topDiskImage()
	if err != nil {
		return err
	}

	volume, ok := self.parent().(*Volume)
	if !ok {
		return errors.Wrapf(ErrStructuralMismatch,
			"boot image outside a file system")
	}

	if volume.BlockSize == nil {
		return errors.Wrapf(ErrGeometry,
			"boot image in a file system of unknown block size")
	}

	start, err := event.Uint("start")
	if err != nil {
		return err
	}

	base := uint64(0)
	if volume.Run.Offset != nil {
		base = *volume.Run.Offset
	}

	err = disk.Run.SetOffset(base + start**volume.BlockSize)
	if err != nil {
		return err
	}

	switch state {
	case BOOTABLE_FLOPPY_IMAGE:
		floppy_size := event.Text("floppy_size")
		length, pres := self.options.FloppySizes[floppy_size]
		if !pres {
			return errors.Wrapf(ErrUnimplemented,
				"unknown floppy size %q", floppy_size)
		}

		disk.Emulation = floppy_size + " floppy"
		disk.SectorSize = newUint64(512)
		return disk.Run.SetLength(length)

	case BOOTABLE_HARD_DISK_IMAGE:
		disk.Emulation = "hard disk"

	default:
		disk.Emulation = "non-emulated"
	}
	return nil
}

func (self *Parser) handleGzip(event *Event) error {
	err := self.transition(COMPRESSION_START)
	if err != nil {
		return err
	}
	return self.transition(GZIP)
}

func (self *Parser) handleUDFRecognition(event *Event) error {
	if self.current_indent == 0 {
		err := self.popUntil(DISK_START)
		if err != nil {
			return err
		}
	}
	return self.transition(UDF_RECOGNITION_SEQUENCE_MISSINGLOC)
}
