package parser

import (
	"bytes"
	"regexp"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// LineKind names the semantic shape of a report line.
type LineKind string

const (
	LineAdditionalPrimaryVolumeDescriptor LineKind = "additional_primary_volume_descriptor"
	LineApplication                       LineKind = "application"
	LineBlankMedium                       LineKind = "blank_medium"
	LineBootLoader                        LineKind = "boot_loader"
	LineBootRecord                        LineKind = "boot_record"
	LineBootableFloppyImage               LineKind = "bootable_floppy_image"
	LineBootableHardDiskImage             LineKind = "bootable_hard_disk_image"
	LineBootableNonEmulatedImage          LineKind = "bootable_nonemulated_image"
	LineBSDDisklabel                      LineKind = "bsd_disklabel"
	LineCPIOArchive                       LineKind = "cpio_archive"
	LineDataSize                          LineKind = "data_size"
	LineDescriptorType                    LineKind = "descriptor_type"
	LineDiskGUID                          LineKind = "disk_guid"
	LineDiskMeta                          LineKind = "disk_meta"
	LineDiskSize                          LineKind = "disk_size"
	LineFileSystemUUID                    LineKind = "file_system_uuid"
	LineFileSystemIncludes                LineKind = "file_system_includes"
	LineFileSystem                        LineKind = "fs_type_str"
	LineGzip                              LineKind = "gzip"
	LineInputFile                         LineKind = "input_file"
	LineHFSWrapper                        LineKind = "hfs_wrapper"
	LineISO9660Extension                  LineKind = "iso9660_extension"
	LineLastMounted                       LineKind = "last_mounted"
	LineNoTypeAndCreatorCode              LineKind = "no_type_and_creator_code"
	LinePartitionBlankCheck               LineKind = "partition_blank_check"
	LinePartitionGUID                     LineKind = "partition_guid"
	LinePartitionIncludes                 LineKind = "partition_includes"
	LinePartitionMap                      LineKind = "partition_map"
	LinePartitionMeta                     LineKind = "partition_meta"
	LinePartitionName                     LineKind = "partition_name"
	LinePartitionPtypeInt                 LineKind = "partition_ptype_int"
	LinePartitionPtypeStr                 LineKind = "partition_ptype_str"
	LinePartitionPtypeStrFtypeStrAndGUID  LineKind = "partition_ptype_str_ftype_str_and_guid"
	LinePartitionPtypeStrAndGUID          LineKind = "partition_ptype_str_and_guid"
	LinePartitionPtypeAndPtypeStr         LineKind = "partition_ptype_and_ptype_str"
	LinePartitionUnused                   LineKind = "partition_unused"
	LinePlatformSystemType                LineKind = "platform_system_type"
	LinePreparer                          LineKind = "preparer"
	LinePublisher                         LineKind = "publisher"
	LineSectorSize                        LineKind = "sector_size"
	LineSignatureMissing                  LineKind = "signature_missing"
	LineSolarisSPARCDisklabel             LineKind = "solaris_sparc_disklabel"
	LineTarArchive                        LineKind = "tar_archive"
	LineUDFRecognitionMissingAnchor       LineKind = "udf_recognition_sequence_missingloc"
	LineUDFVersion                        LineKind = "udf_version"
	LineValidationEntryMissing            LineKind = "validation_entry_missing"
	LineVolumeName                        LineKind = "volume_name"
	LineVolumeSizeBlocks                  LineKind = "volume_size_blocks_or_sectors"
	LineVolumeSizeClusters                LineKind = "volume_size_clusters"
)

var (
	rx_additional_primary_volume_descriptor = regexp.MustCompile(
		`^Additional Primary Volume Descriptor$`)
	rx_application = regexp.MustCompile(
		`^Application +"(?P<application>.+)"$`)
	rx_blank_medium = regexp.MustCompile(
		`^Blank disk/medium$`)
	rx_boot_loader = regexp.MustCompile(
		`^(?P<loader>FreeBSD|ISOLINUX|LILO|SYSLINUX|Windows / MS-DOS|Windows 95/98/ME|Windows NTLDR) boot loader.*$`)
	rx_boot_record = regexp.MustCompile(
		`^(?P<type>.+) boot record, catalog at (?P<catalog>\d+)$`)
	rx_bootable_floppy_image = regexp.MustCompile(
		`^Bootable (?P<floppy_size>.+) floppy image, starts at (?P<start>\d+), preloads (?P<preload>\d+) bytes$`)
	rx_bootable_hard_disk_image = regexp.MustCompile(
		`^Bootable hard disk image, starts at (?P<start>\d+), preloads (?P<preload>\d+) bytes$`)
	rx_bootable_nonemulated_image = regexp.MustCompile(
		`^Bootable non-emulated image, starts at (?P<start>\d+), preloads (?P<preload>\d+) (?P<preload_unit>.+)$`)
	rx_bsd_disklabel = regexp.MustCompile(
		`^BSD disklabel \(at sector (?P<sector>\d+)\), (?P<count>\d+) partitions$`)
	rx_cpio_archive = regexp.MustCompile(
		`^cpio archive(?P<misc>.*)$`)
	rx_data_size = regexp.MustCompile(
		`^Data size.+\((?P<bytes>\d+) bytes, (?P<count>\d+) blocks of (?P<size>\d+) (?P<unit>.+)\)$`)
	rx_data_size_no_comma = regexp.MustCompile(
		`^Data size (?P<bytes>\d+) bytes \((?P<count>\d+) blocks of (?P<size>\d+) (?P<unit>.+)\)$`)
	rx_descriptor_type = regexp.MustCompile(
		`^Descriptor type (?P<type>\d+) at sector (?P<sector>\d+)$`)
	rx_disk_guid = regexp.MustCompile(
		`^Disk GUID (?P<guid>[-0-9A-F]+)$`)
	rx_disk_meta = regexp.MustCompile(
		`^Regular file, size (?P<human>\d.+B) \((?P<bytes>\d+) bytes\)$`)
	rx_disk_size = regexp.MustCompile(
		`^Disk size.+ \((?P<bytes>\d+) bytes, (?P<count>\d+) (?P<count_unit>blocks|sectors).*\)$`)
	rx_file_system_uuid = regexp.MustCompile(
		`^UUID (?P<uuid>[-0-9A-F]+|nil)(?P<misc>.*)$`)
	rx_file_system_includes = regexp.MustCompile(
		`^Includes the disklabel and boot code$`)
	rx_fs_type_str = regexp.MustCompile(
		`^(?P<ftype_str>.+) file system(?P<misc>.*)$`)
	rx_fs_type_str_misc_offset = regexp.MustCompile(
		`(?P<size>\d+) (?P<unit>.iB) offset`)
	rx_gzip = regexp.MustCompile(
		`^gzip-compressed data at sector (?P<sector>\d+)$`)
	rx_input_file = regexp.MustCompile(
		`^--- (?P<filepath>.+)$`)
	rx_hfs_wrapper = regexp.MustCompile(
		`^HFS wrapper for (?P<wrapped>.+)$`)
	rx_iso9660_extension = regexp.MustCompile(
		`^(?P<extension>.+) extension, volume name "(?P<volume_name>.*)"$`)
	rx_last_mounted = regexp.MustCompile(
		`^Last mounted at "(?P<path>.+)"$`)
	rx_no_type_and_creator_code = regexp.MustCompile(
		`^No type and creator code$`)
	rx_partition_blank_check = regexp.MustCompile(
		`^First (?P<what>.+) are blank`)
	rx_partition_guid = regexp.MustCompile(
		`^Partition GUID (?P<guid>[-0-9A-F]+)$`)
	rx_partition_includes = regexp.MustCompile(
		`^Includes the disklabel$`)
	rx_partition_map = regexp.MustCompile(
		`^(?P<pstype_str>.+) partition map.*$`)
	rx_partition_meta_no_size_summary = regexp.MustCompile(
		`^Partition (?P<index>[^:]+): (?P<size>\d+) (?P<unit>\S+) \((?P<count>\d+) (?P<count_unit>sectors|clusters) from (?P<from>\d+)(?P<bootable>, bootable)?\)$`)
	rx_partition_meta_size_summary = regexp.MustCompile(
		`^Partition (?P<index>[^:]+):.+\((?P<size>\d+) (?P<unit>\S+), (?P<count>\d+) (?P<count_unit>sectors|clusters) from (?P<from>\d+)(?P<bootable>, bootable)?\)$`)
	rx_partition_name = regexp.MustCompile(
		`^Partition Name "(?P<name>.+)"$`)
	rx_partition_ptype_int = regexp.MustCompile(
		`^Type (?P<ptype>\d+)$`)
	rx_partition_ptype_str = regexp.MustCompile(
		`^Type "(?P<ptype_str>.+)"$`)
	rx_partition_ptype_str_ftype_str_and_guid = regexp.MustCompile(
		`^Type (?P<ptype_str>.+) \((?P<ftype_str>.+)\) \(GUID (?P<guid>[-0-9A-F]+)\)$`)
	rx_partition_ptype_str_and_guid = regexp.MustCompile(
		`^Type (?P<ptype_str>.+) \(GUID (?P<guid>[-0-9A-F]+)\)$`)
	rx_partition_ptype_and_ptype_str = regexp.MustCompile(
		`^Type (?P<ptype>0x[0-9A-Fa-f]{2}|\d+) \((?P<ptype_str>.+)\)$`)
	rx_partition_unused = regexp.MustCompile(
		`^Partition (?P<index>.+): unused$`)
	rx_platform_system_type = regexp.MustCompile(
		`^Platform (?P<platform>.+) \((?P<platform_str>.+)\), System Type (?P<system>.+) \((?P<system_str>.+)\)$`)
	rx_preparer = regexp.MustCompile(
		`^Preparer +"(?P<preparer>.+)"$`)
	rx_publisher = regexp.MustCompile(
		`^Publisher +"(?P<publisher>.+)"$`)
	rx_sector_size = regexp.MustCompile(
		`^Sector size (?P<size>\d+) bytes$`)
	rx_signature_missing = regexp.MustCompile(
		`^Signature missing$`)
	rx_solaris_sparc_disklabel = regexp.MustCompile(
		`^Solaris SPARC disklabel$`)
	rx_tar_archive = regexp.MustCompile(
		`^(?P<flavor>GNU|Pre-POSIX) tar archive$`)
	rx_udf_recognition_sequence_missingloc = regexp.MustCompile(
		`^UDF recognition sequence, unable to locate anchor descriptor$`)
	rx_udf_version = regexp.MustCompile(
		`^UDF version (?P<version>.+)$`)
	rx_validation_entry_missing = regexp.MustCompile(
		`^Validation entry missing$`)
	rx_volume_name = regexp.MustCompile(
		`^Volume name "(?P<name>.*)"(?P<misc>.*)$`)
	rx_volume_size_blocks_or_sectors = regexp.MustCompile(
		`^Volume size.+ \((?P<bytes>\d+) bytes, (?P<count>\d+) (?P<count_unit>blocks|sectors)(?: of (?P<size>\d+) (?P<unit>bytes|KiB|MiB|GiB))?.*\)$`)
	rx_volume_size_clusters = regexp.MustCompile(
		`^Volume size.+ \((?P<bytes>\d+) bytes, (?P<count>\d+) clusters of (?P<size>\d+) (?P<unit>.+)\)$`)
	rx_volume_size_clusters_no_summary = regexp.MustCompile(
		`^Volume size.+ \((?P<count>\d+) clusters of (?P<size>\d+) (?P<unit>.+)\)$`)
)

// LineRule maps one or more line shapes to a LineKind.
type LineRule struct {
	Kind     LineKind
	Patterns []*regexp.Regexp

	// Optional second look at a match that may belong to another
	// rule.
	resolve func(line []byte, event *Event) (*Event, error)
}

// Rules are tried in this order and the first match wins.
var line_rules = []*LineRule{
	{Kind: LineAdditionalPrimaryVolumeDescriptor,
		Patterns: []*regexp.Regexp{rx_additional_primary_volume_descriptor}},
	{Kind: LineApplication, Patterns: []*regexp.Regexp{rx_application}},
	{Kind: LineBlankMedium, Patterns: []*regexp.Regexp{rx_blank_medium}},
	{Kind: LineBootLoader, Patterns: []*regexp.Regexp{rx_boot_loader}},
	{Kind: LineBootRecord, Patterns: []*regexp.Regexp{rx_boot_record}},
	{Kind: LineBootableFloppyImage,
		Patterns: []*regexp.Regexp{rx_bootable_floppy_image}},
	{Kind: LineBootableHardDiskImage,
		Patterns: []*regexp.Regexp{rx_bootable_hard_disk_image}},
	{Kind: LineBootableNonEmulatedImage,
		Patterns: []*regexp.Regexp{rx_bootable_nonemulated_image}},
	{Kind: LineBSDDisklabel, Patterns: []*regexp.Regexp{rx_bsd_disklabel}},
	{Kind: LineCPIOArchive, Patterns: []*regexp.Regexp{rx_cpio_archive}},
	{Kind: LineDataSize, Patterns: []*regexp.Regexp{
		rx_data_size, rx_data_size_no_comma}},
	{Kind: LineDescriptorType, Patterns: []*regexp.Regexp{rx_descriptor_type}},
	{Kind: LineDiskGUID, Patterns: []*regexp.Regexp{rx_disk_guid}},
	{Kind: LineDiskMeta, Patterns: []*regexp.Regexp{rx_disk_meta}},
	{Kind: LineDiskSize, Patterns: []*regexp.Regexp{rx_disk_size}},
	{Kind: LineFileSystemUUID, Patterns: []*regexp.Regexp{rx_file_system_uuid}},
	{Kind: LineFileSystemIncludes,
		Patterns: []*regexp.Regexp{rx_file_system_includes}},
	{Kind: LineFileSystem, Patterns: []*regexp.Regexp{rx_fs_type_str},
		resolve: resolveFileSystem},
	{Kind: LineGzip, Patterns: []*regexp.Regexp{rx_gzip}},
	{Kind: LineInputFile, Patterns: []*regexp.Regexp{rx_input_file}},
	{Kind: LineHFSWrapper, Patterns: []*regexp.Regexp{rx_hfs_wrapper}},
	{Kind: LineISO9660Extension, Patterns: []*regexp.Regexp{rx_iso9660_extension}},
	{Kind: LineLastMounted, Patterns: []*regexp.Regexp{rx_last_mounted}},
	{Kind: LineNoTypeAndCreatorCode,
		Patterns: []*regexp.Regexp{rx_no_type_and_creator_code}},
	{Kind: LinePartitionBlankCheck,
		Patterns: []*regexp.Regexp{rx_partition_blank_check}},
	{Kind: LinePartitionGUID, Patterns: []*regexp.Regexp{rx_partition_guid}},
	{Kind: LinePartitionIncludes,
		Patterns: []*regexp.Regexp{rx_partition_includes}},
	{Kind: LinePartitionMap, Patterns: []*regexp.Regexp{rx_partition_map}},
	{Kind: LinePartitionMeta, Patterns: []*regexp.Regexp{
		rx_partition_meta_no_size_summary, rx_partition_meta_size_summary}},
	{Kind: LinePartitionName, Patterns: []*regexp.Regexp{rx_partition_name}},
	{Kind: LinePartitionPtypeInt,
		Patterns: []*regexp.Regexp{rx_partition_ptype_int}},
	{Kind: LinePartitionPtypeStr,
		Patterns: []*regexp.Regexp{rx_partition_ptype_str}},
	{Kind: LinePartitionPtypeStrFtypeStrAndGUID,
		Patterns: []*regexp.Regexp{rx_partition_ptype_str_ftype_str_and_guid}},
	{Kind: LinePartitionPtypeStrAndGUID,
		Patterns: []*regexp.Regexp{rx_partition_ptype_str_and_guid}},
	{Kind: LinePartitionPtypeAndPtypeStr,
		Patterns: []*regexp.Regexp{rx_partition_ptype_and_ptype_str}},
	{Kind: LinePartitionUnused, Patterns: []*regexp.Regexp{rx_partition_unused}},
	{Kind: LinePlatformSystemType,
		Patterns: []*regexp.Regexp{rx_platform_system_type}},
	{Kind: LinePreparer, Patterns: []*regexp.Regexp{rx_preparer}},
	{Kind: LinePublisher, Patterns: []*regexp.Regexp{rx_publisher}},
	{Kind: LineSectorSize, Patterns: []*regexp.Regexp{rx_sector_size}},
	{Kind: LineSignatureMissing,
		Patterns: []*regexp.Regexp{rx_signature_missing}},
	{Kind: LineSolarisSPARCDisklabel,
		Patterns: []*regexp.Regexp{rx_solaris_sparc_disklabel}},
	{Kind: LineTarArchive, Patterns: []*regexp.Regexp{rx_tar_archive}},
	{Kind: LineUDFRecognitionMissingAnchor,
		Patterns: []*regexp.Regexp{rx_udf_recognition_sequence_missingloc}},
	{Kind: LineUDFVersion, Patterns: []*regexp.Regexp{rx_udf_version}},
	{Kind: LineValidationEntryMissing,
		Patterns: []*regexp.Regexp{rx_validation_entry_missing}},
	{Kind: LineVolumeName, Patterns: []*regexp.Regexp{rx_volume_name}},
	{Kind: LineVolumeSizeBlocks,
		Patterns: []*regexp.Regexp{rx_volume_size_blocks_or_sectors}},
	{Kind: LineVolumeSizeClusters, Patterns: []*regexp.Regexp{
		rx_volume_size_clusters, rx_volume_size_clusters_no_summary}},
}

// Event is a classified line with its named captures.
type Event struct {
	Kind     LineKind
	Line     []byte
	Captures map[string][]byte
}

// Has reports whether the named group took part in the match.
func (self *Event) Has(name string) bool {
	_, pres := self.Captures[name]
	return pres
}

func (self *Event) Bytes(name string) []byte {
	return self.Captures[name]
}

// Text decodes a capture. Reports are mostly ASCII but volume labels
// may carry raw single byte encodings.
func (self *Event) Text(name string) string {
	return decodeText(self.Captures[name])
}

func (self *Event) Uint(name string) (uint64, error) {
	return parseUint(self.Text(name))
}

func decodeText(value []byte) string {
	if utf8.Valid(value) {
		return string(value)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(value)
	if err != nil {
		return string(bytes.ToValidUTF8(value, []byte("�")))
	}
	return string(decoded)
}

func matchEvent(kind LineKind, rx *regexp.Regexp, line []byte) *Event {
	match := rx.FindSubmatchIndex(line)
	if match == nil {
		return nil
	}

	event := &Event{
		Kind:     kind,
		Line:     line,
		Captures: make(map[string][]byte),
	}
	for idx, name := range rx.SubexpNames() {
		if name == "" || match[2*idx] < 0 {
			continue
		}
		event.Captures[name] = line[match[2*idx]:match[2*idx+1]]
	}
	return event
}

// Classify maps a stripped report line to an event.
func Classify(line []byte) (*Event, error) {
	for _, rule := range line_rules {
		for _, rx := range rule.Patterns {
			event := matchEvent(rule.Kind, rx, line)
			if event == nil {
				continue
			}

			if rule.resolve != nil {
				return rule.resolve(line, event)
			}
			return event, nil
		}
	}

	return nil, errors.Wrapf(ErrUnrecognizedLine, "no pattern for %q", line)
}

// Lines that mention a file system are not always file system
// headers: partition types, ISO9660 descriptor strings and volume
// labels may carry the words too.
func resolveFileSystem(line []byte, event *Event) (*Event, error) {
	other := matchEvent(LinePartitionPtypeAndPtypeStr,
		rx_partition_ptype_and_ptype_str, line)
	if other != nil {
		return other, nil
	}

	if bytes.HasPrefix(line, []byte("Type")) {
		return nil, errors.Wrapf(ErrUnimplemented,
			"partition type mentioning a file system: %q", line)
	}

	for _, candidate := range []struct {
		kind LineKind
		rx   *regexp.Regexp
	}{
		{LineApplication, rx_application},
		{LinePublisher, rx_publisher},
		{LineVolumeName, rx_volume_name},
	} {
		other := matchEvent(candidate.kind, candidate.rx, line)
		if other != nil {
			return other, nil
		}
	}

	return event, nil
}
