package parser

import "fmt"

// ParseState is a position in the report grammar. States are grouped
// into categories by their hundreds digit; each category has a START
// and END sentinel and only the START sentinels open a level.
type ParseState int

const (
	INPUT_START ParseState = 0
	INPUT_END   ParseState = 999

	BLANK_MEDIUM            ParseState = 1
	SECTOR_SIZE             ParseState = 2
	SOLARIS_SPARC_DISKLABEL ParseState = 3
	TAR_ARCHIVE             ParseState = 4

	DISK_START               ParseState = 100
	CPIO_ARCHIVE             ParseState = 101
	DISK_META                ParseState = 102
	INPUT_FILE               ParseState = 103
	NO_TYPE_AND_CREATOR_CODE ParseState = 104
	VALIDATION_ENTRY_MISSING ParseState = 105
	DISK_END                 ParseState = 199

	PARTITION_SYSTEM_START ParseState = 200
	DISK_GUID              ParseState = 201
	DISK_SIZE              ParseState = 202
	PARTITION_MAP          ParseState = 203
	PARTITION_SYSTEM_END   ParseState = 299

	PARTITION_START                        ParseState = 300
	BOOTABLE_FLOPPY_IMAGE                  ParseState = 301
	BOOTABLE_HARD_DISK_IMAGE               ParseState = 302
	BOOTABLE_NONEMULATED_IMAGE             ParseState = 303
	FILE_SYSTEM_INCLUDES                   ParseState = 304
	PARTITION_BLANK_CHECK                  ParseState = 305
	PARTITION_GUID                         ParseState = 306
	PARTITION_INCLUDES                     ParseState = 307
	PARTITION_META                         ParseState = 308
	PARTITION_NAME                         ParseState = 309
	PARTITION_PTYPE_INT                    ParseState = 310
	PARTITION_PTYPE_STR                    ParseState = 311
	PARTITION_PTYPE_AND_PTYPE_STR          ParseState = 312
	PARTITION_PTYPE_STR_AND_GUID           ParseState = 313
	PARTITION_PTYPE_STR_FTYPE_STR_AND_GUID ParseState = 314
	PARTITION_UNUSED                       ParseState = 315
	SIGNATURE_MISSING                      ParseState = 316
	PARTITION_END                          ParseState = 399

	FILE_SYSTEM_START                    ParseState = 400
	ADDITIONAL_PRIMARY_VOLUME_DESCRIPTOR ParseState = 401
	APPLICATION                          ParseState = 402
	BOOT_LOADER                          ParseState = 403
	BOOT_RECORD                          ParseState = 404
	BSD_DISKLABEL                        ParseState = 405
	DATA_SIZE                            ParseState = 406
	DESCRIPTOR_TYPE                      ParseState = 407
	FILE_SYSTEM_UUID                     ParseState = 408
	FS_TYPE_STR                          ParseState = 409
	HFS_WRAPPER                          ParseState = 410
	ISO9660_EXTENSION                    ParseState = 411
	LAST_MOUNTED                         ParseState = 412
	PLATFORM_SYSTEM_TYPE                 ParseState = 413
	PREPARER                             ParseState = 414
	PUBLISHER                            ParseState = 415
	UDF_RECOGNITION_SEQUENCE_MISSINGLOC  ParseState = 416
	UDF_VERSION                          ParseState = 417
	VOLUME_NAME                          ParseState = 418
	VOLUME_SIZE                          ParseState = 419
	FILE_SYSTEM_END                      ParseState = 499

	EL_TORITO_START ParseState = 500
	EL_TORITO_END   ParseState = 599

	COMPRESSION_START ParseState = 600
	GZIP              ParseState = 601
	COMPRESSION_END   ParseState = 699
)

var state_names = map[ParseState]string{
	INPUT_START: "INPUT_START",
	INPUT_END:   "INPUT_END",

	BLANK_MEDIUM:            "BLANK_MEDIUM",
	SECTOR_SIZE:             "SECTOR_SIZE",
	SOLARIS_SPARC_DISKLABEL: "SOLARIS_SPARC_DISKLABEL",
	TAR_ARCHIVE:             "TAR_ARCHIVE",

	DISK_START:               "DISK_START",
	CPIO_ARCHIVE:             "CPIO_ARCHIVE",
	DISK_META:                "DISK_META",
	INPUT_FILE:               "INPUT_FILE",
	NO_TYPE_AND_CREATOR_CODE: "NO_TYPE_AND_CREATOR_CODE",
	VALIDATION_ENTRY_MISSING: "VALIDATION_ENTRY_MISSING",
	DISK_END:                 "DISK_END",

	PARTITION_SYSTEM_START: "PARTITION_SYSTEM_START",
	DISK_GUID:              "DISK_GUID",
	DISK_SIZE:              "DISK_SIZE",
	PARTITION_MAP:          "PARTITION_MAP",
	PARTITION_SYSTEM_END:   "PARTITION_SYSTEM_END",

	PARTITION_START:                        "PARTITION_START",
	BOOTABLE_FLOPPY_IMAGE:                  "BOOTABLE_FLOPPY_IMAGE",
	BOOTABLE_HARD_DISK_IMAGE:               "BOOTABLE_HARD_DISK_IMAGE",
	BOOTABLE_NONEMULATED_IMAGE:             "BOOTABLE_NONEMULATED_IMAGE",
	FILE_SYSTEM_INCLUDES:                   "FILE_SYSTEM_INCLUDES",
	PARTITION_BLANK_CHECK:                  "PARTITION_BLANK_CHECK",
	PARTITION_GUID:                         "PARTITION_GUID",
	PARTITION_INCLUDES:                     "PARTITION_INCLUDES",
	PARTITION_META:                         "PARTITION_META",
	PARTITION_NAME:                         "PARTITION_NAME",
	PARTITION_PTYPE_INT:                    "PARTITION_PTYPE_INT",
	PARTITION_PTYPE_STR:                    "PARTITION_PTYPE_STR",
	PARTITION_PTYPE_AND_PTYPE_STR:          "PARTITION_PTYPE_AND_PTYPE_STR",
	PARTITION_PTYPE_STR_AND_GUID:           "PARTITION_PTYPE_STR_AND_GUID",
	PARTITION_PTYPE_STR_FTYPE_STR_AND_GUID: "PARTITION_PTYPE_STR_FTYPE_STR_AND_GUID",
	PARTITION_UNUSED:                       "PARTITION_UNUSED",
	SIGNATURE_MISSING:                      "SIGNATURE_MISSING",
	PARTITION_END:                          "PARTITION_END",

	FILE_SYSTEM_START:                    "FILE_SYSTEM_START",
	ADDITIONAL_PRIMARY_VOLUME_DESCRIPTOR: "ADDITIONAL_PRIMARY_VOLUME_DESCRIPTOR",
	APPLICATION:                          "APPLICATION",
	BOOT_LOADER:                          "BOOT_LOADER",
	BOOT_RECORD:                          "BOOT_RECORD",
	BSD_DISKLABEL:                        "BSD_DISKLABEL",
	DATA_SIZE:                            "DATA_SIZE",
	DESCRIPTOR_TYPE:                      "DESCRIPTOR_TYPE",
	FILE_SYSTEM_UUID:                     "FILE_SYSTEM_UUID",
	FS_TYPE_STR:                          "FS_TYPE_STR",
	HFS_WRAPPER:                          "HFS_WRAPPER",
	ISO9660_EXTENSION:                    "ISO9660_EXTENSION",
	LAST_MOUNTED:                         "LAST_MOUNTED",
	PLATFORM_SYSTEM_TYPE:                 "PLATFORM_SYSTEM_TYPE",
	PREPARER:                             "PREPARER",
	PUBLISHER:                            "PUBLISHER",
	UDF_RECOGNITION_SEQUENCE_MISSINGLOC:  "UDF_RECOGNITION_SEQUENCE_MISSINGLOC",
	UDF_VERSION:                          "UDF_VERSION",
	VOLUME_NAME:                          "VOLUME_NAME",
	VOLUME_SIZE:                          "VOLUME_SIZE",
	FILE_SYSTEM_END:                      "FILE_SYSTEM_END",

	EL_TORITO_START: "EL_TORITO_START",
	EL_TORITO_END:   "EL_TORITO_END",

	COMPRESSION_START: "COMPRESSION_START",
	GZIP:              "GZIP",
	COMPRESSION_END:   "COMPRESSION_END",
}

func (self ParseState) String() string {
	name, pres := state_names[self]
	if pres {
		return name
	}
	return fmt.Sprintf("ParseState(%d)", int(self))
}

// Opens a level on the level stack when transitioned into.
func (self ParseState) IsLevelStart() bool {
	switch self {
	case DISK_START, PARTITION_SYSTEM_START, PARTITION_START,
		FILE_SYSTEM_START, EL_TORITO_START, COMPRESSION_START:
		return true
	}
	return false
}

// End returns the END sentinel of the category a START state opens.
func (self ParseState) End() ParseState {
	switch self {
	case DISK_START:
		return DISK_END
	case PARTITION_SYSTEM_START:
		return PARTITION_SYSTEM_END
	case PARTITION_START:
		return PARTITION_END
	case FILE_SYSTEM_START:
		return FILE_SYSTEM_END
	case EL_TORITO_START:
		return EL_TORITO_END
	case COMPRESSION_START:
		return COMPRESSION_END
	}
	return self
}

// Levels in these categories have a matching entity on the entity
// stack.
func (self ParseState) HasEntity() bool {
	switch self {
	case DISK_START, PARTITION_SYSTEM_START, PARTITION_START,
		FILE_SYSTEM_START:
		return true
	}
	return false
}
