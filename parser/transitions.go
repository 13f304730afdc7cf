package parser

// Legal successors of each state. Anything not listed here aborts the
// parse. FILE_SYSTEM_END may repeat when a file system nested in
// another closes along with it.
var state_transitions = map[ParseState][]ParseState{
	COMPRESSION_END:      {DISK_END},
	COMPRESSION_START:    {GZIP},
	DISK_END:             {DISK_START, EL_TORITO_END, INPUT_END},
	DISK_START:           {BOOTABLE_FLOPPY_IMAGE, BOOTABLE_HARD_DISK_IMAGE, BOOTABLE_NONEMULATED_IMAGE, INPUT_FILE},
	EL_TORITO_END:        {FILE_SYSTEM_END, ADDITIONAL_PRIMARY_VOLUME_DESCRIPTOR, ISO9660_EXTENSION},
	EL_TORITO_START:      {BOOT_RECORD},
	FILE_SYSTEM_END:      {DISK_END, FILE_SYSTEM_START, PARTITION_END, PARTITION_SYSTEM_START, HFS_WRAPPER, ISO9660_EXTENSION, FILE_SYSTEM_END},
	FILE_SYSTEM_START:    {FS_TYPE_STR},
	INPUT_END:            {},
	INPUT_START:          {DISK_START},
	PARTITION_END:        {PARTITION_START, PARTITION_SYSTEM_END},
	PARTITION_START:      {PARTITION_META, PARTITION_UNUSED},
	PARTITION_SYSTEM_END: {DISK_END, FILE_SYSTEM_START, PARTITION_END, PARTITION_START, PARTITION_SYSTEM_START, UDF_RECOGNITION_SEQUENCE_MISSINGLOC},
	PARTITION_SYSTEM_START: {
		BSD_DISKLABEL, PARTITION_MAP, SOLARIS_SPARC_DISKLABEL},

	ADDITIONAL_PRIMARY_VOLUME_DESCRIPTOR: {FILE_SYSTEM_END, ADDITIONAL_PRIMARY_VOLUME_DESCRIPTOR, ISO9660_EXTENSION},
	APPLICATION:                          {DATA_SIZE},
	BLANK_MEDIUM:                         {DISK_END, PARTITION_END},
	BOOT_LOADER:                          {DISK_END, FILE_SYSTEM_END, FILE_SYSTEM_START, PARTITION_SYSTEM_START, BOOT_LOADER},
	BOOT_RECORD:                          {DISK_START, BOOTABLE_HARD_DISK_IMAGE, BOOTABLE_NONEMULATED_IMAGE, VALIDATION_ENTRY_MISSING},
	BOOTABLE_FLOPPY_IMAGE:                {PLATFORM_SYSTEM_TYPE},
	BOOTABLE_HARD_DISK_IMAGE:             {PLATFORM_SYSTEM_TYPE},
	BOOTABLE_NONEMULATED_IMAGE:           {PLATFORM_SYSTEM_TYPE},
	BSD_DISKLABEL:                        {PARTITION_START},
	CPIO_ARCHIVE:                         {DISK_END},
	DATA_SIZE:                            {EL_TORITO_START, FILE_SYSTEM_END, ADDITIONAL_PRIMARY_VOLUME_DESCRIPTOR, DESCRIPTOR_TYPE, ISO9660_EXTENSION},
	DESCRIPTOR_TYPE:                      {FILE_SYSTEM_END},
	DISK_GUID:                            {PARTITION_START},
	DISK_META:                            {DISK_END, FILE_SYSTEM_START, PARTITION_SYSTEM_START, BLANK_MEDIUM, BOOT_LOADER, CPIO_ARCHIVE, NO_TYPE_AND_CREATOR_CODE, TAR_ARCHIVE},
	DISK_SIZE:                            {DISK_GUID},
	FILE_SYSTEM_UUID:                     {VOLUME_SIZE},
	FILE_SYSTEM_INCLUDES:                 {FILE_SYSTEM_START},
	FS_TYPE_STR:                          {FILE_SYSTEM_END, FILE_SYSTEM_UUID, LAST_MOUNTED, SECTOR_SIZE, VOLUME_NAME, VOLUME_SIZE},
	GZIP:                                 {TAR_ARCHIVE},
	INPUT_FILE:                           {DISK_META},
	HFS_WRAPPER:                          {FILE_SYSTEM_START},
	ISO9660_EXTENSION:                    {DISK_END, FILE_SYSTEM_END, FILE_SYSTEM_START, ISO9660_EXTENSION},
	LAST_MOUNTED:                         {FILE_SYSTEM_END, PARTITION_META, VOLUME_NAME},
	NO_TYPE_AND_CREATOR_CODE:             {DISK_END},
	PARTITION_BLANK_CHECK:                {PARTITION_END},
	PARTITION_GUID:                       {FILE_SYSTEM_START, PARTITION_END},
	PARTITION_INCLUDES:                   {FILE_SYSTEM_START},
	PARTITION_MAP:                        {PARTITION_START, DISK_SIZE, PARTITION_META},
	PARTITION_META: {
		PARTITION_PTYPE_AND_PTYPE_STR, PARTITION_PTYPE_INT, PARTITION_PTYPE_STR,
		PARTITION_PTYPE_STR_AND_GUID, PARTITION_PTYPE_STR_FTYPE_STR_AND_GUID},
	PARTITION_NAME:                         {PARTITION_GUID},
	PARTITION_UNUSED:                       {PARTITION_END},
	PLATFORM_SYSTEM_TYPE:                   {DISK_END, FILE_SYSTEM_END, FILE_SYSTEM_START, PARTITION_SYSTEM_START, BOOT_LOADER},
	PARTITION_PTYPE_AND_PTYPE_STR:          {FILE_SYSTEM_START, PARTITION_END, FILE_SYSTEM_INCLUDES, SIGNATURE_MISSING},
	PARTITION_PTYPE_INT:                    {FILE_SYSTEM_START, PARTITION_END, PARTITION_SYSTEM_START, BLANK_MEDIUM, PARTITION_BLANK_CHECK, PARTITION_INCLUDES, PARTITION_META},
	PARTITION_PTYPE_STR:                    {FILE_SYSTEM_START, PARTITION_END, PARTITION_SYSTEM_START, BLANK_MEDIUM, PARTITION_BLANK_CHECK, PARTITION_META},
	PARTITION_PTYPE_STR_AND_GUID:           {PARTITION_NAME},
	PARTITION_PTYPE_STR_FTYPE_STR_AND_GUID: {PARTITION_NAME},
	PREPARER:                               {APPLICATION, DATA_SIZE},
	PUBLISHER:                              {APPLICATION, DATA_SIZE, PREPARER},
	SECTOR_SIZE:                            {VOLUME_NAME},
	SIGNATURE_MISSING:                      {PARTITION_END},
	SOLARIS_SPARC_DISKLABEL:                {PARTITION_START},
	TAR_ARCHIVE:                            {COMPRESSION_END, COMPRESSION_START, DISK_END},
	UDF_RECOGNITION_SEQUENCE_MISSINGLOC:    {FILE_SYSTEM_START},
	UDF_VERSION:                            {FILE_SYSTEM_END},
	VALIDATION_ENTRY_MISSING:               {EL_TORITO_END},
	VOLUME_NAME:                            {FILE_SYSTEM_END, APPLICATION, DATA_SIZE, PARTITION_META, PREPARER, PUBLISHER, UDF_VERSION, VOLUME_SIZE},
	VOLUME_SIZE:                            {FILE_SYSTEM_END, FILE_SYSTEM_START, PARTITION_SYSTEM_START, PARTITION_META, VOLUME_NAME},
}

// CanTransition reports whether the grammar allows moving from one
// state to another.
func CanTransition(from, to ParseState) bool {
	for _, allowed := range state_transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
