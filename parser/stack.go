package parser

import (
	"github.com/pkg/errors"
)

// An open level of the report. Indent is the indentation of the line
// that opened it.
type level struct {
	State  ParseState
	Indent int
	LineNo int
}

type Transition struct {
	From   ParseState
	To     ParseState
	LineNo int
}

func (self *Parser) topLevel() level {
	return self.levels[len(self.levels)-1]
}

func (self *Parser) top() Entity {
	return self.entities[len(self.entities)-1]
}

// The entity directly below the top of the stack.
func (self *Parser) parent() Entity {
	if len(self.entities) < 2 {
		return nil
	}
	return self.entities[len(self.entities)-2]
}

func (self *Parser) topVolume() (*Volume, error) {
	result, ok := self.top().(*Volume)
	if !ok {
		return nil, errors.Wrapf(ErrStructuralMismatch,
			"expected a Volume, found %v", self.top().Kind())
	}
	return result, nil
}

func (self *Parser) topPartition() (*Partition, error) {
	result, ok := self.top().(*Partition)
	if !ok {
		return nil, errors.Wrapf(ErrStructuralMismatch,
			"expected a Partition, found %v", self.top().Kind())
	}
	return result, nil
}

func (self *Parser) topPartitionSystem() (*PartitionSystem, error) {
	result, ok := self.top().(*PartitionSystem)
	if !ok {
		return nil, errors.Wrapf(ErrStructuralMismatch,
			"expected a PartitionSystem, found %v", self.top().Kind())
	}
	return result, nil
}

func (self *Parser) topDiskImage() (*DiskImage, error) {
	result, ok := self.top().(*DiskImage)
	if !ok {
		return nil, errors.Wrapf(ErrStructuralMismatch,
			"expected a DiskImage, found %v", self.top().Kind())
	}
	return result, nil
}

func (self *Parser) nearestDiskImage() *DiskImage {
	for i := len(self.entities) - 1; i >= 0; i-- {
		disk, ok := self.entities[i].(*DiskImage)
		if ok {
			return disk
		}
	}
	return nil
}

func (self *Parser) nearestPartitionSystem() *PartitionSystem {
	for i := len(self.entities) - 1; i >= 0; i-- {
		ps, ok := self.entities[i].(*PartitionSystem)
		if ok {
			return ps
		}
	}
	return nil
}

func (self *Parser) nearestVolume() *Volume {
	for i := len(self.entities) - 1; i >= 0; i-- {
		volume, ok := self.entities[i].(*Volume)
		if ok {
			return volume
		}
	}
	return nil
}

// transition moves the grammar to a new state, opening a level and
// creating its entity for START states.
func (self *Parser) transition(to ParseState) error {
	if !CanTransition(self.state, to) {
		return errors.Wrapf(ErrIllegalTransition, "%v -> %v", self.state, to)
	}

	self.transitions = append(self.transitions, Transition{
		From: self.state, To: to, LineNo: self.line_no,
	})
	self.stats.Inc_Transitions()
	self.state = to

	if !to.IsLevelStart() {
		return nil
	}

	if len(self.levels) > self.options.MaxDepth {
		return errors.Wrapf(ErrStructuralMismatch,
			"more than %d nested levels", self.options.MaxDepth)
	}

	self.levels = append(self.levels, level{
		State: to, Indent: self.current_indent, LineNo: self.line_no,
	})

	switch to {
	case DISK_START:
		return self.pushDiskImage()
	case PARTITION_SYSTEM_START:
		return self.pushPartitionSystem()
	case PARTITION_START:
		return self.pushPartition()
	case FILE_SYSTEM_START:
		return self.pushVolume()
	}
	return nil
}

// popLevel closes the innermost level. The INPUT_START level is never
// closed.
func (self *Parser) popLevel() error {
	if len(self.levels) <= 1 {
		return nil
	}

	closing := self.topLevel()
	err := self.transition(closing.State.End())
	if err != nil {
		return err
	}
	self.levels = self.levels[:len(self.levels)-1]

	if closing.State.HasEntity() {
		popped := self.top()
		self.entities = self.entities[:len(self.entities)-1]

		volume, ok := popped.(*Volume)
		if ok {
			self.last_volume = volume
		}
	}
	return nil
}

// popUntil closes levels until the innermost one opened in the given
// state.
func (self *Parser) popUntil(state ParseState) error {
	for len(self.levels) > 1 && self.topLevel().State != state {
		err := self.popLevel()
		if err != nil {
			return err
		}
	}
	return nil
}

// deindent closes the levels a shallower line leaves.
func (self *Parser) deindent(event *Event) error {
	// GPT metadata lines are indented before the partitions are
	// listed.
	ps := self.nearestPartitionSystem()
	if ps != nil && ps.Type == "gpt" &&
		self.topLevel().State == PARTITION_SYSTEM_START {
		return nil
	}

	// An HFS wrapper closes only the wrapping file system.
	if event.Kind != LineHFSWrapper {
		for self.current_indent < self.topLevel().Indent {
			err := self.popLevel()
			if err != nil {
				return err
			}
		}
	}

	// Close the sibling at the line's own indentation.
	return self.popLevel()
}

// Every level other than El Torito and compression carries an entity.
func (self *Parser) checkDepth() error {
	expected := 1
	for _, l := range self.levels {
		if l.State.HasEntity() {
			expected++
		}
	}

	if expected != len(self.entities) {
		return errors.Wrapf(ErrStructuralMismatch,
			"%d entities open for %d levels", len(self.entities), expected)
	}
	return nil
}

func (self *Parser) pushDiskImage() error {
	disk := &DiskImage{}

	switch parent := self.top().(type) {
	case *Document:
		parent.DiskImages = append(parent.DiskImages, disk)
	case *Volume:
		parent.DiskImages = append(parent.DiskImages, disk)
	default:
		return errors.Wrapf(ErrStructuralMismatch,
			"disk image inside %v", parent.Kind())
	}

	self.entities = append(self.entities, disk)
	return nil
}

func (self *Parser) pushPartitionSystem() error {
	ps := &PartitionSystem{}

	switch parent := self.top().(type) {
	case *Partition:
		// Disklabels nested in a partition span it.
		ps.Run = parent.Run.Copy()
		parent.PartitionSystems = append(parent.PartitionSystems, ps)

	case *DiskImage:
		if parent.Run.Offset != nil {
			ps.Run.Offset = newUint64(*parent.Run.Offset)
		}
		// El Torito images reset the sector size.
		if parent.SectorSize != nil {
			ps.BlockSize = newUint64(*parent.SectorSize)
		}
		parent.PartitionSystems = append(parent.PartitionSystems, ps)

	case *Volume:
		offset := uint64(0)
		if parent.Run.Offset != nil {
			offset = *parent.Run.Offset
		}
		ps.Run.Offset = newUint64(offset)
		parent.PartitionSystems = append(parent.PartitionSystems, ps)

	default:
		return errors.Wrapf(ErrStructuralMismatch,
			"partition system inside %v", parent.Kind())
	}

	self.entities = append(self.entities, ps)
	return nil
}

func (self *Parser) pushPartition() error {
	ps, ok := self.top().(*PartitionSystem)
	if !ok {
		return errors.Wrapf(ErrStructuralMismatch,
			"partition inside %v", self.top().Kind())
	}

	partition := &Partition{}
	if ps.BlockSize != nil {
		partition.BlockSize = newUint64(*ps.BlockSize)
	}
	ps.Partitions = append(ps.Partitions, partition)

	self.entities = append(self.entities, partition)
	return nil
}

func (self *Parser) pushVolume() error {
	volume := &Volume{}
	parent := self.top()

	wrapper := self.wrapper
	self.wrapper = nil

	outer, ok := parent.(*Volume)
	if ok {
		wrapper = outer
	}

	if wrapper != nil {
		volume.Wrapped = true
		wrapper.Extensions = append(wrapper.Extensions,
			&WrappedVolume{Volume: volume})

	} else {
		switch p := parent.(type) {
		case *DiskImage:
			p.Volumes = append(p.Volumes, volume)
		case *Partition:
			p.Volumes = append(p.Volumes, volume)
		default:
			return errors.Wrapf(ErrStructuralMismatch,
				"file system inside %v", parent.Kind())
		}
	}

	partition, ok := parent.(*Partition)
	if ok {
		self.inheritFromPartition(volume, partition)
	}

	if !volume.Wrapped && !volume.Run.Defined() {
		// Treat the volume as spanning the containing disk image
		// until told otherwise.
		disk := self.nearestDiskImage()
		if disk != nil {
			volume.Run = disk.Run.Copy()
			volume.Run.provisional = true
		}
	}

	self.document.volumes = append(self.document.volumes, volume)
	self.entities = append(self.entities, volume)
	return nil
}

func (self *Parser) inheritFromPartition(volume *Volume, partition *Partition) {
	ps, ok := self.parent().(*PartitionSystem)
	if ok && ps.Type != "" {
		volume.Extensions = append(volume.Extensions,
			&PartitionSystemType{Type: ps.Type})
	}

	if partition.GUID != "" {
		volume.Extensions = append(volume.Extensions,
			&GUID{Value: partition.GUID})
	}
	if partition.Type != nil {
		volume.Extensions = append(volume.Extensions,
			&PartitionType{Code: *partition.Type})
	}
	if partition.TypeLabel != "" {
		volume.Extensions = append(volume.Extensions,
			&PartitionTypeLabel{Label: partition.TypeLabel})
	}

	// A file system may have its own block size and need not fill
	// the partition; these are overwritten by its size lines.
	if partition.BlockCount != nil {
		volume.BlockCount = newUint64(*partition.BlockCount)
	}
	if partition.BlockSize != nil {
		volume.BlockSize = newUint64(*partition.BlockSize)
	}
	volume.FileSystemType = partition.FileSystemType

	if volume.Wrapped || !partition.Run.Defined() {
		return
	}

	volume.Run = partition.Run.Copy()
	volume.Run.provisional = true
	volume.PartitionOffset = newUint64(*partition.Run.Offset)
	volume.Extensions = append(volume.Extensions,
		&PartitionByteRun{Run: partition.Run.Copy()})
}
