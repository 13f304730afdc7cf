package parser

import (
	"bufio"
	"bytes"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

const whitespace = " \t\n\v\f\r"

// Parser turns a disktype report into a Document. A Parser holds the
// state of one parse at a time and may be reused sequentially.
type Parser struct {
	options Options

	document *Document
	state    ParseState

	// Open levels; the bottom one is always INPUT_START.
	levels []level

	// Entities parallel to the levels that carry one; the bottom one
	// is always the document.
	entities []Entity

	line_no        int
	current_indent int

	// -1 before the first line of an image.
	last_indent int

	// The most recently closed volume, and the one the next file
	// system is wrapped in.
	last_volume *Volume
	wrapper     *Volume

	transitions []Transition
	stats       *Stats
}

func NewParser(options Options) *Parser {
	return &Parser{
		options: completeOptions(options),
		stats:   NewStats(),
	}
}

func (self *Parser) reset() {
	self.document = &Document{
		Program:     self.options.Program,
		Version:     self.options.Version,
		CommandLine: self.options.CommandLine,
	}
	self.state = INPUT_START
	self.levels = []level{{State: INPUT_START, Indent: -1}}
	self.entities = []Entity{self.document}
	self.line_no = 0
	self.current_indent = 0
	self.last_indent = -1
	self.last_volume = nil
	self.wrapper = nil
	self.transitions = nil
	self.stats.Reset()
}

// Parse consumes a whole report. Any malformed line aborts the parse
// with a *ParseError.
func (self *Parser) Parse(reader io.Reader) (*Document, error) {
	self.reset()

	buffered := bufio.NewReader(reader)
	for {
		line, read_err := buffered.ReadBytes('\n')
		if len(line) > 0 {
			self.line_no++

			err := self.parseLine(line)
			if err != nil {
				return nil, &ParseError{
					LineNo: self.line_no,
					Line:   decodeText(bytes.Trim(line, whitespace)),
					Err:    err,
				}
			}
		}

		if read_err == io.EOF {
			break
		}
		if read_err != nil {
			return nil, errors.Wrap(read_err, "reading report")
		}
	}

	err := self.finish()
	if err != nil {
		return nil, &ParseError{LineNo: self.line_no, Err: err}
	}
	return self.document, nil
}

func (self *Parser) parseLine(line []byte) error {
	self.stats.Inc_Lines()

	cleaned := bytes.Trim(line, whitespace)
	if len(cleaned) == 0 {
		// A blank line ends the current image.
		self.stats.Inc_BlankLines()
		self.last_indent = -1
		return self.popUntil(INPUT_START)
	}

	self.current_indent = len(line) - len(bytes.TrimLeft(line, whitespace))

	event, err := Classify(cleaned)
	if err != nil {
		return err
	}
	self.stats.Inc_Kind(event.Kind)

	DebugPrint("%d [%d] %v: %s\n", self.line_no, self.current_indent,
		event.Kind, cleaned)

	if self.last_indent >= 0 && self.current_indent < self.last_indent {
		err = self.deindent(event)
		if err != nil {
			return err
		}
	}
	self.last_indent = self.current_indent

	handler, pres := event_handlers[event.Kind]
	if !pres {
		return errors.Wrapf(ErrUnimplemented, "no handler for %v", event.Kind)
	}

	err = handler(self, event)
	if err != nil {
		return err
	}

	if debugEnabled() {
		self.debugStacks()
	}
	return self.checkDepth()
}

// finish closes everything still open and ends the input.
func (self *Parser) finish() error {
	err := self.popUntil(INPUT_START)
	if err != nil {
		return err
	}

	// An empty report never leaves INPUT_START.
	if self.state == INPUT_START {
		return errors.Wrapf(ErrIllegalTransition, "empty report")
	}
	return self.transition(INPUT_END)
}

// Transitions returns every state change of the last parse in order.
func (self *Parser) Transitions() []Transition {
	return self.transitions
}

func (self *Parser) Stats() *Stats {
	return self.stats
}

func (self *Parser) debugStacks() {
	levels := spew.Sdump(self.levels)
	kinds := make([]EntityKind, 0, len(self.entities))
	for _, entity := range self.entities {
		kinds = append(kinds, entity.Kind())
	}
	DebugPrint("State %v\nLevels %sEntities %v\n", self.state, levels, kinds)
}

// Parse is a convenience wrapper using default options.
func Parse(reader io.Reader) (*Document, error) {
	return NewParser(GetDefaultOptions()).Parse(reader)
}
