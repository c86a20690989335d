package svnlook

import (
	"fmt"

	"github.com/samber/lo"
)

// Operation is an svnlook subcommand name.
type Operation string

const (
	OpAuthor      Operation = "author"
	OpCat         Operation = "cat"
	OpChanged     Operation = "changed"
	OpDate        Operation = "date"
	OpDiff        Operation = "diff"
	OpDirsChanged Operation = "dirs-changed"
	OpFileSize    Operation = "filesize"
	OpHistory     Operation = "history"
	OpInfo        Operation = "info"
	OpLock        Operation = "lock"
	OpLog         Operation = "log"
	OpPropGet     Operation = "propget"
	OpPropList    Operation = "proplist"
	OpTree        Operation = "tree"
	OpUUID        Operation = "uuid"
	OpYoungest    Operation = "youngest"
)

// Flag is an optional svnlook flag an operation may accept.
type Flag string

const (
	FlagRevision    Flag = "revision"
	FlagTransaction Flag = "transaction"
	FlagLimit       Flag = "limit"
	FlagExtensions  Flag = "extensions"
)

// flagOrder is the order flags are appended in, whatever order the caller set them.
var flagOrder = []Flag{FlagRevision, FlagTransaction, FlagLimit, FlagExtensions}

// Shape describes how an operation's output is turned into a result.
type Shape int

const (
	ShapeRaw Shape = iota
	ShapeInfo
	ShapeLock
	ShapeXML
)

func (s Shape) String() string {
	switch s {
	case ShapeInfo:
		return "info"
	case ShapeLock:
		return "lock"
	case ShapeXML:
		return "xml"
	default:
		return "raw"
	}
}

// Descriptor fixes the arguments, flags and output shape of an operation.
type Descriptor struct {
	Op            Operation
	Summary       string
	Aliases       []string
	NeedsTarget   bool
	NeedsProperty bool
	Flags         []Flag
	RevProp       bool
	Shape         Shape
}

// Accepts reports whether the operation honors the given flag.
func (d Descriptor) Accepts(f Flag) bool {
	return lo.Contains(d.Flags, f)
}

var (
	revTxn      = []Flag{FlagRevision, FlagTransaction}
	descriptors = []Descriptor{
		{Op: OpAuthor, Summary: "Print the author of a revision or transaction", Flags: revTxn, RevProp: true},
		{Op: OpCat, Summary: "Print the contents of a file", NeedsTarget: true, Flags: revTxn},
		{Op: OpChanged, Summary: "Print the paths that were changed", Flags: revTxn},
		{Op: OpDate, Summary: "Print the datestamp of a revision or transaction", Flags: revTxn, RevProp: true},
		{Op: OpDiff, Summary: "Print GNU-style differences of changed files and properties", Flags: []Flag{FlagRevision, FlagTransaction, FlagExtensions}},
		{Op: OpDirsChanged, Summary: "Print the directories that were themselves changed or whose file children were changed", Aliases: []string{"dirsChanged", "dc"}, Flags: revTxn},
		{Op: OpFileSize, Summary: "Print the size (in bytes) of a versioned file", NeedsTarget: true, Flags: revTxn},
		{Op: OpHistory, Summary: "Print information about the history of a path", NeedsTarget: true, Flags: []Flag{FlagRevision, FlagLimit}},
		{Op: OpInfo, Summary: "Print the author, datestamp, log message size and log message", Flags: revTxn, Shape: ShapeInfo},
		{Op: OpLock, Summary: "Describe the lock on a path, if one exists", NeedsTarget: true, Shape: ShapeLock},
		{Op: OpLog, Summary: "Print the log message", Flags: revTxn, RevProp: true},
		{Op: OpPropGet, Summary: "Print the raw value of a property on a path", Aliases: []string{"pget", "pg"}, NeedsTarget: true, NeedsProperty: true, Flags: revTxn, RevProp: true},
		{Op: OpPropList, Summary: "List the properties of a path", Aliases: []string{"plist", "pl"}, NeedsTarget: true, Flags: revTxn, RevProp: true, Shape: ShapeXML},
		{Op: OpTree, Summary: "Print the tree, starting at a path", NeedsTarget: true, Flags: revTxn},
		{Op: OpUUID, Summary: "Print the repository's UUID"},
		{Op: OpYoungest, Summary: "Print the youngest revision number"},
	}

	byName = func() map[string]Descriptor {
		m := make(map[string]Descriptor, len(descriptors)*2)
		for _, d := range descriptors {
			m[string(d.Op)] = d
			for _, a := range d.Aliases {
				m[a] = d
			}
		}
		return m
	}()
)

// Descriptors returns every supported operation in alphabetical order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Lookup resolves an operation by its canonical name or one of its aliases.
func Lookup(name string) (Descriptor, error) {
	d, ok := byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return d, nil
}
