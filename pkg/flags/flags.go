package flags

// This file contains all the flags used in the cmd package.
// Should be consulted when adding new flags to avoid conflicts.

type Flag struct {
	Full  string
	Short string
}

var (
	BinaryFlag   = Flag{Full: "binary", Short: "b"}
	OutputFlag   = Flag{Full: "output", Short: "o"}
	QuickFlag    = Flag{Full: "quick"}
	FullFlag     = Flag{Full: "full"}
	FilesFlag    = Flag{Full: "files"}
	SizesFlag    = Flag{Full: "sizes"}
	PatternFlag  = Flag{Full: "pattern"}
	ValgrindFlag = Flag{Full: "valgrind"}
	TimeoutFlag  = Flag{Full: "timeout"}

	// Parent flags
	ConfigFlag    = Flag{Full: "config"}
	ConfigDirFlag = Flag{Full: "config-dir"}
)
