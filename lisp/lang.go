package lisp

// RestSuffix marks a rest parameter in a function's parameter array.  The
// parameter name is the identifier with the suffix removed.
const RestSuffix = "..."

// FileSymbol is bound in every root environment to the path of the source
// file being executed.
const FileSymbol = "FILE"

// SourceExt is the file extension of Iron source files.  It is appended to
// imported paths which have no extension.
const SourceExt = ".irl"
