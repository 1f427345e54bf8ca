package orz

import "errors"

// ErrCorruptStream is returned by LZDecoder.Decode when the input chunk is
// malformed: a Huffman length table that violates the Kraft inequality, a
// decoded rank outside the MTF alphabet, or a reduced offset that points at
// a bucket slot that was never written.
var ErrCorruptStream = errors.New("orz: corrupt stream")

// ErrTargetOverflow is raised when a caller-supplied buffer has no room for
// the bytes a call must write. It is the caller's responsibility to size
// buffers for one chunk's worst case; this error exists so that violation
// is surfaced rather than silently truncated.
var ErrTargetOverflow = errors.New("orz: target buffer overflow")
