// Package orz implements the streaming core of a general-purpose lossless
// compressor: a reduced-offset Lempel-Ziv match finder, a context-indexed
// move-to-front recoder, and canonical Huffman entropy coding over a
// 32-bit-word bit packer.
//
// The package exposes two synchronous, single-threaded drivers. LZEncoder
// turns a growing source window into a sequence of self-describing chunks;
// LZDecoder reverses the transform one chunk at a time. Both sides are pure
// functions of their buffers and cursors: no goroutines, no blocking calls,
// no hidden state beyond the context each driver owns.
//
// Framing, file I/O, and configuration parsing are not this package's
// concern; callers supply a source buffer, a target buffer with room for
// one chunk's worst-case expansion, and a position cursor they advance
// themselves between calls.
package orz
