// Package chunk implements the on-disk container files of a box.
//
// A chunk is a single binary file holding a length-prefixed sequence of
// records of one kind. The file starts with a u64 little-endian record count
// and continues with the concatenated record frames; there is no inter-record
// framing. Readers must trust the header count rather than the file length,
// because a chunk may have been appended in place.
//
// Chunk files are named <prefix>_<i>.bin with a decimal index. Files whose
// stem does not parse are ignored during scans.
package chunk
