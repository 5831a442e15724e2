/*
Package x3fw packs and unpacks Insta360 X3 camera firmware files and the
RomFS archive blobs embedded inside them.

A firmware file is a body wrapped in a trailer envelope. The trailer carries
the product, version and hardware identifiers plus two MD5 digests covering
the body and the whole file. The body is a fixed header, a 16-entry segment
slot table, an opaque extra region and six CRC-protected segments. RomFS is
an independent block-aligned archive with a fixed 0xA000-byte directory
region and 2048-byte payload alignment.

The package focuses on exact roundtrips: decoding a firmware file or RomFS
archive and re-encoding the unmodified result reproduces the original bytes
bit for bit. Every magic number, checksum, size field and padding region is
validated on decode; any mismatch is reported as a *FormatError.
*/
package x3fw
