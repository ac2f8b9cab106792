// Package container writes the .video envelope: a 16-byte header (magic,
// version, payload size) followed by the encoded payload copied verbatim.
// The payload is opaque; nothing here decodes or validates WebM data.
package container
