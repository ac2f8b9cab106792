// Command vidpack converts video files to VP9 WebM with ffmpeg and wraps the
// result in the .video container format consumed at runtime: a 16-byte header
// (magic "VID0", version, payload size) followed by the WebM bytes verbatim.
//
// Exit codes: 0 on success, 1 when no input files were found, 2 on any error.
package main
