// Package constants defines application-wide constants and version information.
package constants

// Version is the dataset generator version. It is written into the
// dataset descriptor file and must match the embedded reader release
// that parses the binary record layouts.
const Version = "2.0"
