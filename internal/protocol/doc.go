// Package protocol defines the control socket wire format.
//
// Every message is a JSON envelope carrying a command name and an optional
// command-specific payload. Requests and responses share the envelope shape;
// responses use [CmdOK] or [CmdError] as the command. Messages are
// newline-delimited on the wire, one exchange per connection.
package protocol
