// Package assuan implements the pinentry subset of the Assuan line protocol.
//
// It covers the four stateless pieces of the protocol:
//   - ParseCommand: one inbound line to a Command
//   - ParseOption: the argument of an OPTION directive to an Option
//   - Unescape: the %XX text escaping used in directive payloads
//   - Response.Encode: one outbound reply to its wire line
//
// Payload text is never unescaped automatically; callers that display it
// run Unescape themselves. Session state lives in internal/session.
package assuan
