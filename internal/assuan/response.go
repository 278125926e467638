package assuan

import "strconv"

// ResponseKind identifies an outbound reply.
type ResponseKind int

const (
	// RespOk acknowledges a directive.
	RespOk ResponseKind = iota
	// RespOkHello is the greeting.
	RespOkHello
	// RespData carries a payload line ("D ...").
	RespData
	// RespErr reports a failure ("ERR <code> <text>").
	RespErr
)

// Redacted replaces Data payloads in every diagnostic rendering.
const Redacted = "<SECURE>"

// Greeting is the text of the handshake line.
const Greeting = "Please go ahead"

// ErrCodeCancelled is the gpg-error code pinentry reports when the user
// dismisses the dialog (GPG_ERR_CANCELED from the pinentry source).
const ErrCodeCancelled = 83886179

// Response is one outbound reply. The payload of a Data reply is only
// reachable through Encode; String and GoString redact it.
type Response struct {
	kind ResponseKind
	data string
	code int
}

// Ok is the plain acknowledgement.
func Ok() Response { return Response{kind: RespOk} }

// OkHello is the handshake sent once before any directive is read.
func OkHello() Response { return Response{kind: RespOkHello} }

// Data carries a payload, usually the secret. It is written without
// escaping.
func Data(payload string) Response { return Response{kind: RespData, data: payload} }

// Err reports a failure with a gpg-error code and a human readable text.
func Err(code int, text string) Response { return Response{kind: RespErr, code: code, data: text} }

// Kind returns the reply kind.
func (r Response) Kind() ResponseKind { return r.kind }

// Code returns the error code of an Err reply.
func (r Response) Code() int { return r.code }

// Encode returns the wire line for r without a line terminator.
func (r Response) Encode() string {
	switch r.kind {
	case RespOkHello:
		return "OK " + Greeting
	case RespData:
		return "D " + r.data
	case RespErr:
		return "ERR " + strconv.Itoa(r.code) + " " + r.data
	default:
		return "OK"
	}
}

// String renders r for logs with Data payloads redacted.
func (r Response) String() string {
	if r.kind == RespData {
		return "D " + Redacted
	}
	return r.Encode()
}

// GoString keeps %#v from printing the payload.
func (r Response) GoString() string {
	return "assuan.Response(" + strconv.Quote(r.String()) + ")"
}
