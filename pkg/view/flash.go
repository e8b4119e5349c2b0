package view

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notification shown on the page after a redirect.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

func Success(msg string) Flash { return Flash{Kind: FlashSuccess, Message: msg} }

func Failure(msg string) Flash { return Flash{Kind: FlashError, Message: msg} }
