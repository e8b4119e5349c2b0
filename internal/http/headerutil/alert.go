// Package headerutil writes the alert headers admin clients use to show
// notifications after REST calls.
package headerutil

import (
	"net/http"
	"net/url"
)

const (
	AppName      = "noviApp"
	HeaderAlert  = "X-" + AppName + "-alert"
	HeaderParams = "X-" + AppName + "-params"
	HeaderError  = "X-" + AppName + "-error"
)

func Alert(h http.Header, message, param string) {
	h.Set(HeaderAlert, message)
	h.Set(HeaderParams, url.QueryEscape(param))
}

func EntityCreation(h http.Header, entity, id string) {
	Alert(h, AppName+"."+entity+".created", id)
}

func EntityUpdate(h http.Header, entity, id string) {
	Alert(h, AppName+"."+entity+".updated", id)
}

func EntityDeletion(h http.Header, entity, id string) {
	Alert(h, AppName+"."+entity+".deleted", id)
}

func Failure(h http.Header, entity, errorKey string) {
	h.Set(HeaderError, "error."+errorKey)
	h.Set(HeaderParams, entity)
}
