package snekfetch

import (
	"strings"
)

type Method string

const (
	MethodACL         Method = "ACL"
	MethodBind        Method = "BIND"
	MethodCheckout    Method = "CHECKOUT"
	MethodConnect     Method = "CONNECT"
	MethodCopy        Method = "COPY"
	MethodDelete      Method = "DELETE"
	MethodGet         Method = "GET"
	MethodHead        Method = "HEAD"
	MethodLink        Method = "LINK"
	MethodLock        Method = "LOCK"
	MethodMSearch     Method = "M-SEARCH"
	MethodMerge       Method = "MERGE"
	MethodMkActivity  Method = "MKACTIVITY"
	MethodMkCalendar  Method = "MKCALENDAR"
	MethodMkCol       Method = "MKCOL"
	MethodMove        Method = "MOVE"
	MethodNotify      Method = "NOTIFY"
	MethodOptions     Method = "OPTIONS"
	MethodPatch       Method = "PATCH"
	MethodPost        Method = "POST"
	MethodPropFind    Method = "PROPFIND"
	MethodPropPatch   Method = "PROPPATCH"
	MethodPurge       Method = "PURGE"
	MethodPut         Method = "PUT"
	MethodRebind      Method = "REBIND"
	MethodReport      Method = "REPORT"
	MethodSearch      Method = "SEARCH"
	MethodSource      Method = "SOURCE"
	MethodSubscribe   Method = "SUBSCRIBE"
	MethodTrace       Method = "TRACE"
	MethodUnbind      Method = "UNBIND"
	MethodUnlink      Method = "UNLINK"
	MethodUnlock      Method = "UNLOCK"
	MethodUnsubscribe Method = "UNSUBSCRIBE"

	// MethodBrew is the RFC 2324 coffee pot verb.
	MethodBrew Method = "BREW"
)

var methods = []Method{
	MethodACL, MethodBind, MethodCheckout, MethodConnect, MethodCopy,
	MethodDelete, MethodGet, MethodHead, MethodLink, MethodLock,
	MethodMSearch, MethodMerge, MethodMkActivity, MethodMkCalendar,
	MethodMkCol, MethodMove, MethodNotify, MethodOptions, MethodPatch,
	MethodPost, MethodPropFind, MethodPropPatch, MethodPurge, MethodPut,
	MethodRebind, MethodReport, MethodSearch, MethodSource, MethodSubscribe,
	MethodTrace, MethodUnbind, MethodUnlink, MethodUnlock, MethodUnsubscribe,
	MethodBrew,
}

// Methods returns every verb a Request can be created with.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// ParseMethod upper-cases s and checks it against Methods.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(s))
	for _, known := range methods {
		if m == known {
			return m, nil
		}
	}
	return "", &UnsupportedMethodError{Method: s}
}

func (m Method) String() string {
	return string(m)
}
