// Package middlewares contiene los decoradores http.Handler del router.
package middlewares

import "net/http"

// Middleware decora un http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain envuelve h; el primer middleware queda más afuera, así
// Chain(h, A, B) atiende como A(B(h)).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := range mws {
		h = mws[len(mws)-1-i](h)
	}
	return h
}
