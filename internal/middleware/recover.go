package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/voice-companion/backend/internal/apierror"
	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

const suppressedDetail = "Something went wrong"

// Recoverer turns panics into a 500 error envelope. The panic detail is only
// shown to clients when showDetail is set (development mode).
func Recoverer(showDetail bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error().
					Str("request_id", GetRequestID(r.Context())).
					Str("path", r.URL.Path).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("unhandled panic")

				message := suppressedDetail
				if showDetail {
					message = fmt.Sprint(rec)
				}
				utils.RespondAPIError(w, apierror.New(apierror.Internal, message))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
