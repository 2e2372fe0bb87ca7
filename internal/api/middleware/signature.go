package middleware

import (
	"bytes"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/vercel-bot/engine/pkg/utils"
)

// SignatureHeader is set by Vercel on every webhook delivery.
const SignatureHeader = "x-vercel-signature"

const maxWebhookBody = 1 << 20

// VerifySignature rejects requests whose x-vercel-signature is not the hex
// HMAC-SHA1 of the body under secret. An empty secret disables the check.
// The body is restored for the next handler.
func VerifySignature(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(secret) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			_ = r.Body.Close()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			expected := utils.HMACSHA1Hex(secret, body)
			if !utils.EqualSignature(r.Header.Get(SignatureHeader), expected) {
				Logger(r.Context()).Warn("webhook signature mismatch", zap.String("remote", r.RemoteAddr))
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
