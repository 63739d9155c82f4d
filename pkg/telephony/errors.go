package telephony

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/outboundhq/dialer/pkg/apperror"
	"github.com/twitchtv/twirp"
)

// classify maps a LiveKit (twirp) error into the application's telephony
// error taxonomy: auth failures and bad input are permanent, anything
// that looks like a transport hiccup or server-side hiccup is transient
// and thus worth a retry by the Campaign Runtime's retry policy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrTimeout.WithInternal(err)
	}

	var twerr twirp.Error
	if errors.As(err, &twerr) {
		switch twerr.Code() {
		case twirp.Unauthenticated, twirp.PermissionDenied, twirp.InvalidArgument, twirp.NotFound, twirp.AlreadyExists:
			return apperror.ErrTelephonyPermanent.WithMessage(twerr.Msg()).WithInternal(err)
		case twirp.DeadlineExceeded:
			return apperror.ErrTimeout.WithInternal(err)
		}
		if meta := twerr.Meta("status_code"); meta != "" {
			if status, convErr := strconv.Atoi(meta); convErr == nil && !httpStatusIsRetryable(status) {
				return apperror.ErrTelephonyPermanent.WithMessage(twerr.Msg()).WithInternal(err)
			}
		}
		return apperror.ErrTelephonyTransient.WithMessage(twerr.Msg()).WithInternal(err)
	}

	// Fall back to crude substring sniffing for transport-level errors that
	// don't arrive wrapped in a twirp.Error (dial failures, TLS errors).
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unauthorized") || strings.Contains(msg, "forbidden") || strings.Contains(msg, "invalid") {
		return apperror.ErrTelephonyPermanent.WithInternal(err)
	}
	return apperror.ErrTelephonyTransient.WithInternal(err)
}

// httpStatusIsRetryable reports whether a raw HTTP status from the fabric's
// REST surface should be treated as a transient failure.
func httpStatusIsRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
