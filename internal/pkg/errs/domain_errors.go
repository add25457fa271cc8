package errs

// Category markers shared by the usecase and handler layers. Concrete errors are
// marked with one of these so the HTTP layer can pick a status without knowing
// every sentinel.
var (
	// Local guard or input problem detected before anything was sent upstream.
	ErrDomainValidation = New("domain validation failed")

	// Upstream booking service could not be reached or answered with a server error.
	ErrUpstreamUnavailable = New("booking service unavailable")

	// Upstream booking service answered with a booking that cannot be read.
	ErrUpstreamInvalid = New("booking service returned invalid data")

	// Upstream booking service refused the request on business grounds.
	ErrUpstreamRejected = New("booking service rejected request")

	ErrBookingNotFound = New("booking not found")
	ErrQuoteNotFound   = New("cancellation quote not found")
)
