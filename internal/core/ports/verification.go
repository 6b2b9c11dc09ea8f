package ports

// VerificationRequest asks for a verification email to be delivered to the
// given address.
type VerificationRequest struct {
	Email string
}

// VerificationQueue accepts verification requests for out-of-band delivery,
// keeping the signup interaction off the mail path.
type VerificationQueue interface {
	Enqueue(req VerificationRequest)
}
