package handler

const (
	errInternalServer      = "Internal server error"
	errInvalidCredentials  = "Invalid email or password"
	errEmailTaken          = "This email is already registered"
	errInvalidRefreshToken = "Invalid refresh token"
	errExpiredRefreshToken = "Expired refresh token"
	errTokenInvalid        = "Token is invalid or expired"
	errTransactionNotFound = "Transaction not found"
)
