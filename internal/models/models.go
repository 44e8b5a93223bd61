package models

import "time"

// User represents a registered account. PasswordHash holds the bcrypt hash of
// the account password; the plaintext is never stored and the hash never
// appears in a serialized response.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Video is the metadata record for a single owned video. The service stores
// metadata only; no video bytes exist anywhere in the system.
type Video struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	// Tags is a free-text delimited string ("beach,sun"); filters match it by
	// case-insensitive substring, not by exact tag.
	Tags string
	// FileSize is the reported size in megabytes. It is not validated against
	// any real file.
	FileSize   int64
	UploadDate time.Time
}
