package conversation

import "errors"

var (
	// ErrNotLoaded means no profile is signed in.
	ErrNotLoaded = errors.New("no profile loaded")
	// ErrEmptyName means a chat name was blank after trimming.
	ErrEmptyName = errors.New("chat name is required")
	// ErrSelfTarget means a friend action targeted the signed-in user.
	ErrSelfTarget = errors.New("cannot target yourself")
	// ErrAlreadySent means a friend request to the target is still pending.
	ErrAlreadySent = errors.New("friend request already sent")
	// ErrAlreadyFriends means the target is already a friend.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrNotFound means the chat, profile or request does not exist.
	ErrNotFound = errors.New("not found")
)

// IsValidation reports whether err is a rejected input rather than a
// storage failure. Nothing was changed when it returns true.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrSelfTarget) ||
		errors.Is(err, ErrAlreadySent) ||
		errors.Is(err, ErrAlreadyFriends) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotLoaded)
}
