package domain

// Zero overwrites b in place. Master key bytes are zeroed once a cipher holds them.
func Zero(b []byte) {
	clear(b)
}
