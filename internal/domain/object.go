package domain

import "io"

// Object is a stored blob opened for reading. The caller closes Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}
