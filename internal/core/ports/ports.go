package ports

import (
	"cropcare/internal/data/leafimage"
)

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	if f == nil {
		return false
	}
	return f(prompt)
}

// ImageSource resolves a user-supplied path into an opaque image reference.
type ImageSource interface {
	Load(path string) (leafimage.Ref, error)
}
