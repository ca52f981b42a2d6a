// ABOUTME: Clipboard abstraction used by CopyActiveDraft
// ABOUTME: SystemClipboard delegates to atotto/clipboard
package workspace

import (
	"errors"

	"github.com/atotto/clipboard"
)

var (
	ErrEmptyResult          = errors.New("backend returned an empty result")
	ErrClipboardUnavailable = errors.New("no system clipboard available")
)

// Clipboard receives copied draft text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard (xclip/xsel/wl-copy, pbcopy, or the Windows API).
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}
