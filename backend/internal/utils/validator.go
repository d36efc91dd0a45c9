package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/utils"
)

const maxBoardNameLength = 32

// PostValidator checks the free-form parts of threads and replies.
type PostValidator struct {
	maxTextLength int
}

func NewPostValidator(maxTextLength int) *PostValidator {
	return &PostValidator{maxTextLength: maxTextLength}
}

// BoardName accepts any printable name of at most 32 runes. A slash would
// split the board path segment and is refused.
func (v *PostValidator) BoardName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Validation(utils.IncompleteForm)
	}
	if utf8.RuneCountInString(name) > maxBoardNameLength {
		return errors.Validation("board name is too long")
	}
	if !utf8.ValidString(name) {
		return errors.Validation("board name contains a forbidden character")
	}
	for _, c := range name {
		if c == '/' || c == '\\' || !unicode.IsPrint(c) {
			return errors.Validation("board name contains a forbidden character")
		}
	}
	return nil
}

func (v *PostValidator) Text(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.Validation(utils.IncompleteForm)
	}
	if v.maxTextLength > 0 && utf8.RuneCountInString(text) > v.maxTextLength {
		return errors.Validation("text is too long")
	}
	return nil
}
