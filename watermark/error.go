package watermark

import (
	"fmt"
	"strconv"
)

// CorruptWatermarkError reports a watermark file whose contents do not parse.
type CorruptWatermarkError struct {
	Path    string
	Content string
	Err     error
}

func (e *CorruptWatermarkError) Error() string {
	return fmt.Sprintf("corrupt watermark in %s: %s: %v", e.Path, strconv.Quote(e.Content), e.Err)
}

func (e *CorruptWatermarkError) Unwrap() error {
	return e.Err
}

// PersistError reports a failure to write the watermark file.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist watermark %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
