package ui

import (
	"bridgeai/utils"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrEmptyFilename = errors.New("empty file name")

// FileSaver writes downloads into Dir.
type FileSaver struct {
	Dir string
}

func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{Dir: dir}
}

// Save writes to a temporary .part file next to the target and renames it
// into place. The temporary file never outlives a failed save.
func (s *FileSaver) Save(name string, data []byte) (err error) {
	base, err := filepath.Abs(s.Dir)
	if err != nil {
		return err
	}
	target, err := utils.SafeSubdir(base, name)
	if err != nil {
		return err
	}
	if target == base {
		return ErrEmptyFilename
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".*.part")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
